package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type QuestionBankService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionBankService(repo *repository.QuestionRepository) *QuestionBankService {
	return &QuestionBankService{Repo: repo}
}

type QuestionOptionReq struct {
	ID          uint   `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
	Order       int    `json:"order"`
}

type CreateQuestionReq struct {
	SubjectID  uint                `json:"subjectId"`
	Kind       model.QuestionKind  `json:"kind" binding:"required"`
	Text       string              `json:"text"`
	Difficulty model.Difficulty    `json:"difficulty"`
	Options    []QuestionOptionReq `json:"options"`
}

type UpdateQuestionReq struct {
	SubjectID  *uint                `json:"subjectId"`
	Text       *string              `json:"text"`
	Difficulty *model.Difficulty    `json:"difficulty"`
	Options    *[]QuestionOptionReq `json:"options"`
}

type SearchQuestionsReq struct {
	Text       string           `form:"text"`
	SubjectID  uint             `form:"subjectId"`
	Difficulty model.Difficulty `form:"difficulty"`
}

// validateQuestion 选择题必须带选项且恰好一个正确选项。
// 题库条目只标记单一正确答案，在写入时就把歧义挡掉
func validateQuestion(kind model.QuestionKind, text string, options []QuestionOptionReq) error {
	if strings.TrimSpace(text) == "" {
		return util.NewValidationError("question text is required")
	}

	switch kind {
	case model.QuestionMultipleChoice:
		if len(options) == 0 {
			return util.NewValidationError("multiple_choice question requires at least one option")
		}
		correct := 0
		for _, opt := range options {
			if strings.TrimSpace(opt.Text) == "" {
				return util.NewValidationError("option text is required")
			}
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return util.NewValidationError("multiple_choice question requires exactly one correct option, got %d", correct)
		}
	case model.QuestionEssay:
		if len(options) > 0 {
			return util.NewValidationError("essay question does not take options")
		}
	default:
		return util.NewValidationError("unknown question kind: %s", kind)
	}
	return nil
}

func buildOptions(reqs []QuestionOptionReq) []model.QuestionOption {
	options := make([]model.QuestionOption, 0, len(reqs))
	for i, opt := range reqs {
		order := opt.Order
		if order == 0 {
			order = i
		}
		options = append(options, model.QuestionOption{
			BaseModel:   model.BaseModel{ID: opt.ID},
			Text:        opt.Text,
			IsCorrect:   opt.IsCorrect,
			Explanation: opt.Explanation,
			Order:       order,
		})
	}
	return options
}

func (s *QuestionBankService) CreateQuestion(ownerID uint, req CreateQuestionReq) (*model.QuestionBankEntry, error) {
	if err := validateQuestion(req.Kind, req.Text, req.Options); err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}

	entry := &model.QuestionBankEntry{
		OwnerID:    ownerID,
		SubjectID:  req.SubjectID,
		Kind:       req.Kind,
		Text:       req.Text,
		Difficulty: difficulty,
		Options:    buildOptions(req.Options),
	}

	if err := s.Repo.CreateWithOptions(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *QuestionBankService) GetQuestion(id uint) (*model.QuestionBankEntry, error) {
	entry, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return entry, err
}

func (s *QuestionBankService) UpdateQuestion(id uint, req UpdateQuestionReq) (*model.QuestionBankEntry, error) {
	entry, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		entry.Text = *req.Text
	}
	if req.SubjectID != nil {
		entry.SubjectID = *req.SubjectID
	}
	if req.Difficulty != nil {
		entry.Difficulty = *req.Difficulty
	}

	// 未提交选项时保留存量选项
	optionReqs := make([]QuestionOptionReq, 0)
	if req.Options != nil {
		optionReqs = *req.Options
	} else {
		for _, opt := range entry.Options {
			optionReqs = append(optionReqs, QuestionOptionReq{
				ID:          opt.ID,
				Text:        opt.Text,
				IsCorrect:   opt.IsCorrect,
				Explanation: opt.Explanation,
				Order:       opt.Order,
			})
		}
	}

	if err := validateQuestion(entry.Kind, entry.Text, optionReqs); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateWithOptions(entry, buildOptions(optionReqs)); err != nil {
		return nil, err
	}

	return s.Repo.FindByID(id)
}

func (s *QuestionBankService) Search(req SearchQuestionsReq) ([]model.QuestionBankEntry, error) {
	return s.Repo.Search(req.Text, req.SubjectID, req.Difficulty)
}
