package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/util"
	"classhub_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topicAssignmentsCacheTTL = 5 * time.Minute

type AssignmentService struct {
	Repo         *repository.AssignmentRepository
	QuestionRepo *repository.QuestionRepository
	TopicRepo    *repository.TopicRepository
	Redis        *redis.Client
}

func NewAssignmentService(repo *repository.AssignmentRepository, questionRepo *repository.QuestionRepository, topicRepo *repository.TopicRepository, rdb *redis.Client) *AssignmentService {
	return &AssignmentService{
		Repo:         repo,
		QuestionRepo: questionRepo,
		TopicRepo:    topicRepo,
		Redis:        rdb,
	}
}

// QuestionSpec 建作业时的一条题目：QuestionID > 0 表示引用题库已有条目，
// 否则按内联新题处理，归属创建作业的教师
type QuestionSpec struct {
	QuestionID uint                `json:"questionId"`
	SubjectID  uint                `json:"subjectId"`
	Kind       model.QuestionKind  `json:"kind"`
	Text       string              `json:"text"`
	Difficulty model.Difficulty    `json:"difficulty"`
	Options    []QuestionOptionReq `json:"options"`
}

type CreateAssignmentReq struct {
	TopicID          uint                 `json:"topicId" binding:"required"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Kind             model.AssignmentKind `json:"kind" binding:"required"`
	DueAt            time.Time            `json:"dueAt"`
	AvailableFrom    *time.Time           `json:"availableFrom"`
	AvailableUntil   *time.Time           `json:"availableUntil"`
	TimeLimitMinutes int                  `json:"timeLimitMinutes"`
	AttemptLimit     int                  `json:"attemptLimit"`
	PassingScore     float64              `json:"passingScore"`
	ExternalURL      string               `json:"externalUrl"`
	Questions        []QuestionSpec       `json:"questions"`
}

type UpdateAssignmentReq struct {
	Title            *string               `json:"title"`
	Description      *string               `json:"description"`
	Kind             *model.AssignmentKind `json:"kind"`
	DueAt            *time.Time            `json:"dueAt"`
	AvailableFrom    *time.Time            `json:"availableFrom"`
	AvailableUntil   *time.Time            `json:"availableUntil"`
	TimeLimitMinutes *int                  `json:"timeLimitMinutes"`
	AttemptLimit     *int                  `json:"attemptLimit"`
	PassingScore     *float64              `json:"passingScore"`
	ExternalURL      *string               `json:"externalUrl"`
}

func (s *AssignmentService) authorizeTopic(topicID, actorID uint, role model.UserRole) (*model.Topic, error) {
	topic, err := s.TopicRepo.FindByID(topicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if role != model.Admin && topic.TeacherID != actorID {
		return nil, util.ErrForbidden
	}
	return topic, nil
}

func (s *AssignmentService) CreateAssignment(actorID uint, role model.UserRole, req CreateAssignmentReq) (*model.Assignment, error) {
	if _, err := s.authorizeTopic(req.TopicID, actorID, role); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, util.NewValidationError("assignment title is required")
	}
	if req.DueAt.IsZero() {
		return nil, util.NewValidationError("assignment due date is required")
	}

	attemptLimit := req.AttemptLimit
	if attemptLimit <= 0 {
		attemptLimit = 1
	}

	assignment := &model.Assignment{
		TopicID:          req.TopicID,
		CreatorID:        actorID,
		Title:            req.Title,
		Description:      req.Description,
		Kind:             req.Kind,
		DueAt:            req.DueAt,
		AvailableFrom:    req.AvailableFrom,
		AvailableUntil:   req.AvailableUntil,
		TimeLimitMinutes: req.TimeLimitMinutes,
		AttemptLimit:     attemptLimit,
		PassingScore:     req.PassingScore,
		ExternalURL:      req.ExternalURL,
	}

	var sources []repository.QuestionSource

	switch req.Kind {
	case model.AssignmentExternalLink:
		if strings.TrimSpace(req.ExternalURL) == "" {
			return nil, util.NewValidationError("externalUrl is required for external_link assignment")
		}
		if len(req.Questions) > 0 {
			return nil, util.NewValidationError("external_link assignment does not take questions")
		}
	case model.AssignmentMultipleChoice, model.AssignmentEssay:
		if len(req.Questions) == 0 {
			return nil, util.NewValidationError("%s assignment requires at least one question", req.Kind)
		}
		// 先把每一题校验完再开事务，保证要么全部落库要么一题不留
		for _, spec := range req.Questions {
			if spec.QuestionID > 0 {
				if _, err := s.QuestionRepo.FindByID(spec.QuestionID); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, util.NewValidationError("referenced question %d does not exist", spec.QuestionID)
					}
					return nil, err
				}
				sources = append(sources, repository.QuestionSource{QuestionID: spec.QuestionID})
				continue
			}

			if err := validateQuestion(spec.Kind, spec.Text, spec.Options); err != nil {
				return nil, err
			}
			difficulty := spec.Difficulty
			if difficulty == "" {
				difficulty = model.DifficultyMedium
			}
			sources = append(sources, repository.QuestionSource{
				Inline: &model.QuestionBankEntry{
					OwnerID:    actorID,
					SubjectID:  spec.SubjectID,
					Kind:       spec.Kind,
					Text:       spec.Text,
					Difficulty: difficulty,
					Options:    buildOptions(spec.Options),
				},
			})
		}
	default:
		return nil, util.NewValidationError("unknown assignment kind: %s", req.Kind)
	}

	if err := s.Repo.CreateWithQuestions(assignment, sources); err != nil {
		return nil, err
	}

	s.invalidateTopicCache(req.TopicID)
	return assignment, nil
}

func (s *AssignmentService) UpdateAssignment(actorID uint, role model.UserRole, id uint, req UpdateAssignmentReq) (*model.Assignment, error) {
	assignment, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizeTopic(assignment.TopicID, actorID, role); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, util.NewValidationError("assignment title is required")
		}
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.DueAt != nil {
		assignment.DueAt = *req.DueAt
	}
	if req.AvailableFrom != nil {
		assignment.AvailableFrom = req.AvailableFrom
	}
	if req.AvailableUntil != nil {
		assignment.AvailableUntil = req.AvailableUntil
	}
	if req.TimeLimitMinutes != nil {
		assignment.TimeLimitMinutes = *req.TimeLimitMinutes
	}
	if req.AttemptLimit != nil {
		if *req.AttemptLimit <= 0 {
			return nil, util.NewValidationError("attemptLimit must be positive")
		}
		assignment.AttemptLimit = *req.AttemptLimit
	}
	if req.PassingScore != nil {
		assignment.PassingScore = *req.PassingScore
	}
	if req.ExternalURL != nil {
		assignment.ExternalURL = *req.ExternalURL
	}

	detach := false
	if req.Kind != nil && *req.Kind != assignment.Kind {
		// 只允许改为 external_link：题目引用被解除但题库条目保留。
		// 反向变更会留下一个零题目的测验，直接拒绝
		if *req.Kind != model.AssignmentExternalLink {
			return nil, util.NewValidationError("assignment kind can only be changed to external_link")
		}
		if strings.TrimSpace(assignment.ExternalURL) == "" {
			return nil, util.NewValidationError("externalUrl is required for external_link assignment")
		}
		assignment.Kind = model.AssignmentExternalLink
		detach = true
	}

	if err := s.Repo.Update(assignment); err != nil {
		return nil, err
	}
	if detach {
		if err := s.Repo.DetachRefs(assignment.ID); err != nil {
			return nil, err
		}
	}

	s.invalidateTopicCache(assignment.TopicID)
	return assignment, nil
}

// ListForTopic 按截止时间升序，短 TTL 的 Redis 缓存，作业写入时失效
func (s *AssignmentService) ListForTopic(topicID uint) ([]model.Assignment, error) {
	key := topicAssignmentsCacheKey(topicID)

	if s.Redis != nil {
		cached, err := s.Redis.Get(context.Background(), key).Result()
		if err == nil {
			var as []model.Assignment
			if jsonErr := json.Unmarshal([]byte(cached), &as); jsonErr == nil {
				return as, nil
			}
		}
	}

	as, err := s.Repo.ListByTopic(topicID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, jsonErr := json.Marshal(as); jsonErr == nil {
			s.Redis.Set(context.Background(), key, data, topicAssignmentsCacheTTL)
		}
	}
	return as, nil
}

// ResolveForAttempt 展示或评分前的读取，联查实时题库内容
func (s *AssignmentService) ResolveForAttempt(id uint) (*model.ResolvedAssignment, error) {
	resolved, err := s.Repo.Resolve(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return resolved, err
}

func topicAssignmentsCacheKey(topicID uint) string {
	return fmt.Sprintf("topic:%d:assignments", topicID)
}

func (s *AssignmentService) invalidateTopicCache(topicID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), topicAssignmentsCacheKey(topicID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate topic assignments cache", zap.Uint("topicId", topicID), zap.Error(err))
	}
}
