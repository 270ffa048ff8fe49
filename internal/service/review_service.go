package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/util"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

type ReviewService struct {
	SubmissionRepo *repository.SubmissionRepository
	AssignmentRepo *repository.AssignmentRepository
	TopicRepo      *repository.TopicRepository
}

func NewReviewService(submissionRepo *repository.SubmissionRepository, assignmentRepo *repository.AssignmentRepository, topicRepo *repository.TopicRepository) *ReviewService {
	return &ReviewService{
		SubmissionRepo: submissionRepo,
		AssignmentRepo: assignmentRepo,
		TopicRepo:      topicRepo,
	}
}

// ReviewQuestion 回看视图里的一道题：选择题带学生所选、正误、正确答案和解析，
// 作文题带原文和教师反馈
type ReviewQuestion struct {
	QuestionID        uint               `json:"questionId"`
	Kind              model.QuestionKind `json:"kind"`
	Text              string             `json:"text"`
	ChosenOptionID    *uint              `json:"chosenOptionId,omitempty"`
	ChosenOptionText  string             `json:"chosenOptionText,omitempty"`
	IsCorrect         *bool              `json:"isCorrect,omitempty"`
	CorrectOptionID   *uint              `json:"correctOptionId,omitempty"`
	CorrectOptionText string             `json:"correctOptionText,omitempty"`
	Explanation       string             `json:"explanation,omitempty"`
	EssayAnswer       string             `json:"essayAnswer,omitempty"`
	Feedback          string             `json:"feedback,omitempty"`
}

// swagger:model ReviewView
type ReviewView struct {
	SubmissionID    string               `json:"submissionId"`
	AssignmentID    uint                 `json:"assignmentId"`
	AssignmentTitle string               `json:"assignmentTitle"`
	Kind            model.AssignmentKind `json:"kind"`
	AttemptIndex    int                  `json:"attemptIndex"`
	FinalScore      *float64             `json:"finalScore,omitempty"`
	FinalScoreText  string               `json:"finalScoreText"` // 数字或 "ungraded"
	Passed          *bool                `json:"passed,omitempty"`
	Feedback        string               `json:"feedback,omitempty"`
	ElapsedMs       int64                `json:"elapsedMs"`
	Questions       []ReviewQuestion     `json:"questions"`
}

// ComposeReview 重建一次提交的完整回看视图。学生只能看自己的提交；
// 主题的授课教师和管理员也可读取（批改时需要上下文）。
// 题目内容取实时题库，最终得分走 model.Submission.FinalScore 的唯一推导
func (s *ReviewService) ComposeReview(submissionID string, requesterID uint, role model.UserRole) (*ReviewView, error) {
	sub, err := s.SubmissionRepo.FindByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.authorizeReview(sub, requesterID, role); err != nil {
		return nil, err
	}

	resolved, err := s.AssignmentRepo.Resolve(sub.AssignmentID)
	if err != nil {
		return nil, err
	}

	view := &ReviewView{
		SubmissionID:    sub.ID,
		AssignmentID:    resolved.ID,
		AssignmentTitle: resolved.Title,
		Kind:            resolved.Kind,
		AttemptIndex:    sub.AttemptIndex,
		Feedback:        sub.Feedback,
		ElapsedMs:       sub.ElapsedMs,
	}

	if score, graded := sub.FinalScore(); graded {
		s := score
		view.FinalScore = &s
		view.FinalScoreText = strconv.FormatFloat(s, 'f', -1, 64)
		passed := s >= resolved.PassingScore
		view.Passed = &passed
	} else {
		view.FinalScoreText = "ungraded"
	}

	selected, err := sub.DecodeSelectedOptions()
	if err != nil {
		return nil, err
	}

	for i := range resolved.Questions {
		q := &resolved.Questions[i]
		rq := ReviewQuestion{
			QuestionID: q.ID,
			Kind:       q.Kind,
			Text:       q.Text,
		}

		switch q.Kind {
		case model.QuestionMultipleChoice:
			correct := q.CorrectOption()
			if correct != nil {
				id := correct.ID
				rq.CorrectOptionID = &id
				rq.CorrectOptionText = correct.Text
				rq.Explanation = correct.Explanation
			}
			if chosenID, ok := selected[q.ID]; ok {
				id := chosenID
				rq.ChosenOptionID = &id
				for j := range q.Options {
					if q.Options[j].ID == chosenID {
						rq.ChosenOptionText = q.Options[j].Text
						break
					}
				}
				isCorrect := correct != nil && chosenID == correct.ID
				rq.IsCorrect = &isCorrect
			}
		case model.QuestionEssay:
			rq.EssayAnswer = sub.EssayAnswer
			rq.Feedback = sub.Feedback
		}

		view.Questions = append(view.Questions, rq)
	}

	return view, nil
}

func (s *ReviewService) authorizeReview(sub *model.Submission, requesterID uint, role model.UserRole) error {
	switch role {
	case model.Admin:
		return nil
	case model.Student:
		if sub.StudentID != requesterID {
			return util.ErrForbidden
		}
		return nil
	case model.Teacher:
		assignment, err := s.AssignmentRepo.FindByID(sub.AssignmentID)
		if err != nil {
			return err
		}
		topic, err := s.TopicRepo.FindByID(assignment.TopicID)
		if err != nil {
			return err
		}
		if topic.TeacherID != requesterID {
			return util.ErrForbidden
		}
		return nil
	}
	return util.ErrForbidden
}
