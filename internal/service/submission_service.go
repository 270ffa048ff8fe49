package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/util"
	"classhub_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type SubmissionService struct {
	Repo          *repository.SubmissionRepository
	AssignmentSvc *AssignmentService
}

func NewSubmissionService(repo *repository.SubmissionRepository, assignmentSvc *AssignmentService) *SubmissionService {
	return &SubmissionService{Repo: repo, AssignmentSvc: assignmentSvc}
}

type SubmitReq struct {
	SelectedOptions map[uint]uint `json:"selectedOptions"` // questionId -> optionId，仅选择题
	EssayAnswer     string        `json:"essayAnswer"`     // 仅作文题
	StartedAt       *time.Time    `json:"startedAt"`       // 客户端上报，可能缺失
	ElapsedMs       int64         `json:"elapsedMs"`
}

// SubmitResult 提交结果按作业类型返回：选择题当场带分，
// 作文题只确认收到，分数在教师批改前刻意不存在
type SubmitResult struct {
	SubmissionID      string               `json:"submissionId"`
	Kind              model.AssignmentKind `json:"kind"`
	AttemptIndex      int                  `json:"attemptIndex"`
	AttemptsRemaining int                  `json:"attemptsRemaining"`
	AutoScore         *float64             `json:"autoScore,omitempty"`
	Passed            *bool                `json:"passed,omitempty"`
}

// Submit 一次完整的提交：读取实时作业内容、校验约束、评分（选择题）并原子落库。
// 没有"进行中"的会话记录，尝试就是已完成提交的行数；倒计时由客户端负责，
// 服务端不在提交时二次校验用时
func (s *SubmissionService) Submit(studentID, assignmentID uint, req SubmitReq) (*SubmitResult, error) {
	resolved, err := s.AssignmentSvc.ResolveForAttempt(assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !resolved.AvailableAt(now) {
		return nil, util.NewValidationError("assignment is not open for submission")
	}

	// 先行快速检查，真正的并发防线在 CreateAttempt 的事务和唯一索引里
	count, err := s.Repo.CountByStudentAndAssignment(studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	if int(count) >= resolved.AttemptLimit {
		monitoring.SubmissionCounter.WithLabelValues(string(resolved.Kind), "limit_exceeded").Inc()
		return nil, util.ErrAttemptLimitExceeded
	}

	sub := &model.Submission{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		StartedAt:    req.StartedAt,
		CompletedAt:  now,
		ElapsedMs:    req.ElapsedMs,
	}

	switch resolved.Kind {
	case model.AssignmentMultipleChoice:
		if req.SelectedOptions == nil {
			return nil, util.NewValidationError("selectedOptions is required for multiple_choice assignment")
		}
		score := scoreMultipleChoice(resolved.Questions, req.SelectedOptions)
		sub.AutoScore = &score
		encoded, err := json.Marshal(req.SelectedOptions)
		if err != nil {
			return nil, err
		}
		sub.SelectedOptions = encoded
	case model.AssignmentEssay:
		if strings.TrimSpace(req.EssayAnswer) == "" {
			return nil, util.NewValidationError("essayAnswer is required for essay assignment")
		}
		sub.EssayAnswer = req.EssayAnswer
	case model.AssignmentExternalLink:
		return nil, util.NewValidationError("external_link assignment is not submittable")
	default:
		return nil, util.NewValidationError("unknown assignment kind: %s", resolved.Kind)
	}

	if err := s.Repo.CreateAttempt(sub, resolved.AttemptLimit); err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, util.ErrAttemptLimitExceeded):
			outcome = "limit_exceeded"
		case errors.Is(err, util.ErrConflict):
			outcome = "conflict"
		}
		monitoring.SubmissionCounter.WithLabelValues(string(resolved.Kind), outcome).Inc()
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(resolved.Kind), "accepted").Inc()

	result := &SubmitResult{
		SubmissionID:      sub.ID,
		Kind:              resolved.Kind,
		AttemptIndex:      sub.AttemptIndex,
		AttemptsRemaining: resolved.AttemptLimit - sub.AttemptIndex,
	}
	if resolved.Kind == model.AssignmentMultipleChoice && sub.AutoScore != nil {
		result.AutoScore = sub.AutoScore
		passed := *sub.AutoScore >= resolved.PassingScore
		result.Passed = &passed
	}
	return result, nil
}

// scoreMultipleChoice 按当前题库的答案键评分：每题与唯一正确选项做精确 ID 比对，
// 百分制保留两位小数。题目为空时得 0 分（建作业的校验已保证不会发生）
func scoreMultipleChoice(questions []model.QuestionBankEntry, selected map[uint]uint) float64 {
	total := len(questions)
	if total == 0 {
		return 0
	}

	correctCount := 0
	for i := range questions {
		q := &questions[i]
		correct := q.CorrectOption()
		if correct == nil {
			continue
		}
		if chosen, ok := selected[q.ID]; ok && chosen == correct.ID {
			correctCount++
		}
	}

	return util.Round2(util.ScoreMax * float64(correctCount) / float64(total))
}

// GetSubmission 学生只能读自己的提交
func (s *SubmissionService) GetSubmission(id string, requesterID uint, role model.UserRole) (*model.Submission, error) {
	sub, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if role == model.Student && sub.StudentID != requesterID {
		return nil, util.ErrForbidden
	}
	return sub, nil
}

func (s *SubmissionService) ListOwn(studentID uint) ([]model.Submission, error) {
	return s.Repo.ListByStudent(studentID)
}

func (s *SubmissionService) ListMineForAssignment(studentID, assignmentID uint) ([]model.Submission, error) {
	return s.Repo.ListByStudentAndAssignment(studentID, assignmentID)
}
