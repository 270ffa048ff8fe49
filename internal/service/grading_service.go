package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/util"
	"classhub_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

type GradingService struct {
	SubmissionRepo *repository.SubmissionRepository
	AssignmentRepo *repository.AssignmentRepository
	TopicRepo      *repository.TopicRepository
}

func NewGradingService(submissionRepo *repository.SubmissionRepository, assignmentRepo *repository.AssignmentRepository, topicRepo *repository.TopicRepository) *GradingService {
	return &GradingService{
		SubmissionRepo: submissionRepo,
		AssignmentRepo: assignmentRepo,
		TopicRepo:      topicRepo,
	}
}

type GradeReq struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// authorizeSubmission 提交 → 作业 → 主题的归属链检查：
// 只有主题的授课教师（或管理员）能批改
func (s *GradingService) authorizeSubmission(sub *model.Submission, teacherID uint, role model.UserRole) error {
	if role == model.Admin {
		return nil
	}
	assignment, err := s.AssignmentRepo.FindByID(sub.AssignmentID)
	if err != nil {
		return err
	}
	topic, err := s.TopicRepo.FindByID(assignment.TopicID)
	if err != nil {
		return err
	}
	if topic.TeacherID != teacherID {
		return util.ErrForbidden
	}
	return nil
}

// GradeSubmission 批改一次提交：作文题的评分入口，也是教师改判选择题
// 自动分的入口（自动分保持不可变，人工分在最终得分推导中优先）。
// 重复批改直接覆盖旧值，不保留批改历史
func (s *GradingService) GradeSubmission(teacherID uint, role model.UserRole, submissionID string, req GradeReq) (*model.Submission, error) {
	if req.Score < util.ScoreMin || req.Score > util.ScoreMax {
		return nil, util.NewValidationError("score must be between %.0f and %.0f", util.ScoreMin, util.ScoreMax)
	}

	sub, err := s.SubmissionRepo.FindByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.authorizeSubmission(sub, teacherID, role); err != nil {
		monitoring.GradingCounter.WithLabelValues("forbidden").Inc()
		return nil, err
	}

	now := time.Now()
	score := req.Score
	sub.ManualScore = &score
	sub.Feedback = req.Feedback
	sub.GradedBy = &teacherID
	sub.GradedAt = &now

	if err := s.SubmissionRepo.UpdateGrade(sub); err != nil {
		monitoring.GradingCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.GradingCounter.WithLabelValues("graded").Inc()
	return sub, nil
}

// ListForAssignment 教师查看某作业的全部提交，附带是否已评分
func (s *GradingService) ListForAssignment(teacherID uint, role model.UserRole, assignmentID uint) ([]model.Submission, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if role != model.Admin {
		topic, err := s.TopicRepo.FindByID(assignment.TopicID)
		if err != nil {
			return nil, err
		}
		if topic.TeacherID != teacherID {
			return nil, util.ErrForbidden
		}
	}

	return s.SubmissionRepo.ListByAssignment(assignmentID)
}
