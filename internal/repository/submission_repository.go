package repository

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// CreateAttempt 在一个事务内完成计数和插入。尝试序号由事务内的计数派生，
// (student_id, assignment_id, attempt_index) 上的唯一索引兜底：两个并发提交
// 即使都通过了计数检查，后插入的一方会撞唯一索引，映射为 ErrConflict
func (r *SubmissionRepository) CreateAttempt(sub *model.Submission, attemptLimit int) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Submission{}).
			Where("student_id = ? AND assignment_id = ?", sub.StudentID, sub.AssignmentID).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= attemptLimit {
			return util.ErrAttemptLimitExceeded
		}
		sub.AttemptIndex = int(count) + 1
		return tx.Create(sub).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrConflict
	}
	return err
}

func (r *SubmissionRepository) CountByStudentAndAssignment(studentID, assignmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.DB.First(&sub, "id = ?", id).Error
	return &sub, err
}

func (r *SubmissionRepository) ListByAssignment(assignmentID uint) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("assignment_id = ?", assignmentID).
		Order("student_id asc, attempt_index asc").Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByStudentAndAssignment(studentID, assignmentID uint) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Order("attempt_index asc").Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByStudent(studentID uint) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("student_id = ?", studentID).Order("created_at desc").Find(&subs).Error
	return subs, err
}

// UpdateGrade 只落评分相关列，提交的答案内容保持不可变
func (r *SubmissionRepository) UpdateGrade(sub *model.Submission) error {
	return r.DB.Model(sub).Select("manual_score", "feedback", "graded_by", "graded_at").Updates(map[string]interface{}{
		"manual_score": sub.ManualScore,
		"feedback":     sub.Feedback,
		"graded_by":    sub.GradedBy,
		"graded_at":    sub.GradedAt,
	}).Error
}
