package model

import (
	"encoding/json"
	"time"
)

// Submission 一名学生对一个作业的一次完整提交，提交后除人工评分外不再更新
// swagger:model Submission
type Submission struct {
	UUIDBase
	StudentID    uint `gorm:"index;type:bigint unsigned;uniqueIndex:idx_student_assignment_attempt" json:"studentId"`
	AssignmentID uint `gorm:"index;type:bigint unsigned;uniqueIndex:idx_student_assignment_attempt" json:"assignmentId"`
	// AttemptIndex 从 1 开始，唯一索引保证同一 (student, assignment) 的尝试序号不重复
	AttemptIndex    int             `gorm:"not null;uniqueIndex:idx_student_assignment_attempt" json:"attemptIndex"`
	SelectedOptions json.RawMessage `gorm:"type:json" json:"selectedOptions,omitempty"` // questionId -> optionId，仅选择题
	EssayAnswer     string          `gorm:"type:text" json:"essayAnswer,omitempty"`     // 仅作文题
	AutoScore       *float64        `json:"autoScore,omitempty"`                        // 选择题提交时计算，之后不可变
	ManualScore     *float64        `json:"manualScore,omitempty"`
	Feedback        string          `gorm:"type:text" json:"feedback,omitempty"`
	GradedBy        *uint           `gorm:"type:bigint unsigned" json:"gradedBy,omitempty"`
	GradedAt        *time.Time      `json:"gradedAt,omitempty"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"` // 客户端上报，可能缺失
	CompletedAt     time.Time       `json:"completedAt"`
	ElapsedMs       int64           `gorm:"default:0" json:"elapsedMs"`
}

func (Submission) TableName() string {
	return "submissions"
}

// DecodeSelectedOptions 解析选择题答案映射 questionId -> optionId
func (s *Submission) DecodeSelectedOptions() (map[uint]uint, error) {
	selected := make(map[uint]uint)
	if len(s.SelectedOptions) == 0 {
		return selected, nil
	}
	if err := json.Unmarshal(s.SelectedOptions, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}

// FinalScore 最终得分的唯一推导处：人工分优先（作文评分与教师改分共用），
// 否则取自动分；两者都缺失时视为未评分
func (s *Submission) FinalScore() (float64, bool) {
	if s.ManualScore != nil {
		return *s.ManualScore, true
	}
	if s.AutoScore != nil {
		return *s.AutoScore, true
	}
	return 0, false
}
