package model

import "time"

type AssignmentKind string

const (
	AssignmentMultipleChoice AssignmentKind = "multiple_choice"
	AssignmentEssay          AssignmentKind = "essay"
	AssignmentExternalLink   AssignmentKind = "external_link"
)

// Assignment 可评分的作业单元（测验、作文或外部链接），挂在主题下
// swagger:model Assignment
type Assignment struct {
	BaseModel
	TopicID          uint           `gorm:"index;type:bigint unsigned" json:"topicId"`
	CreatorID        uint           `gorm:"index;type:bigint unsigned" json:"creatorId"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Kind             AssignmentKind `gorm:"size:50;not null" json:"kind"`
	DueAt            time.Time      `json:"dueAt"`
	AvailableFrom    *time.Time     `json:"availableFrom,omitempty"`
	AvailableUntil   *time.Time     `json:"availableUntil,omitempty"`
	TimeLimitMinutes int            `gorm:"default:0" json:"timeLimitMinutes"` // 0 表示不限时
	AttemptLimit     int            `gorm:"default:1" json:"attemptLimit"`
	PassingScore     float64        `gorm:"default:60" json:"passingScore"`
	ExternalURL      string         `gorm:"size:512" json:"externalUrl,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AvailableAt 判断作业在 t 时刻是否处于开放窗口内
func (a *Assignment) AvailableAt(t time.Time) bool {
	if a.AvailableFrom != nil && t.Before(*a.AvailableFrom) {
		return false
	}
	if a.AvailableUntil != nil && t.After(*a.AvailableUntil) {
		return false
	}
	return true
}

// AssignmentQuestionRef 作业与题库条目的关联（按引用，非快照），顺序由 OrderIndex 决定
// swagger:model AssignmentQuestionRef
type AssignmentQuestionRef struct {
	BaseModel
	AssignmentID uint `gorm:"index;type:bigint unsigned;uniqueIndex:idx_assignment_question" json:"assignmentId"`
	QuestionID   uint `gorm:"index;type:bigint unsigned;uniqueIndex:idx_assignment_question" json:"questionId"`
	OrderIndex   int  `gorm:"default:0" json:"orderIndex"`
}

func (AssignmentQuestionRef) TableName() string {
	return "assignment_question_refs"
}

// ResolvedAssignment 作业与实时题库内容的联查结果，提交评分前的读取视图
type ResolvedAssignment struct {
	Assignment
	Questions []QuestionBankEntry `json:"questions"`
}
