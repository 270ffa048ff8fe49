package model

type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionEssay          QuestionKind = "essay"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionBankEntry 题库条目，独立于任何作业，归属出题教师
// swagger:model QuestionBankEntry
type QuestionBankEntry struct {
	BaseModel
	OwnerID    uint             `gorm:"index;type:bigint unsigned" json:"ownerId"`
	SubjectID  uint             `gorm:"index;type:bigint unsigned" json:"subjectId"`
	Kind       QuestionKind     `gorm:"size:50;not null" json:"kind"`
	Text       string           `gorm:"type:text;not null" json:"text"`
	Difficulty Difficulty       `gorm:"size:20;default:'medium'" json:"difficulty"`
	Options    []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuestionBankEntry) TableName() string {
	return "question_bank_entries"
}

// CorrectOption 返回标记为正确的选项。写入时已保证选择题有且只有一个正确选项
func (q *QuestionBankEntry) CorrectOption() *QuestionOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID  uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text        string `gorm:"type:text;not null" json:"text"`
	IsCorrect   bool   `gorm:"default:false" json:"isCorrect"`
	Explanation string `gorm:"type:text" json:"explanation"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
