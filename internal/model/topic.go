package model

// Topic 班级下的教学主题，作业挂在主题下，归属教师用于权限判定
// swagger:model Topic
type Topic struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ClassID     uint   `gorm:"index;type:bigint unsigned" json:"classId"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
}

func (Topic) TableName() string {
	return "topics"
}
