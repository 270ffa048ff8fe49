package repository

import (
	"classhub_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, id).Error
	return &topic, err
}

func (r *TopicRepository) ListByClass(classID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("class_id = ?", classID).Order("created_at asc").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) ListByTeacher(teacherID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at asc").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) Update(topic *model.Topic) error {
	return r.DB.Save(topic).Error
}

func (r *TopicRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Topic{}, id).Error
}
