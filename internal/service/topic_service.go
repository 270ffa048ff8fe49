package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type TopicService struct {
	Repo *repository.TopicRepository
}

func NewTopicService(repo *repository.TopicRepository) *TopicService {
	return &TopicService{Repo: repo}
}

type TopicReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ClassID     *uint   `json:"classId"`
}

func (s *TopicService) CreateTopic(teacherID uint, req TopicReq) (*model.Topic, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, util.NewValidationError("topic name is required")
	}

	topic := &model.Topic{
		Name:      *req.Name,
		TeacherID: teacherID,
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}
	if req.ClassID != nil {
		topic.ClassID = *req.ClassID
	}

	if err := s.Repo.Create(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) GetTopic(id uint) (*model.Topic, error) {
	topic, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return topic, err
}

func (s *TopicService) UpdateTopic(actorID uint, role model.UserRole, id uint, req TopicReq) (*model.Topic, error) {
	topic, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if role != model.Admin && topic.TeacherID != actorID {
		return nil, util.ErrForbidden
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, util.NewValidationError("topic name is required")
		}
		topic.Name = *req.Name
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}
	if req.ClassID != nil {
		topic.ClassID = *req.ClassID
	}

	if err := s.Repo.Update(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) ListByTeacher(teacherID uint) ([]model.Topic, error) {
	return s.Repo.ListByTeacher(teacherID)
}

func (s *TopicService) ListByClass(classID uint) ([]model.Topic, error) {
	return s.Repo.ListByClass(classID)
}
