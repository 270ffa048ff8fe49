package repository

import (
	"classhub_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// QuestionSource 建作业时的一条题目来源：引用已有条目或内联新建后引用
type QuestionSource struct {
	QuestionID uint
	Inline     *model.QuestionBankEntry
}

// CreateWithQuestions 作业、内联新建的题库条目和引用关系在一个事务内落库，
// 引用顺序跟随 sources 的顺序，任何一步失败则整体回滚
func (r *AssignmentRepository) CreateWithQuestions(assignment *model.Assignment, sources []QuestionSource) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}
		for i, src := range sources {
			qid := src.QuestionID
			if src.Inline != nil {
				if err := tx.Create(src.Inline).Error; err != nil {
					return err
				}
				qid = src.Inline.ID
			}
			ref := &model.AssignmentQuestionRef{
				AssignmentID: assignment.ID,
				QuestionID:   qid,
				OrderIndex:   i,
			}
			if err := tx.Create(ref).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) ListByTopic(topicID uint) ([]model.Assignment, error) {
	var as []model.Assignment
	err := r.DB.Where("topic_id = ?", topicID).Order("due_at asc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) ListRefs(assignmentID uint) ([]model.AssignmentQuestionRef, error) {
	var refs []model.AssignmentQuestionRef
	err := r.DB.Where("assignment_id = ?", assignmentID).Order("order_index asc, id asc").Find(&refs).Error
	return refs, err
}

// DetachRefs 解除作业的全部题目引用，题库条目本身保留
func (r *AssignmentRepository) DetachRefs(assignmentID uint) error {
	return r.DB.Where("assignment_id = ?", assignmentID).Delete(&model.AssignmentQuestionRef{}).Error
}

// Resolve 作业与实时题库内容的联查，按引用顺序展开题目。
// 每次调用都读当前题库，从不读快照
func (r *AssignmentRepository) Resolve(id uint) (*model.ResolvedAssignment, error) {
	assignment, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	refs, err := r.ListRefs(id)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.QuestionID)
	}

	var entries []model.QuestionBankEntry
	if len(ids) > 0 {
		err = r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc, id asc")
		}).Where("id IN ?", ids).Find(&entries).Error
		if err != nil {
			return nil, err
		}
	}

	byID := make(map[uint]model.QuestionBankEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	resolved := &model.ResolvedAssignment{Assignment: *assignment}
	for _, ref := range refs {
		if entry, ok := byID[ref.QuestionID]; ok {
			resolved.Questions = append(resolved.Questions, entry)
		}
	}
	return resolved, nil
}
