package repository

import (
	"classhub_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// CreateWithOptions 条目与选项作为一个整体落库，校验失败时不留下半套选项
func (r *QuestionRepository) CreateWithOptions(entry *model.QuestionBankEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	})
}

func (r *QuestionRepository) FindByID(id uint) (*model.QuestionBankEntry, error) {
	var entry model.QuestionBankEntry
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).First(&entry, id).Error
	return &entry, err
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.QuestionBankEntry, error) {
	var entries []model.QuestionBankEntry
	if len(ids) == 0 {
		return entries, nil
	}
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).Where("id IN ?", ids).Find(&entries).Error
	return entries, err
}

// UpdateWithOptions 更新条目并用 options 整体替换存量选项集合：
// 带 ID 的更新，无 ID 的新建，缺席的删除
func (r *QuestionRepository) UpdateWithOptions(entry *model.QuestionBankEntry, options []model.QuestionOption) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(entry).Error; err != nil {
			return err
		}

		var existing []model.QuestionOption
		if err := tx.Where("question_id = ?", entry.ID).Find(&existing).Error; err != nil {
			return err
		}
		existingMap := make(map[uint]*model.QuestionOption, len(existing))
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		kept := make(map[uint]bool, len(options))
		for i := range options {
			opt := &options[i]
			opt.QuestionID = entry.ID
			if opt.ID != 0 {
				if _, ok := existingMap[opt.ID]; !ok {
					continue
				}
				if err := tx.Save(opt).Error; err != nil {
					return err
				}
				kept[opt.ID] = true
			} else {
				if err := tx.Create(opt).Error; err != nil {
					return err
				}
			}
		}

		for id := range existingMap {
			if !kept[id] {
				if err := tx.Delete(&model.QuestionOption{}, id).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Search 筛选条件 AND 叠加，缺省的条件不参与过滤，文本为大小写不敏感的子串匹配
func (r *QuestionRepository) Search(text string, subjectID uint, difficulty model.Difficulty) ([]model.QuestionBankEntry, error) {
	query := r.DB.Model(&model.QuestionBankEntry{})
	if text != "" {
		query = query.Where("LOWER(text) LIKE ?", "%"+strings.ToLower(text)+"%")
	}
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var entries []model.QuestionBankEntry
	err := query.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).Order("created_at desc").Find(&entries).Error
	return entries, err
}
