package database

import (
	"classhub_backend/internal/config"
	"classhub_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式下不自动迁移，除非显式带 -migrate 启动
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		seedDefaults(db)
	}

	return db, nil
}

// Migrate 建表与索引，提交表的唯一索引 (student_id, assignment_id, attempt_index)
// 是尝试次数约束的最终防线
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.QuestionBankEntry{},
		&model.QuestionOption{},
		&model.Assignment{},
		&model.AssignmentQuestionRef{},
		&model.Submission{},
	)
}

// 默认管理员账号，方便首次部署后登录
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("classhub-admin"), bcrypt.DefaultCost)
		if err != nil {
			return
		}
		admin := &model.User{
			Name:     "管理员",
			Email:    "admin@classhub.local",
			Password: string(hashed),
			Role:     model.Admin,
		}
		db.Create(admin)
	}
}
