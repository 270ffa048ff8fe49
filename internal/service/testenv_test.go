package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/repository"
	"classhub_backend/pkg/logger"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testTeacherID      uint = 1
	testOtherTeacherID uint = 2
	testStudentID      uint = 10
	testOtherStudentID uint = 11
)

// newTestDB 每个测试一个独立的 sqlite 文件库。_txlock=immediate 让写事务
// 串行化，计数+插入的提交事务在并发测试下表现和 MySQL 一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", filepath.Join(t.TempDir(), "classhub_test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Topic{},
		&model.QuestionBankEntry{},
		&model.QuestionOption{},
		&model.Assignment{},
		&model.AssignmentQuestionRef{},
		&model.Submission{},
	))
	return db
}

type testEnv struct {
	db          *gorm.DB
	topics      *TopicService
	bank        *QuestionBankService
	assignments *AssignmentService
	submissions *SubmissionService
	grading     *GradingService
	review      *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)

	topicRepo := repository.NewTopicRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	assignments := NewAssignmentService(assignmentRepo, questionRepo, topicRepo, nil)

	return &testEnv{
		db:          db,
		topics:      NewTopicService(topicRepo),
		bank:        NewQuestionBankService(questionRepo),
		assignments: assignments,
		submissions: NewSubmissionService(submissionRepo, assignments),
		grading:     NewGradingService(submissionRepo, assignmentRepo, topicRepo),
		review:      NewReviewService(submissionRepo, assignmentRepo, topicRepo),
	}
}

func (e *testEnv) createTopic(t *testing.T, teacherID uint) *model.Topic {
	t.Helper()

	name := "数据结构"
	topic, err := e.topics.CreateTopic(teacherID, TopicReq{Name: &name})
	require.NoError(t, err)
	return topic
}

// mcQuestionSpec 一道内联选择题，第 correctIdx 个选项为正确答案
func mcQuestionSpec(text string, optionCount, correctIdx int) QuestionSpec {
	spec := QuestionSpec{
		Kind: model.QuestionMultipleChoice,
		Text: text,
	}
	for i := 0; i < optionCount; i++ {
		spec.Options = append(spec.Options, QuestionOptionReq{
			Text:        fmt.Sprintf("%s 选项%d", text, i+1),
			IsCorrect:   i == correctIdx,
			Explanation: "参见课件第三章",
			Order:       i,
		})
	}
	return spec
}

func (e *testEnv) createChoiceAssignment(t *testing.T, topicID uint, attemptLimit int, specs ...QuestionSpec) *model.ResolvedAssignment {
	t.Helper()

	assignment, err := e.assignments.CreateAssignment(testTeacherID, model.Teacher, CreateAssignmentReq{
		TopicID:      topicID,
		Title:        "第一次随堂测验",
		Kind:         model.AssignmentMultipleChoice,
		DueAt:        time.Now().Add(72 * time.Hour),
		AttemptLimit: attemptLimit,
		PassingScore: 60,
		Questions:    specs,
	})
	require.NoError(t, err)

	resolved, err := e.assignments.ResolveForAttempt(assignment.ID)
	require.NoError(t, err)
	return resolved
}

func (e *testEnv) createEssayAssignment(t *testing.T, topicID uint, attemptLimit int) *model.ResolvedAssignment {
	t.Helper()

	assignment, err := e.assignments.CreateAssignment(testTeacherID, model.Teacher, CreateAssignmentReq{
		TopicID:      topicID,
		Title:        "课程论文",
		Kind:         model.AssignmentEssay,
		DueAt:        time.Now().Add(7 * 24 * time.Hour),
		AttemptLimit: attemptLimit,
		PassingScore: 60,
		Questions: []QuestionSpec{
			{Kind: model.QuestionEssay, Text: "论述链表与数组的取舍"},
		},
	})
	require.NoError(t, err)

	resolved, err := e.assignments.ResolveForAttempt(assignment.ID)
	require.NoError(t, err)
	return resolved
}

// answersFor 按题构造答案映射：correct 为 true 的题选正确选项，否则选第一个错误选项
func answersFor(resolved *model.ResolvedAssignment, correct map[uint]bool) map[uint]uint {
	selected := make(map[uint]uint)
	for i := range resolved.Questions {
		q := &resolved.Questions[i]
		want := correct[q.ID]
		for _, opt := range q.Options {
			if opt.IsCorrect == want {
				selected[q.ID] = opt.ID
				break
			}
		}
	}
	return selected
}
