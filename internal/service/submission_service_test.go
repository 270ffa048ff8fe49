package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitMultipleChoiceScoring(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 1,
		mcQuestionSpec("栈的特性是什么", 3, 1),
		mcQuestionSpec("队列的特性是什么", 3, 2),
	)
	require.Len(t, resolved.Questions, 2)

	// 一对一错，两题得 50 分
	answers := answersFor(resolved, map[uint]bool{
		resolved.Questions[0].ID: true,
		resolved.Questions[1].ID: false,
	})
	result, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	require.NoError(t, err)

	require.NotNil(t, result.AutoScore)
	assert.Equal(t, 50.0, *result.AutoScore)
	assert.Equal(t, 1, result.AttemptIndex)
	assert.Equal(t, 0, result.AttemptsRemaining)
	require.NotNil(t, result.Passed)
	assert.False(t, *result.Passed)
	assert.NotEmpty(t, result.SubmissionID)
}

func TestSubmitScoringDeterministic(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 3,
		mcQuestionSpec("二分查找的时间复杂度", 4, 0),
		mcQuestionSpec("快速排序的平均复杂度", 4, 2),
		mcQuestionSpec("哈希表查找的期望复杂度", 4, 1),
	)

	answers := answersFor(resolved, map[uint]bool{
		resolved.Questions[0].ID: true,
		resolved.Questions[1].ID: true,
		resolved.Questions[2].ID: false,
	})

	// 同一份答案重复提交得到完全相同的分数
	first, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	require.NoError(t, err)
	second, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	require.NoError(t, err)

	require.NotNil(t, first.AutoScore)
	require.NotNil(t, second.AutoScore)
	assert.Equal(t, 66.67, *first.AutoScore)
	assert.Equal(t, *first.AutoScore, *second.AutoScore)
	assert.Equal(t, 1, first.AttemptIndex)
	assert.Equal(t, 2, second.AttemptIndex)
}

func TestSubmitAttemptLimit(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 1, mcQuestionSpec("链表的插入复杂度", 3, 0))

	answers := answersFor(resolved, map[uint]bool{resolved.Questions[0].ID: true})

	_, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	require.NoError(t, err)

	_, err = env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	assert.ErrorIs(t, err, util.ErrAttemptLimitExceeded)

	// 别的学生不受影响
	_, err = env.submissions.Submit(testOtherStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	assert.NoError(t, err)
}

// 两个并发提交抢同一个最后名额，最多只能有一个落库
func TestSubmitAttemptLimitConcurrent(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 1, mcQuestionSpec("图的遍历方式", 3, 1))

	answers := answersFor(resolved, map[uint]bool{resolved.Questions[0].ID: true})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t,
			err == util.ErrAttemptLimitExceeded || err == util.ErrConflict,
			"unexpected error: %v", err)
	}
	assert.LessOrEqual(t, succeeded, 1)

	var count int64
	require.NoError(t, env.db.Model(&model.Submission{}).
		Where("student_id = ? AND assignment_id = ?", testStudentID, resolved.ID).
		Count(&count).Error)
	assert.LessOrEqual(t, count, int64(1))
}

func TestSubmitEssayAndGradeFlow(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createEssayAssignment(t, topic.ID, 1)

	result, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{
		EssayAnswer: "数组随机访问快，链表插入删除快。",
	})
	require.NoError(t, err)
	assert.Nil(t, result.AutoScore)
	assert.Nil(t, result.Passed)

	// 批改前回看显示未评分
	view, err := env.review.ComposeReview(result.SubmissionID, testStudentID, model.Student)
	require.NoError(t, err)
	assert.Nil(t, view.FinalScore)
	assert.Equal(t, "ungraded", view.FinalScoreText)

	_, err = env.grading.GradeSubmission(testTeacherID, model.Teacher, result.SubmissionID, GradeReq{
		Score:    82,
		Feedback: "Good analysis",
	})
	require.NoError(t, err)

	view, err = env.review.ComposeReview(result.SubmissionID, testStudentID, model.Student)
	require.NoError(t, err)
	require.NotNil(t, view.FinalScore)
	assert.Equal(t, 82.0, *view.FinalScore)
	assert.Equal(t, "82", view.FinalScoreText)
	assert.Equal(t, "Good analysis", view.Feedback)
	require.NotNil(t, view.Passed)
	assert.True(t, *view.Passed)
}

func TestSubmitEssayRequiresAnswer(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createEssayAssignment(t, topic.ID, 1)

	_, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{EssayAnswer: "   "})
	assert.True(t, util.IsValidationError(err))
}

func TestSubmitChoiceRequiresSelections(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 1, mcQuestionSpec("树的高度定义", 3, 0))

	_, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{})
	assert.True(t, util.IsValidationError(err))
}

func TestSubmitExternalLinkRejected(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)

	assignment, err := env.assignments.CreateAssignment(testTeacherID, model.Teacher, CreateAssignmentReq{
		TopicID:     topic.ID,
		Title:       "课外阅读",
		Kind:        model.AssignmentExternalLink,
		DueAt:       time.Now().Add(24 * time.Hour),
		ExternalURL: "https://example.com/reading",
	})
	require.NoError(t, err)

	_, err = env.submissions.Submit(testStudentID, assignment.ID, SubmitReq{EssayAnswer: "读完了"})
	assert.True(t, util.IsValidationError(err))
}

func TestSubmitOutsideAvailabilityWindow(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)

	closed := time.Now().Add(-1 * time.Hour)
	assignment, err := env.assignments.CreateAssignment(testTeacherID, model.Teacher, CreateAssignmentReq{
		TopicID:        topic.ID,
		Title:          "已关闭的测验",
		Kind:           model.AssignmentMultipleChoice,
		DueAt:          time.Now().Add(24 * time.Hour),
		AvailableUntil: &closed,
		Questions:      []QuestionSpec{mcQuestionSpec("已关闭的题", 3, 0)},
	})
	require.NoError(t, err)

	resolved, err := env.assignments.ResolveForAttempt(assignment.ID)
	require.NoError(t, err)

	answers := answersFor(resolved, map[uint]bool{resolved.Questions[0].ID: true})
	_, err = env.submissions.Submit(testStudentID, assignment.ID, SubmitReq{SelectedOptions: answers})
	assert.True(t, util.IsValidationError(err))
}

func TestSubmitUnknownAssignment(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.submissions.Submit(testStudentID, 9999, SubmitReq{})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

// 题库条目修改后，已落库的自动分保持不变，后续提交按新答案键评分
func TestBankEditDoesNotRewriteStoredScore(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 2, mcQuestionSpec("字符串匹配算法", 2, 0))

	q := resolved.Questions[0]
	answers := answersFor(resolved, map[uint]bool{q.ID: true})

	first, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	require.NoError(t, err)
	require.NotNil(t, first.AutoScore)
	assert.Equal(t, 100.0, *first.AutoScore)

	// 把正确答案换到另一个选项
	flipped := []QuestionOptionReq{
		{ID: q.Options[0].ID, Text: q.Options[0].Text, IsCorrect: !q.Options[0].IsCorrect, Explanation: q.Options[0].Explanation, Order: q.Options[0].Order},
		{ID: q.Options[1].ID, Text: q.Options[1].Text, IsCorrect: !q.Options[1].IsCorrect, Explanation: q.Options[1].Explanation, Order: q.Options[1].Order},
	}
	_, err = env.bank.UpdateQuestion(q.ID, UpdateQuestionReq{Options: &flipped})
	require.NoError(t, err)

	second, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
	require.NoError(t, err)
	require.NotNil(t, second.AutoScore)
	assert.Equal(t, 0.0, *second.AutoScore)

	stored, err := env.submissions.GetSubmission(first.SubmissionID, testStudentID, model.Student)
	require.NoError(t, err)
	require.NotNil(t, stored.AutoScore)
	assert.Equal(t, 100.0, *stored.AutoScore)
}

func TestGetSubmissionOwnership(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createEssayAssignment(t, topic.ID, 1)

	result, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{EssayAnswer: "提交内容"})
	require.NoError(t, err)

	_, err = env.submissions.GetSubmission(result.SubmissionID, testOtherStudentID, model.Student)
	assert.ErrorIs(t, err, util.ErrForbidden)

	sub, err := env.submissions.GetSubmission(result.SubmissionID, testStudentID, model.Student)
	require.NoError(t, err)
	assert.Equal(t, testStudentID, sub.StudentID)
}

func TestListMineForAssignment(t *testing.T) {
	env := newTestEnv(t)
	topic := env.createTopic(t, testTeacherID)
	resolved := env.createChoiceAssignment(t, topic.ID, 3, mcQuestionSpec("排序稳定性", 3, 0))

	answers := answersFor(resolved, map[uint]bool{resolved.Questions[0].ID: true})
	for i := 0; i < 2; i++ {
		_, err := env.submissions.Submit(testStudentID, resolved.ID, SubmitReq{SelectedOptions: answers})
		require.NoError(t, err)
	}

	subs, err := env.submissions.ListMineForAssignment(testStudentID, resolved.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, 1, subs[0].AttemptIndex)
	assert.Equal(t, 2, subs[1].AttemptIndex)
}
