package service

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choiceQuestionReq(text string, correctIdx int) CreateQuestionReq {
	spec := mcQuestionSpec(text, 4, correctIdx)
	return CreateQuestionReq{
		SubjectID:  1,
		Kind:       spec.Kind,
		Text:       spec.Text,
		Difficulty: model.DifficultyEasy,
		Options:    spec.Options,
	}
}

func TestCreateQuestionWithOptions(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.bank.CreateQuestion(testTeacherID, choiceQuestionReq("AVL 树的旋转", 2))
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.Len(t, entry.Options, 4)

	reloaded, err := env.bank.GetQuestion(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, testTeacherID, reloaded.OwnerID)
	require.NotNil(t, reloaded.CorrectOption())
	assert.Equal(t, entry.Options[2].ID, reloaded.CorrectOption().ID)
}

func TestCreateQuestionValidation(t *testing.T) {
	env := newTestEnv(t)

	// 空题干
	_, err := env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		Kind: model.QuestionMultipleChoice,
		Text: "  ",
		Options: []QuestionOptionReq{
			{Text: "A", IsCorrect: true},
		},
	})
	assert.True(t, util.IsValidationError(err))

	// 选择题没有选项
	_, err = env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		Kind: model.QuestionMultipleChoice,
		Text: "没有选项的题",
	})
	assert.True(t, util.IsValidationError(err))

	// 没有正确选项
	_, err = env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		Kind: model.QuestionMultipleChoice,
		Text: "没有答案的题",
		Options: []QuestionOptionReq{
			{Text: "A"}, {Text: "B"},
		},
	})
	assert.True(t, util.IsValidationError(err))

	// 多个正确选项
	_, err = env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		Kind: model.QuestionMultipleChoice,
		Text: "两个答案的题",
		Options: []QuestionOptionReq{
			{Text: "A", IsCorrect: true}, {Text: "B", IsCorrect: true},
		},
	})
	assert.True(t, util.IsValidationError(err))

	// 作文题不接受选项
	_, err = env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		Kind: model.QuestionEssay,
		Text: "论述题",
		Options: []QuestionOptionReq{
			{Text: "A", IsCorrect: true},
		},
	})
	assert.True(t, util.IsValidationError(err))
}

func TestUpdateQuestionReplacesOptions(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.bank.CreateQuestion(testTeacherID, choiceQuestionReq("B 树的阶数", 0))
	require.NoError(t, err)
	require.Len(t, entry.Options, 4)

	// 保留前两个选项，答案换到第二个，其余删除
	kept := []QuestionOptionReq{
		{ID: entry.Options[0].ID, Text: "修改后的选项一", Order: 0},
		{ID: entry.Options[1].ID, Text: "修改后的选项二", IsCorrect: true, Order: 1},
	}
	newText := "B+ 树的阶数"
	updated, err := env.bank.UpdateQuestion(entry.ID, UpdateQuestionReq{
		Text:    &newText,
		Options: &kept,
	})
	require.NoError(t, err)

	assert.Equal(t, "B+ 树的阶数", updated.Text)
	require.Len(t, updated.Options, 2)
	assert.Equal(t, "修改后的选项一", updated.Options[0].Text)
	require.NotNil(t, updated.CorrectOption())
	assert.Equal(t, entry.Options[1].ID, updated.CorrectOption().ID)
}

func TestUpdateQuestionKeepsOptionsWhenOmitted(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.bank.CreateQuestion(testTeacherID, choiceQuestionReq("图的存储结构", 1))
	require.NoError(t, err)

	difficulty := model.DifficultyHard
	updated, err := env.bank.UpdateQuestion(entry.ID, UpdateQuestionReq{Difficulty: &difficulty})
	require.NoError(t, err)

	assert.Equal(t, model.DifficultyHard, updated.Difficulty)
	assert.Len(t, updated.Options, 4)
}

func TestUpdateQuestionRejectsRemovingAnswer(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.bank.CreateQuestion(testTeacherID, choiceQuestionReq("动态规划的前提", 0))
	require.NoError(t, err)

	noAnswer := []QuestionOptionReq{
		{ID: entry.Options[0].ID, Text: entry.Options[0].Text, Order: 0},
		{ID: entry.Options[1].ID, Text: entry.Options[1].Text, Order: 1},
	}
	_, err = env.bank.UpdateQuestion(entry.ID, UpdateQuestionReq{Options: &noAnswer})
	assert.True(t, util.IsValidationError(err))
}

func TestGetQuestionNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bank.GetQuestion(4096)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSearchQuestions(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		SubjectID: 1, Kind: model.QuestionEssay, Text: "论述 TCP 拥塞控制", Difficulty: model.DifficultyHard,
	})
	require.NoError(t, err)
	_, err = env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		SubjectID: 1, Kind: model.QuestionEssay, Text: "论述 UDP 的适用场景", Difficulty: model.DifficultyEasy,
	})
	require.NoError(t, err)
	_, err = env.bank.CreateQuestion(testTeacherID, CreateQuestionReq{
		SubjectID: 2, Kind: model.QuestionEssay, Text: "论述 TCP 三次握手",
	})
	require.NoError(t, err)

	// 子串匹配
	results, err := env.bank.Search(SearchQuestionsReq{Text: "TCP"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// 条件取交集
	results, err = env.bank.Search(SearchQuestionsReq{Text: "TCP", SubjectID: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "论述 TCP 拥塞控制", results[0].Text)

	results, err = env.bank.Search(SearchQuestionsReq{Difficulty: model.DifficultyEasy})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "论述 UDP 的适用场景", results[0].Text)
}
