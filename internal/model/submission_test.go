package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalScoreDerivation(t *testing.T) {
	var sub Submission

	_, graded := sub.FinalScore()
	assert.False(t, graded)

	auto := 50.0
	sub.AutoScore = &auto
	score, graded := sub.FinalScore()
	require.True(t, graded)
	assert.Equal(t, 50.0, score)

	// 人工分优先于自动分
	manual := 82.0
	sub.ManualScore = &manual
	score, graded = sub.FinalScore()
	require.True(t, graded)
	assert.Equal(t, 82.0, score)
}

func TestDecodeSelectedOptions(t *testing.T) {
	var sub Submission

	selected, err := sub.DecodeSelectedOptions()
	require.NoError(t, err)
	assert.Empty(t, selected)

	sub.SelectedOptions = []byte(`{"3":12,"4":17}`)
	selected, err = sub.DecodeSelectedOptions()
	require.NoError(t, err)
	assert.Equal(t, map[uint]uint{3: 12, 4: 17}, selected)
}

func TestAssignmentAvailableAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	var a Assignment
	assert.True(t, a.AvailableAt(now))

	a.AvailableFrom = &future
	assert.False(t, a.AvailableAt(now))

	a.AvailableFrom = &past
	a.AvailableUntil = &future
	assert.True(t, a.AvailableAt(now))

	a.AvailableUntil = &past
	assert.False(t, a.AvailableAt(now))
}
