package quiz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perfectAnswers() map[int]int {
	return map[int]int{1: 1, 2: 2, 3: 2, 4: 1, 5: 2, 6: 1}
}

func TestGrade_AllCorrectPasses(t *testing.T) {
	t.Parallel()
	res := Grade(perfectAnswers())
	assert.True(t, res.Passed)
	assert.Equal(t, res.Total, res.Correct)
}

func TestGrade_OneWrongFails(t *testing.T) {
	t.Parallel()
	a := perfectAnswers()
	a[3] = 0
	res := Grade(a)
	assert.False(t, res.Passed)
	assert.Equal(t, res.Total-1, res.Correct)
}

func TestGrade_MissingAnswerCountsAsWrong(t *testing.T) {
	t.Parallel()
	a := perfectAnswers()
	delete(a, 5)
	res := Grade(a)
	assert.False(t, res.Passed)
}

func TestGrade_EmptySubmission(t *testing.T) {
	t.Parallel()
	res := Grade(nil)
	assert.False(t, res.Passed)
	assert.Zero(t, res.Correct)
}

func TestQuestions_DoNotLeakAnswers(t *testing.T) {
	t.Parallel()
	qs := Questions()
	require.NotEmpty(t, qs)

	b, err := json.Marshal(qs)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), "answer"))

	for _, q := range qs {
		assert.NotZero(t, q.ID)
		assert.NotEmpty(t, q.Prompt)
		assert.GreaterOrEqual(t, len(q.Choices), 2)
	}
}
