package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *InterviewSession {
	s := New("Backend разработчик", "Опыт 3 года")
	s.Questions = []Question{
		{ID: "q1", Prompt: "Вопрос 1", Position: 0},
		{ID: "q2", Prompt: "Вопрос 2", Position: 1},
		{ID: "q3", Prompt: "Вопрос 3", Position: 2},
	}
	s.Recalculate()
	return s
}

func TestRecalculateAnsweredCount(t *testing.T) {
	s := sampleSession()
	require.Equal(t, 0, s.AnsweredCount)

	s.Answers["q1"] = "ответ"
	s.Answers["q3"] = "еще ответ"
	s.Answers["q2"] = "" // пустой ответ не считается
	s.Recalculate()

	assert.Equal(t, 2, s.AnsweredCount)
	assert.Equal(t, 3, s.TotalCount)
}

func TestRecalculateClampsIndex(t *testing.T) {
	s := sampleSession()
	s.CurrentIndex = 10
	s.Recalculate()
	assert.Equal(t, 2, s.CurrentIndex)

	empty := New("Backend разработчик", "")
	empty.CurrentIndex = 5
	empty.Recalculate()
	assert.Equal(t, 0, empty.CurrentIndex)
}

func TestAppendQuestionDeduplicates(t *testing.T) {
	s := sampleSession()
	added := s.AppendQuestion(Question{ID: "q2", Prompt: "Дубликат"})
	assert.False(t, added)
	assert.Len(t, s.Questions, 3)

	added = s.AppendQuestion(Question{ID: "q4", Prompt: "Новый"})
	assert.True(t, added)
	assert.Equal(t, 3, s.Questions[3].Position)
	assert.Equal(t, 4, s.TotalCount)
}

func TestStateAtDerivation(t *testing.T) {
	s := sampleSession()
	s.Answers["q1"] = "ответ на первый"
	s.CurrentIndex = 2
	s.Recalculate()

	// q1 отвечен, q2 пропущен (индекс ушел дальше), q3 текущий
	assert.Equal(t, QuestionAnswered, s.StateAt(0))
	assert.Equal(t, QuestionSkipped, s.StateAt(1))
	assert.Equal(t, QuestionCurrent, s.StateAt(2))
	assert.Equal(t, QuestionNotReached, s.StateAt(3))
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleSession()
	s.Answers["q1"] = "оригинал"
	score := 80
	s.Review = &Review{Summary: "итог", Strengths: []string{"а"}, Score: &score}

	dup := s.Clone()
	dup.Answers["q1"] = "копия"
	dup.Questions[0].Prompt = "изменен"
	*dup.Review.Score = 10

	assert.Equal(t, "оригинал", s.Answers["q1"])
	assert.Equal(t, "Вопрос 1", s.Questions[0].Prompt)
	assert.Equal(t, 80, *s.Review.Score)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusPaused.Terminal())
	assert.False(t, StatusFailed.Terminal())
}
