package summary

import (
	"testing"

	"career-hero-practice/internal/session"
	"career-hero-practice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummaryService(t *testing.T) (*Service, *store.Service) {
	t.Helper()
	storeSvc, err := store.New(t.TempDir(), 10)
	require.NoError(t, err)
	return New(storeSvc), storeSvc
}

func sampleSession(status session.Status) *session.InterviewSession {
	sess := session.New("Backend Engineer, Go и Postgres", "")
	sess.Questions = []session.Question{
		{ID: "local-q1", Prompt: "Расскажите о себе", Position: 0},
		{ID: "local-q2", Prompt: "Разберите сложный проект", Position: 1},
		{ID: "local-q3", Prompt: "Как войдете в новый стек", Position: 2},
	}
	sess.Answers["local-q1"] = "Я backend разработчик"
	sess.CurrentIndex = 2
	sess.Status = status
	sess.Recalculate()
	return sess
}

func TestCompletedReturnsOnlyCompleted(t *testing.T) {
	svc, storeSvc := newSummaryService(t)

	require.NoError(t, storeSvc.Save(sampleSession(session.StatusCompleted)))
	require.NoError(t, storeSvc.Save(sampleSession(session.StatusInProgress)))

	completed := svc.Completed()
	require.Len(t, completed, 1)
	assert.Equal(t, session.StatusCompleted, completed[0].Status)
	assert.Len(t, svc.History(), 2)
}

func TestProgressFormat(t *testing.T) {
	svc, _ := newSummaryService(t)
	sess := sampleSession(session.StatusInProgress)

	progress := svc.Progress(sess)

	assert.Contains(t, progress, "Backend Engineer")
	assert.Contains(t, progress, "Вопрос: 3/3")
	assert.Contains(t, progress, "Отвечено: 1")
	assert.Contains(t, progress, "идет")
}

func TestRenderShowsDerivedQuestionStates(t *testing.T) {
	svc, storeSvc := newSummaryService(t)
	sess := sampleSession(session.StatusInProgress)
	require.NoError(t, storeSvc.Save(sess))

	text, err := svc.Render(sess.ID)
	require.NoError(t, err)

	// отвеченный, пропущенный и текущий вопросы помечены по-разному
	assert.Contains(t, text, "✅ Вопрос 1")
	assert.Contains(t, text, "⏭ Вопрос 2")
	assert.Contains(t, text, "▶️ Вопрос 3")
	assert.Contains(t, text, "Ответ: Я backend разработчик")
}

func TestRenderIncludesReview(t *testing.T) {
	svc, storeSvc := newSummaryService(t)
	sess := sampleSession(session.StatusCompleted)
	score := 93
	sess.Review = &session.Review{
		Summary:      "Хорошая попытка",
		Strengths:    []string{"развернутые ответы"},
		Improvements: []string{"добавить метрики"},
		Score:        &score,
	}
	require.NoError(t, storeSvc.Save(sess))

	text, err := svc.Render(sess.ID)
	require.NoError(t, err)

	assert.Contains(t, text, "Оценка: 93/100")
	assert.Contains(t, text, "Хорошая попытка")
	assert.Contains(t, text, "+ развернутые ответы")
	assert.Contains(t, text, "- добавить метрики")
}

func TestRenderUnknownSession(t *testing.T) {
	svc, _ := newSummaryService(t)

	_, err := svc.Render("missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestExportCompletedSession(t *testing.T) {
	svc, storeSvc := newSummaryService(t)
	sess := sampleSession(session.StatusCompleted)
	score := 77
	sess.Review = &session.Review{Summary: "Итог", Score: &score}
	require.NoError(t, storeSvc.Save(sess))

	text, err := svc.Export(sess.ID)
	require.NoError(t, err)

	assert.Contains(t, text, "Career Hero")
	assert.Contains(t, text, "Роль: Backend Engineer")
	assert.Contains(t, text, "1. Расскажите о себе")
	assert.Contains(t, text, "Ответ: Я backend разработчик")
	assert.Contains(t, text, "(без ответа)")
	assert.Contains(t, text, "Оценка: 77/100")
}

func TestExportRejectsUnfinishedSession(t *testing.T) {
	svc, storeSvc := newSummaryService(t)
	sess := sampleSession(session.StatusInProgress)
	require.NoError(t, storeSvc.Save(sess))

	_, err := svc.Export(sess.ID)
	assert.True(t, session.IsValidation(err))
}
