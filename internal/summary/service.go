package summary

import (
	"fmt"
	"strings"

	"career-hero-practice/internal/fallback"
	"career-hero-practice/internal/session"
	"career-hero-practice/internal/store"
)

// Service — поверхность просмотра поверх хранилища сессий.
// Только чтение: жизненный цикл сессий здесь не меняется.
type Service struct {
	store *store.Service
}

// New создает сервис просмотра
func New(storeSvc *store.Service) *Service {
	return &Service{store: storeSvc}
}

// Completed возвращает завершенные сессии, новые сверху
func (s *Service) Completed() []*session.InterviewSession {
	return s.store.List(session.StatusCompleted)
}

// History возвращает все сессии, новые сверху
func (s *Service) History() []*session.InterviewSession {
	return s.store.List("")
}

// Progress строит короткую сводку хода сессии
func (s *Service) Progress(sess *session.InterviewSession) string {
	role := fallback.InferRole(sess.JobText)
	return fmt.Sprintf("📊 Прогресс тренировки\n\n"+
		"• Роль: %s\n"+
		"• Статус: %s\n"+
		"• Вопрос: %d/%d\n"+
		"• Отвечено: %d",
		role, statusLabel(sess.Status),
		sess.CurrentIndex+1, sess.TotalCount, sess.AnsweredCount)
}

// Render строит подробную сводку сессии: вопросы с производными
// состояниями, ответы и итоговый отчет, если он есть
func (s *Service) Render(id string) (string, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	role := fallback.InferRole(sess.JobText)
	fmt.Fprintf(&b, "🎯 Тренировочное интервью: %s\n", role)
	fmt.Fprintf(&b, "Статус: %s • Отвечено: %d/%d\n\n", statusLabel(sess.Status), sess.AnsweredCount, sess.TotalCount)

	for i, q := range sess.Questions {
		fmt.Fprintf(&b, "%s Вопрос %d: %s\n", stateMark(sess.StateAt(i)), i+1, q.Prompt)
		if answer := sess.Answers[q.ID]; answer != "" {
			fmt.Fprintf(&b, "   Ответ: %s\n", answer)
		}
	}

	if sess.Review != nil {
		b.WriteString("\n")
		b.WriteString(renderReview(sess.Review))
	}

	return b.String(), nil
}

// Export строит плоский текст завершенной сессии для выгрузки
func (s *Service) Export(id string) (string, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	if sess.Status != session.StatusCompleted {
		return "", session.NewValidationError("export",
			"выгрузка доступна только для завершенной сессии, текущий статус: %s", sess.Status)
	}

	lines := []string{
		"Career Hero — тренировочное интервью",
		fmt.Sprintf("ID: %s", sess.ID),
		fmt.Sprintf("Роль: %s", fallback.InferRole(sess.JobText)),
		fmt.Sprintf("Создана: %s", sess.CreatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Вопросов: %d, отвечено: %d", sess.TotalCount, sess.AnsweredCount),
		"",
	}

	for i, q := range sess.Questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q.Prompt))
		answer := sess.Answers[q.ID]
		if answer == "" {
			answer = "(без ответа)"
		}
		lines = append(lines, fmt.Sprintf("   Ответ: %s", answer))
	}

	if sess.Review != nil {
		lines = append(lines, "", renderReview(sess.Review))
	}

	return strings.Join(lines, "\n"), nil
}

// renderReview строит текст итогового отчета
func renderReview(review *session.Review) string {
	var b strings.Builder
	b.WriteString("📝 Итоговый отчет\n")
	if review.Score != nil {
		fmt.Fprintf(&b, "Оценка: %d/100\n", *review.Score)
	}
	if review.Summary != "" {
		fmt.Fprintf(&b, "%s\n", review.Summary)
	}
	for _, item := range review.Strengths {
		fmt.Fprintf(&b, "+ %s\n", item)
	}
	for _, item := range review.Improvements {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func statusLabel(status session.Status) string {
	switch status {
	case session.StatusInProgress:
		return "идет"
	case session.StatusPaused:
		return "на паузе"
	case session.StatusCompleted:
		return "завершена"
	case session.StatusCancelled:
		return "отменена"
	case session.StatusFailed:
		return "сбой"
	default:
		return string(status)
	}
}

func stateMark(state session.QuestionState) string {
	switch state {
	case session.QuestionAnswered:
		return "✅"
	case session.QuestionCurrent:
		return "▶️"
	case session.QuestionSkipped:
		return "⏭"
	default:
		return "⏳"
	}
}
