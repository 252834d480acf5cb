package fallback

import (
	"fmt"
	"unicode/utf8"

	"career-hero-practice/internal/session"
)

// Пороги длины ответа для бонуса к оценке
const (
	detailedAnswerLength = 80
	deepAnswerLength     = 140
	scoreBase            = 45
	scorePerAnswer       = 12
	scoreUpperBound      = 95
)

// AverageAnswerLength возвращает среднюю длину непустых ответов в символах
func AverageAnswerLength(s *session.InterviewSession) int {
	total := 0
	count := 0
	for _, answer := range s.Answers {
		if answer == "" {
			continue
		}
		total += utf8.RuneCountInString(answer)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / count
}

// Review строит локальную итоговую оценку сессии.
// Формула: score = min(95, 45 + 12*answeredCount + бонус за длину),
// бонус +12 при средней длине от 80 символов и еще +12 от 140.
func Review(role string, answeredCount, averageLength int) *session.Review {
	score := scoreBase + scorePerAnswer*answeredCount
	if averageLength >= detailedAnswerLength {
		score += 12
	}
	if averageLength >= deepAnswerLength {
		score += 12
	}
	if score > scoreUpperBound {
		score = scoreUpperBound
	}

	var strengths []string
	var improvements []string

	if answeredCount >= 3 {
		strengths = append(strengths, "Вы прошли основную часть интервью и ответили на большинство вопросов.")
	}
	if averageLength >= deepAnswerLength {
		strengths = append(strengths, "Ответы развернутые: есть место для контекста, решений и результатов.")
	} else if averageLength >= detailedAnswerLength {
		strengths = append(strengths, "Ответы достаточно подробные, чтобы оценить ход ваших рассуждений.")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Вы начали тренировку — это уже рабочий материал для разбора.")
	}

	if answeredCount == 0 {
		improvements = append(improvements, "Ответьте хотя бы на часть вопросов, чтобы оценка была содержательной.")
	}
	if averageLength < detailedAnswerLength {
		improvements = append(improvements, "Разверните ответы: добавьте контекст задачи, ваши действия и результат.")
	}
	if averageLength < deepAnswerLength {
		improvements = append(improvements, "Добавьте в ответы измеримые результаты: проценты, сроки, деньги.")
	}
	if len(improvements) == 0 {
		improvements = append(improvements, "Отработайте те же вопросы вслух с таймером, чтобы уложиться в 2-3 минуты.")
	}

	return &session.Review{
		Summary: fmt.Sprintf("Тренировочное интервью на роль «%s»: дано ответов — %d, итоговая оценка %d/100.",
			role, answeredCount, score),
		Strengths:    strengths,
		Improvements: improvements,
		Score:        &score,
	}
}
