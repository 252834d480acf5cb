package api

import (
	"time"

	"career-hero-practice/internal/session"
)

// Сервер исторически отдает одни и те же данные под разными именами
// (camelCase и snake_case, "question" и "prompt", полный список вопросов
// или только следующий вопрос). Все варианты нормализуются здесь,
// на границе транспорта, и не протекают в типизированную модель движка.

func pickValue(m map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if value, ok := m[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func pickString(m map[string]interface{}, keys ...string) string {
	value, ok := pickValue(m, keys...)
	if !ok {
		return ""
	}
	str, _ := value.(string)
	return str
}

func pickInt(m map[string]interface{}, keys ...string) (int, bool) {
	value, ok := pickValue(m, keys...)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func pickBool(m map[string]interface{}, keys ...string) bool {
	value, ok := pickValue(m, keys...)
	if !ok {
		return false
	}
	b, _ := value.(bool)
	return b
}

func pickMap(m map[string]interface{}, keys ...string) map[string]interface{} {
	value, ok := pickValue(m, keys...)
	if !ok {
		return nil
	}
	mp, _ := value.(map[string]interface{})
	return mp
}

func pickList(m map[string]interface{}, keys ...string) []interface{} {
	value, ok := pickValue(m, keys...)
	if !ok {
		return nil
	}
	list, _ := value.([]interface{})
	return list
}

func pickStringList(m map[string]interface{}, keys ...string) []string {
	var result []string
	for _, item := range pickList(m, keys...) {
		if str, ok := item.(string); ok && str != "" {
			result = append(result, str)
		}
	}
	return result
}

func pickTime(m map[string]interface{}, keys ...string) time.Time {
	raw := pickString(m, keys...)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// normalizeStatus переводит серверный статус в статус модели
func normalizeStatus(raw string) session.Status {
	switch raw {
	case "active", "in_progress":
		return session.StatusInProgress
	case "paused":
		return session.StatusPaused
	case "finished", "completed":
		return session.StatusCompleted
	case "cancelled":
		return session.StatusCancelled
	default:
		return session.StatusInProgress
	}
}

func decodeQuestion(m map[string]interface{}, fallbackIndex int) *RemoteQuestion {
	if m == nil {
		return nil
	}
	prompt := pickString(m, "question", "prompt", "text")
	if prompt == "" {
		return nil
	}
	index, ok := pickInt(m, "index", "position")
	if !ok {
		index = fallbackIndex
	}
	return &RemoteQuestion{
		Index:    index,
		Prompt:   prompt,
		Tips:     pickString(m, "tips", "hint"),
		Category: pickString(m, "category"),
		Focus:    pickString(m, "focus"),
	}
}

func decodeRemoteSession(m map[string]interface{}) RemoteSession {
	id, _ := pickInt(m, "id", "sessionId", "session_id")
	index, _ := pickInt(m, "currentIndex", "current_index")
	questionCount, _ := pickInt(m, "questionCount", "question_count", "totalCount")
	answeredCount, _ := pickInt(m, "answeredCount", "answered_count")

	return RemoteSession{
		ID:            int64(id),
		Token:         pickString(m, "sessionToken", "session_token", "token"),
		Status:        normalizeStatus(pickString(m, "status")),
		CurrentIndex:  index,
		QuestionCount: questionCount,
		AnsweredCount: answeredCount,
		CreatedAt:     pickTime(m, "createdAt", "created_at"),
		UpdatedAt:     pickTime(m, "updatedAt", "updated_at"),
	}
}

func decodeReview(m map[string]interface{}) *session.Review {
	if m == nil {
		return nil
	}

	review := &session.Review{
		Summary:      pickString(m, "summary"),
		Strengths:    pickStringList(m, "strengths"),
		Improvements: pickStringList(m, "improvements", "gaps", "improvementPlan", "recommendations"),
	}
	if score, ok := pickInt(m, "overallScore", "finalScore", "final_score", "score"); ok {
		review.Score = &score
	}

	if review.Summary == "" && review.Score == nil && len(review.Strengths) == 0 {
		return nil
	}
	return review
}

func decodeEnvelope(raw map[string]interface{}) *SessionEnvelope {
	sessionMap := pickMap(raw, "session")
	if sessionMap == nil {
		// некоторые ответы кладут поля сессии на верхний уровень
		sessionMap = raw
	}

	env := &SessionEnvelope{
		Session:  decodeRemoteSession(sessionMap),
		Degraded: pickBool(raw, "degraded"),
	}

	for i, item := range pickList(sessionMap, "questions") {
		if m, ok := item.(map[string]interface{}); ok {
			if q := decodeQuestion(m, i); q != nil {
				env.Questions = append(env.Questions, *q)
			}
		}
	}
	if len(env.Questions) == 0 {
		for i, item := range pickList(raw, "questions") {
			if m, ok := item.(map[string]interface{}); ok {
				if q := decodeQuestion(m, i); q != nil {
					env.Questions = append(env.Questions, *q)
				}
			}
		}
	}

	env.NextQuestion = decodeQuestion(pickMap(raw, "nextQuestion", "next_question", "question"), env.Session.CurrentIndex)

	env.Review = decodeReview(pickMap(raw, "feedbackDraft", "feedback", "review"))
	if env.Review == nil && env.Session.Status == session.StatusCompleted {
		// у завершенной сессии итог может лежать прямо в полях сессии
		env.Review = decodeReview(sessionMap)
	}

	return env
}
