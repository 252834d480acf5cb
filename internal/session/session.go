package session

import (
	"time"

	"github.com/google/uuid"
)

// New создает новую сессию в начальном состоянии
func New(jobText, backgroundText string) *InterviewSession {
	now := time.Now().UTC()
	return &InterviewSession{
		ID:             uuid.New().String(),
		Mode:           ModeRemote,
		Status:         StatusInProgress,
		JobText:        jobText,
		BackgroundText: backgroundText,
		Questions:      []Question{},
		Answers:        map[string]string{},
		CreatedAt:      now,
		UpdatedAt:      now,
		CurrentIndex:   0,
	}
}

// Recalculate пересчитывает производные поля сессии.
// Инварианты: AnsweredCount == числу непустых ответов,
// CurrentIndex < max(1, len(Questions)).
func (s *InterviewSession) Recalculate() {
	count := 0
	for _, q := range s.Questions {
		if s.Answers[q.ID] != "" {
			count++
		}
	}
	s.AnsweredCount = count
	s.TotalCount = len(s.Questions)

	maxIndex := len(s.Questions) - 1
	if maxIndex < 0 {
		maxIndex = 0
	}
	if s.CurrentIndex > maxIndex {
		s.CurrentIndex = maxIndex
	}
	if s.CurrentIndex < 0 {
		s.CurrentIndex = 0
	}
}

// Touch обновляет отметку времени последнего изменения
func (s *InterviewSession) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// CurrentQuestion возвращает текущий вопрос или nil, если вопросов нет
func (s *InterviewSession) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// QuestionByID ищет вопрос по идентификатору
func (s *InterviewSession) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// HasQuestion сообщает, есть ли в сессии вопрос с таким идентификатором
func (s *InterviewSession) HasQuestion(id string) bool {
	return s.QuestionByID(id) != nil
}

// AppendQuestion добавляет вопрос, если вопроса с таким ID еще нет.
// Дедупликация нужна для сервера, который отдает по одному вопросу за раз.
func (s *InterviewSession) AppendQuestion(q Question) bool {
	if s.HasQuestion(q.ID) {
		return false
	}
	q.Position = len(s.Questions)
	s.Questions = append(s.Questions, q)
	s.TotalCount = len(s.Questions)
	return true
}

// StateAt возвращает производное состояние вопроса на позиции pos
func (s *InterviewSession) StateAt(pos int) QuestionState {
	if pos < 0 || pos >= len(s.Questions) {
		return QuestionNotReached
	}
	if s.Answers[s.Questions[pos].ID] != "" {
		return QuestionAnswered
	}
	switch {
	case pos == s.CurrentIndex:
		return QuestionCurrent
	case pos < s.CurrentIndex:
		return QuestionSkipped
	default:
		return QuestionNotReached
	}
}

// Clone возвращает глубокую копию сессии
func (s *InterviewSession) Clone() *InterviewSession {
	dup := *s
	dup.Questions = make([]Question, len(s.Questions))
	copy(dup.Questions, s.Questions)
	dup.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		dup.Answers[k] = v
	}
	if s.Review != nil {
		rv := *s.Review
		rv.Strengths = append([]string(nil), s.Review.Strengths...)
		rv.Improvements = append([]string(nil), s.Review.Improvements...)
		if s.Review.Score != nil {
			score := *s.Review.Score
			rv.Score = &score
		}
		dup.Review = &rv
	}
	return &dup
}
