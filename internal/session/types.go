package session

import (
	"time"
)

// Mode определяет режим выполнения сессии: remote или local
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Status представляет статус жизненного цикла сессии
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

// Terminal сообщает, является ли статус финальным
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Question представляет один вопрос интервью
type Question struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	Tips     string `json:"tips,omitempty"`
	Category string `json:"category,omitempty"`
	Focus    string `json:"focus,omitempty"`
	Position int    `json:"position"`
}

// Review представляет итоговую обратную связь по сессии.
// Заменяется целиком, никогда не мерджится по полям.
type Review struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Score        *int     `json:"score,omitempty"`
}

// InterviewSession представляет одну попытку тренировочного интервью
type InterviewSession struct {
	ID             string            `json:"id"`
	RemoteID       int64             `json:"remote_id,omitempty"`
	Mode           Mode              `json:"mode"`
	Status         Status            `json:"status"`
	JobText        string            `json:"job_text"`
	BackgroundText string            `json:"background_text,omitempty"`
	Questions      []Question        `json:"questions"`
	Answers        map[string]string `json:"answers"`
	Review         *Review           `json:"review,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	CurrentIndex   int               `json:"current_index"`
	AnsweredCount  int               `json:"answered_count"`
	TotalCount     int               `json:"total_count"`
}

// QuestionState представляет производное состояние одного вопроса.
// Состояние нигде не хранится: оно вычисляется из (индекс, наличие ответа),
// чтобы не было двух источников правды.
type QuestionState string

const (
	QuestionNotReached QuestionState = "not_reached"
	QuestionCurrent    QuestionState = "current"
	QuestionAnswered   QuestionState = "answered"
	QuestionSkipped    QuestionState = "skipped"
)
