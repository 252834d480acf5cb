package auth

import (
	"errors"
	"fmt"
	"time"
)

// Mode определяет режим учетной записи
type Mode string

const (
	ModeGuest         Mode = "guest"
	ModeAuthenticated Mode = "authenticated"
)

// Session — локальная копия выданных сервером учетных данных
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	DisplayName  string    `json:"display_name"`
	Mode         Mode      `json:"mode"`
}

// Expired сообщает, истек ли срок действия учетных данных
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Valid проверяет инвариант: авторизованная запись с истекшим сроком
// и без токена обновления недействительна
func (s Session) Valid(now time.Time) bool {
	if s.Mode != ModeAuthenticated {
		return true
	}
	if s.Expired(now) && s.RefreshToken == "" {
		return false
	}
	return true
}

// Reason — типизированная причина отказа в авторизации
type Reason string

const (
	ReasonExpired       Reason = "expired"
	ReasonUnauthorized  Reason = "unauthorized"
	ReasonRefreshFailed Reason = "refresh_failed"
)

// Error — ошибка авторизации. Несет только код причины: состояние
// интервью она не затрагивает и не откатывает.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ошибка авторизации (%s): %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf извлекает причину из ошибки авторизации
func ReasonOf(err error) (Reason, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}
	return "", false
}
