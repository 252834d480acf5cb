package session

import (
	"errors"
	"fmt"
)

// ValidationError представляет ошибку валидации: недопустимый переход
// или отсутствие обязательных данных. Такие ошибки отклоняются локально,
// до любого сетевого вызова, и не меняют состояние сессии.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NewValidationError создает типизированную ошибку валидации
func NewValidationError(op, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound возвращается, когда сессия не найдена в хранилище
var ErrNotFound = errors.New("сессия не найдена")
