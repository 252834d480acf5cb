package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"career-hero-practice/internal/session"
)

// Client — HTTP клиент удаленного сервиса Career Hero.
// Каждый вызов ограничен таймаутом транспорта: зависший сервер приводит
// к ошибке и локальному продолжению, а не к вечному ожиданию.
type Client struct {
	baseURL string
	client  *http.Client
}

// Credential — данные авторизации, прикладываемые к каждому запросу
type Credential struct {
	SessionID string
	Token     string
}

// APIError представляет ошибку уровня API (не-2xx ответ сервера)
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API ошибка: статус %d, код %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsUnauthorized сообщает, является ли ошибка отказом в авторизации
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// RemoteQuestion — вопрос в том виде, как его отдает сервер
type RemoteQuestion struct {
	Index    int
	Prompt   string
	Tips     string
	Category string
	Focus    string
}

// RemoteSession — серверные поля сессии после нормализации
type RemoteSession struct {
	ID            int64
	Token         string
	Status        session.Status
	CurrentIndex  int
	QuestionCount int
	AnsweredCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SessionEnvelope — нормализованный ответ любого эндпоинта интервью
type SessionEnvelope struct {
	Session      RemoteSession
	Questions    []RemoteQuestion
	NextQuestion *RemoteQuestion
	Review       *session.Review
	Degraded     bool
}

// AuthResult — нормализованный ответ эндпоинтов авторизации
type AuthResult struct {
	SessionID string
	UserName  string
	Token     string
	ExpiresAt time.Time
}

// NewClient создает клиент удаленного сервиса
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateSession создает сессию интервью на сервере
func (c *Client) CreateSession(cred Credential, jobText, backgroundText string, questionCount int) (*SessionEnvelope, error) {
	payload := map[string]interface{}{
		"jdText":        jobText,
		"questionCount": questionCount,
	}
	if backgroundText != "" {
		payload["resumeText"] = backgroundText
	}
	return c.sessionCall("POST", "/api/interview/session", cred, payload)
}

// SubmitAnswer отправляет ответ на текущий вопрос сессии
func (c *Client) SubmitAnswer(cred Credential, remoteID int64, questionIndex int, text string) (*SessionEnvelope, error) {
	payload := map[string]interface{}{
		"questionIndex": questionIndex,
		"answerText":    text,
	}
	return c.sessionCall("POST", fmt.Sprintf("/api/interview/session/%d/answer", remoteID), cred, payload)
}

// Advance запрашивает переход к следующему вопросу
func (c *Client) Advance(cred Credential, remoteID int64) (*SessionEnvelope, error) {
	return c.sessionCall("POST", fmt.Sprintf("/api/interview/session/%d/next", remoteID), cred, nil)
}

// Pause ставит сессию на паузу
func (c *Client) Pause(cred Credential, remoteID int64) (*SessionEnvelope, error) {
	return c.sessionCall("POST", fmt.Sprintf("/api/interview/session/%d/pause", remoteID), cred, nil)
}

// Resume снимает сессию с паузы
func (c *Client) Resume(cred Credential, remoteID int64) (*SessionEnvelope, error) {
	return c.sessionCall("POST", fmt.Sprintf("/api/interview/session/%d/resume", remoteID), cred, nil)
}

// Finish завершает сессию и запрашивает итоговую оценку
func (c *Client) Finish(cred Credential, remoteID int64) (*SessionEnvelope, error) {
	return c.sessionCall("POST", fmt.Sprintf("/api/interview/session/%d/finish", remoteID), cred, nil)
}

// GetSession читает сессию с сервера
func (c *Client) GetSession(cred Credential, remoteID int64) (*SessionEnvelope, error) {
	return c.sessionCall("GET", fmt.Sprintf("/api/interview/sessions/%d", remoteID), cred, nil)
}

// ListSessions читает список сессий пользователя
func (c *Client) ListSessions(cred Credential) ([]*SessionEnvelope, error) {
	raw, err := c.doJSON("GET", "/api/interview/sessions", cred, nil)
	if err != nil {
		return nil, err
	}

	var envelopes []*SessionEnvelope
	for _, item := range pickList(raw, "items", "sessions") {
		if m, ok := item.(map[string]interface{}); ok {
			envelopes = append(envelopes, decodeEnvelope(m))
		}
	}
	return envelopes, nil
}

// Login выполняет вход и возвращает новые учетные данные
func (c *Client) Login(cred Credential, username, password string) (*AuthResult, error) {
	payload := map[string]interface{}{
		"username": username,
		"password": password,
	}
	raw, err := c.doJSON("POST", "/api/auth/login", cred, payload)
	if err != nil {
		return nil, err
	}
	return decodeAuthResult(raw), nil
}

// Refresh обменивает учетные данные на новые.
// Токен обновления передается через cred.Token.
func (c *Client) Refresh(cred Credential) (*AuthResult, error) {
	raw, err := c.doJSON("POST", "/api/auth/refresh", cred, nil)
	if err != nil {
		return nil, err
	}
	return decodeAuthResult(raw), nil
}

// Logout отзывает учетные данные на сервере
func (c *Client) Logout(cred Credential) error {
	_, err := c.doJSON("POST", "/api/auth/logout", cred, nil)
	return err
}

func decodeAuthResult(raw map[string]interface{}) *AuthResult {
	result := &AuthResult{
		SessionID: pickString(raw, "sessionId", "session_id"),
		Token:     pickString(raw, "token", "accessToken", "access_token"),
		ExpiresAt: pickTime(raw, "expiresAt", "expires_at"),
	}
	if user := pickMap(raw, "user"); user != nil {
		result.UserName = pickString(user, "username", "displayName", "name")
	}
	return result
}

func (c *Client) sessionCall(method, path string, cred Credential, payload interface{}) (*SessionEnvelope, error) {
	raw, err := c.doJSON(method, path, cred, payload)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(raw), nil
}

// doJSON выполняет запрос и возвращает сырой JSON объект ответа
func (c *Client) doJSON(method, path string, cred Credential, payload interface{}) (map[string]interface{}, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	if cred.SessionID != "" {
		req.Header.Set("X-Session-Id", cred.SessionID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errPayload map[string]interface{}
		if json.Unmarshal(respBody, &errPayload) == nil {
			if detail := pickMap(errPayload, "error"); detail != nil {
				errPayload = detail
			}
			apiErr.Code = pickString(errPayload, "code")
			apiErr.Message = pickString(errPayload, "message", "detail")
		}
		return nil, apiErr
	}

	var raw map[string]interface{}
	err = json.Unmarshal(respBody, &raw)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}

	return raw, nil
}
