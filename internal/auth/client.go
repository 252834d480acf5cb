package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"career-hero-practice/internal/api"
	"career-hero-practice/internal/metrics"

	"github.com/google/uuid"
)

const credentialsFile = "auth_session.json"

// Client владеет единственной локальной записью учетных данных и
// прикладывает ее к каждому удаленному вызову. Неудачный из-за
// авторизации вызов повторяется не больше одного раза после обновления
// токена; если обновить токен нельзя, запись сбрасывается до гостевой.
type Client struct {
	api     *api.Client
	dir     string
	metrics *metrics.Metrics

	mu      sync.Mutex
	current Session
}

// NewClient создает клиент авторизации и загружает сохраненные
// учетные данные, если файл есть
func NewClient(apiClient *api.Client, dir string, m *metrics.Metrics) (*Client, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	c := &Client{
		api:     apiClient,
		dir:     dir,
		metrics: m,
		current: newGuestSession(),
	}

	data, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err == nil {
		var stored Session
		if json.Unmarshal(data, &stored) == nil && stored.ID != "" {
			c.current = stored
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка чтения учетных данных: %w", err)
	}

	// истекшая запись без токена обновления деградирует до гостя
	if !c.current.Valid(time.Now().UTC()) {
		c.current = newGuestSession()
	}

	if err := c.persistLocked(); err != nil {
		return nil, err
	}

	return c, nil
}

func newGuestSession() Session {
	return Session{
		ID:          uuid.New().String(),
		DisplayName: "Гость",
		Mode:        ModeGuest,
	}
}

// Current возвращает копию текущих учетных данных
func (c *Client) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Do выполняет операцию, прикладывая текущие учетные данные.
// При отказе в авторизации выполняется ровно один цикл
// «обновить токен и повторить»; рекурсивных повторов нет.
func (c *Client) Do(op func(cred api.Credential) error) error {
	cred, snapshot := c.snapshot()

	err := op(cred)
	if err == nil || !api.IsUnauthorized(err) {
		return err
	}

	if snapshot.RefreshToken == "" {
		reason := ReasonUnauthorized
		if snapshot.Mode == ModeAuthenticated && snapshot.Expired(time.Now().UTC()) {
			reason = ReasonExpired
		}
		c.resetToGuest()
		return &Error{Reason: reason, Err: err}
	}

	refreshed, refreshErr := c.api.Refresh(api.Credential{
		SessionID: snapshot.ID,
		Token:     snapshot.RefreshToken,
	})
	if c.metrics != nil {
		c.metrics.IncrementAuthRefreshes()
	}
	if refreshErr != nil || refreshed.Token == "" {
		c.resetToGuest()
		if refreshErr == nil {
			refreshErr = fmt.Errorf("сервер вернул пустой токен")
		}
		return &Error{Reason: ReasonRefreshFailed, Err: refreshErr}
	}

	cred = c.adoptRefreshed(snapshot, refreshed)

	// единственный повтор исходной операции
	err = op(cred)
	if err != nil && api.IsUnauthorized(err) {
		c.resetToGuest()
		return &Error{Reason: ReasonUnauthorized, Err: err}
	}
	return err
}

// Login выполняет вход и сохраняет авторизованные учетные данные
func (c *Client) Login(username, password string) (Session, error) {
	cred, _ := c.snapshot()

	result, err := c.api.Login(cred, username, password)
	if err != nil {
		return Session{}, fmt.Errorf("ошибка входа: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = Session{
		ID:           c.current.ID,
		AccessToken:  result.Token,
		RefreshToken: result.Token,
		ExpiresAt:    result.ExpiresAt,
		DisplayName:  result.UserName,
		Mode:         ModeAuthenticated,
	}
	// сервер может назначить свой идентификатор сессии
	if result.SessionID != "" {
		c.current.ID = result.SessionID
	}

	if err := c.persistLocked(); err != nil {
		return Session{}, err
	}
	return c.current, nil
}

// Logout отзывает учетные данные и сбрасывает запись до гостевой.
// Отзыв на сервере выполняется по возможности: его ошибка не мешает
// локальному выходу.
func (c *Client) Logout() error {
	cred, snapshot := c.snapshot()
	if snapshot.Mode == ModeAuthenticated {
		_ = c.api.Logout(cred)
	}
	return c.resetToGuest()
}

func (c *Client) snapshot() (api.Credential, Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.Credential{
		SessionID: c.current.ID,
		Token:     c.current.AccessToken,
	}, c.current
}

func (c *Client) adoptRefreshed(previous Session, result *api.AuthResult) api.Credential {
	c.mu.Lock()
	defer c.mu.Unlock()

	// обновляем только если запись не была заменена параллельным вызовом
	if c.current.ID == previous.ID {
		c.current.AccessToken = result.Token
		c.current.RefreshToken = result.Token
		if !result.ExpiresAt.IsZero() {
			c.current.ExpiresAt = result.ExpiresAt
		}
		if result.UserName != "" {
			c.current.DisplayName = result.UserName
		}
		if result.SessionID != "" {
			c.current.ID = result.SessionID
		}
		_ = c.persistLocked()
	}

	return api.Credential{
		SessionID: c.current.ID,
		Token:     c.current.AccessToken,
	}
}

func (c *Client) resetToGuest() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = newGuestSession()
	return c.persistLocked()
}

func (c *Client) persistLocked() error {
	jsonData, err := json.MarshalIndent(c.current, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации учетных данных: %w", err)
	}

	path := filepath.Join(c.dir, credentialsFile)
	err = os.WriteFile(path, jsonData, 0600)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}
