package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"career-hero-practice/internal/session"
)

const sessionsFile = "sessions.json"

// DefaultHistoryLimit — размер окна недавних сессий по умолчанию
const DefaultHistoryLimit = 50

// Service хранит сессии интервью в JSON файле.
// Список упорядочен по времени последнего обновления, новые сверху,
// и ограничен окном недавних записей: самые старые вытесняются первыми.
type Service struct {
	dir   string
	limit int

	mu       sync.RWMutex
	sessions []*session.InterviewSession
}

// New создает хранилище и загружает сохраненные сессии, если файл есть
func New(dir string, limit int) (*Service, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	s := &Service{dir: dir, limit: limit}

	data, err := os.ReadFile(filepath.Join(dir, sessionsFile))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла сессий: %w", err)
	}

	err = json.Unmarshal(data, &s.sessions)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации сессий: %w", err)
	}
	s.normalizeLocked()

	return s, nil
}

// Save сохраняет сессию: заменяет запись с тем же ID, вытесняет более
// старую запись с тем же удаленным идентификатором и сохраняет файл
func (s *Service) Save(sess *session.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incoming := sess.Clone()

	replaced := false
	for i, existing := range s.sessions {
		if existing.ID == incoming.ID {
			s.sessions[i] = incoming
			replaced = true
			break
		}
	}
	if !replaced {
		s.sessions = append(s.sessions, incoming)
	}

	s.normalizeLocked()
	return s.persistLocked()
}

// Get возвращает копию сессии по идентификатору
func (s *Service) Get(id string) (*session.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess.Clone(), nil
		}
	}
	return nil, session.ErrNotFound
}

// List возвращает копии сессий, новые сверху.
// Пустой статус означает «все сессии».
func (s *Service) List(status session.Status) []*session.InterviewSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*session.InterviewSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if status != "" && sess.Status != status {
			continue
		}
		result = append(result, sess.Clone())
	}
	return result
}

// MergeRemote вливает список сессий с сервера. Для записей с одним
// удаленным идентификатором побеждает более свежая по времени обновления;
// локальные записи без удаленного идентификатора не трогаются.
func (s *Service) MergeRemote(incoming []*session.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, remote := range incoming {
		if remote.RemoteID == 0 {
			continue
		}

		found := false
		for i, existing := range s.sessions {
			if existing.RemoteID != remote.RemoteID {
				continue
			}
			found = true
			if remote.UpdatedAt.After(existing.UpdatedAt) {
				merged := remote.Clone()
				// локальный режим и ответы пользователя с сервера не приходят
				merged.ID = existing.ID
				merged.Mode = existing.Mode
				for qid, answer := range existing.Answers {
					if merged.Answers[qid] == "" {
						merged.Answers[qid] = answer
					}
				}
				// серверный список не содержит вопросов: в этом случае
				// счетчики берутся как есть из серверной записи
				if len(merged.Questions) > 0 {
					merged.Recalculate()
				}
				s.sessions[i] = merged
			}
			break
		}

		if !found {
			s.sessions = append(s.sessions, remote.Clone())
		}
	}

	s.normalizeLocked()
	return s.persistLocked()
}

// normalizeLocked вытесняет устаревшие дубликаты по удаленному
// идентификатору, сортирует список и обрезает его до лимита
func (s *Service) normalizeLocked() {
	// для каждого RemoteID остается только самая свежая запись
	newestByRemote := map[int64]*session.InterviewSession{}
	for _, sess := range s.sessions {
		if sess.RemoteID == 0 {
			continue
		}
		current, ok := newestByRemote[sess.RemoteID]
		if !ok || sess.UpdatedAt.After(current.UpdatedAt) {
			newestByRemote[sess.RemoteID] = sess
		}
	}

	filtered := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.RemoteID != 0 && newestByRemote[sess.RemoteID] != sess {
			continue
		}
		filtered = append(filtered, sess)
	}
	s.sessions = filtered

	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].UpdatedAt.After(s.sessions[j].UpdatedAt)
	})

	if len(s.sessions) > s.limit {
		s.sessions = s.sessions[:s.limit]
	}
}

func (s *Service) persistLocked() error {
	jsonData, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессий: %w", err)
	}

	path := filepath.Join(s.dir, sessionsFile)
	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}
