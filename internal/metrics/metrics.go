package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                 sync.RWMutex
	SessionsStarted    int64
	SessionsCompleted  int64
	AnswersSubmitted   int64
	RemoteCallsTotal   int64
	RemoteCallsFailed  int64
	FallbackDowngrades int64
	AuthRefreshes      int64
	LastUpdateTime     time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCompleted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersSubmitted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementRemoteCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoteCallsTotal++
	if !success {
		m.RemoteCallsFailed++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementFallbackDowngrades() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackDowngrades++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAuthRefreshes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuthRefreshes++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		SessionsStarted:    m.SessionsStarted,
		SessionsCompleted:  m.SessionsCompleted,
		AnswersSubmitted:   m.AnswersSubmitted,
		RemoteCallsTotal:   m.RemoteCallsTotal,
		RemoteCallsFailed:  m.RemoteCallsFailed,
		FallbackDowngrades: m.FallbackDowngrades,
		AuthRefreshes:      m.AuthRefreshes,
		LastUpdateTime:     m.LastUpdateTime,
	}
}
