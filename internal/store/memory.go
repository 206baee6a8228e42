package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/spigell/ai-recruiter/internal/interview"
)

// Memory is an in-process store for tests and ad-hoc runs without a
// database file. Sessions are kept as encoded snapshots so callers never
// share mutable state with the store.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]byte),
		now:     time.Now,
	}
}

func (m *Memory) Save(_ context.Context, session *interview.Session) error {
	record, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode interview session: %w", err)
	}

	m.mu.Lock()
	m.records[session.ID] = record
	m.mu.Unlock()

	return nil
}

func (m *Memory) Load(_ context.Context, id string) (*interview.Session, bool, error) {
	m.mu.RLock()
	record, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	session := &interview.Session{}
	if err := json.Unmarshal(record, session); err != nil {
		return nil, false, fmt.Errorf("decode interview session %s: %w", id, err)
	}

	if session.Expired(m.now().UTC()) {
		m.expire(session)
		return nil, false, nil
	}

	return session, true, nil
}

func (m *Memory) expire(session *interview.Session) {
	if session.State == interview.StateExpired {
		return
	}
	session.State = interview.StateExpired

	record, err := json.Marshal(session)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.records[session.ID] = record
	m.mu.Unlock()
}
