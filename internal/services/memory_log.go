package services

import (
	"context"
	"sync"
	"time"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

// MemoryMessageLog is an in-process MessageLog for local runs without Postgres.
type MemoryMessageLog struct {
	mu     sync.RWMutex
	msgs   []models.ChatMessage
	nextID uint64
	Now    func() time.Time
}

func NewMemoryMessageLog() *MemoryMessageLog {
	return &MemoryMessageLog{Now: time.Now}
}

func (l *MemoryMessageLog) Append(_ context.Context, msg *models.ChatMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.Now().UTC()
	if n := len(l.msgs); n > 0 && !ts.After(l.msgs[n-1].Timestamp) {
		// keep timestamps strictly increasing in append order
		ts = l.msgs[n-1].Timestamp.Add(time.Nanosecond)
	}
	l.nextID++
	msg.ID = l.nextID
	msg.Timestamp = ts
	l.msgs = append(l.msgs, *msg)
	return nil
}

func (l *MemoryMessageLog) Latest(_ context.Context, limit int) ([]models.ChatMessage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.msgs)
	if limit > n {
		limit = n
	}
	out := make([]models.ChatMessage, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.msgs[i])
	}
	return out, nil
}
