package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAssignment   Kind = "assignment"
	KindStatusChange Kind = "status_change"
)

// StatusSent is the only terminal state a record reaches.
const StatusSent = "sent"

// Record is one simulated email.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	TaskID    uuid.UUID `json:"task_id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// Log is the in-memory send log. It lives as long as the process and is safe
// for concurrent use.
type Log struct {
	mu      sync.Mutex
	records []Record
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// List returns a copy of the log in send order.
func (l *Log) List() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
