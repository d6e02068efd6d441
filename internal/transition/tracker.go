// Package transition keeps the state a task had right before a mutating
// request changed it, so handlers can tell what the request actually did.
package transition

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskflow/internal/model"
)

const contextKey = "transition.tracker"

// Tracker holds snapshots for a single request. It is never shared between
// requests, so a concurrent request on the same task cannot overwrite them.
type Tracker struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]model.Snapshot
}

func New() *Tracker {
	return &Tracker{snapshots: make(map[uuid.UUID]model.Snapshot)}
}

// Capture records the state of task id, replacing any earlier entry.
func (t *Tracker) Capture(id uuid.UUID, snap model.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots[id] = snap
}

// Consume returns and forgets the snapshot for id. ok is false when nothing
// was captured, which callers treat as "do not notify".
func (t *Tracker) Consume(id uuid.UUID) (snap model.Snapshot, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, ok = t.snapshots[id]
	delete(t.snapshots, id)
	return snap, ok
}

// Pending reports how many snapshots were captured but never consumed.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.snapshots)
}

func (t *Tracker) discard() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(t.snapshots))
	for id := range t.snapshots {
		ids = append(ids, id)
	}
	t.snapshots = make(map[uuid.UUID]model.Snapshot)
	return ids
}

// FromContext returns the request's tracker. Without the middleware a fresh
// tracker is attached so callers never need a nil check.
func FromContext(c *gin.Context) *Tracker {
	if v, ok := c.Get(contextKey); ok {
		if t, ok := v.(*Tracker); ok {
			return t
		}
	}
	t := New()
	c.Set(contextKey, t)
	return t
}

// Middleware attaches a fresh tracker to each request and drops whatever the
// handlers left unconsumed once the request completes.
func Middleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tracker := New()
		c.Set(contextKey, tracker)

		c.Next()

		if tracker.Pending() == 0 {
			return
		}
		for _, id := range tracker.discard() {
			logger.WithFields(logrus.Fields{
				"task_id": id.String(),
				"path":    c.FullPath(),
			}).Debug("Discarding unconsumed transition snapshot")
		}
	}
}
