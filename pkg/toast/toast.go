package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity is the visual weight of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultTTL is how long a toast stays in the queue before auto-expiry
const DefaultTTL = 5 * time.Second

// Toast is a single notification
type Toast struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Listener receives the current queue contents on every change
type Listener func([]Toast)

// Queue is a process-wide notification queue with a subscribe/notify lifecycle.
// Publish appends with an auto-expiry timer; listeners are notified on every
// append and expiry.
type Queue struct {
	mu        sync.Mutex
	ttl       time.Duration
	toasts    []Toast
	listeners map[uint64]Listener
	nextID    uint64
}

// NewQueue creates a queue. A non-positive ttl falls back to DefaultTTL.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:       ttl,
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe registers a listener and returns its unsubscribe function. The
// listener immediately receives the current contents.
func (q *Queue) Subscribe(listener Listener) func() {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.listeners[id] = listener
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	listener(snapshot)

	return func() {
		q.mu.Lock()
		delete(q.listeners, id)
		q.mu.Unlock()
	}
}

// Publish appends a toast and schedules its expiry
func (q *Queue) Publish(sessionID, message string, severity Severity) Toast {
	t := Toast{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.toasts = append(q.toasts, t)
	q.notifyLocked()
	q.mu.Unlock()

	time.AfterFunc(q.ttl, func() {
		q.expire(t.ID)
	})

	return t
}

func (q *Queue) expire(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
	q.notifyLocked()
}

func (q *Queue) snapshotLocked() []Toast {
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

func (q *Queue) notifyLocked() {
	snapshot := q.snapshotLocked()
	for _, listener := range q.listeners {
		listener(snapshot)
	}
}
