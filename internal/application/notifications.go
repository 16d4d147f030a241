package application

import (
	"sync"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/google/uuid"
)

const DefaultNotificationTTL = 3 * time.Second

type Notification struct {
	ID        string
	Severity  domain.Severity
	Message   string
	CreatedAt time.Time
	// ExpiresAt is zero for sticky notifications.
	ExpiresAt time.Time
}

func (n Notification) Expired(now time.Time) bool {
	return !n.ExpiresAt.IsZero() && !now.Before(n.ExpiresAt)
}

// NotificationCenter keeps transient user-facing messages in FIFO order.
// Expired messages are pruned lazily on read.
type NotificationCenter struct {
	clock ports.Clock
	ttl   time.Duration

	mu    sync.Mutex
	items []Notification
}

func NewNotificationCenter(clock ports.Clock, ttl time.Duration) *NotificationCenter {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if ttl == 0 {
		ttl = DefaultNotificationTTL
	}

	return &NotificationCenter{clock: clock, ttl: ttl}
}

func (c *NotificationCenter) Push(severity domain.Severity, message string) Notification {
	return c.PushTTL(severity, message, 0)
}

// PushTTL appends a message living for ttl. Zero uses the center default and
// a negative ttl keeps the message until dismissed.
func (c *NotificationCenter) PushTTL(severity domain.Severity, message string, ttl time.Duration) Notification {
	if ttl == 0 {
		ttl = c.ttl
	}

	now := c.clock.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
	}
	if ttl > 0 {
		n.ExpiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	return n
}

func (c *NotificationCenter) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}

	return false
}

// List returns the live notifications, oldest first.
func (c *NotificationCenter) List() []Notification {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	live := make([]Notification, 0, len(c.items))
	for _, n := range c.items {
		if !n.Expired(now) {
			live = append(live, n)
		}
	}
	c.items = live

	out := make([]Notification, len(live))
	copy(out, live)
	return out
}

// Drain returns every queued notification, expired or not, and empties the
// queue. One-shot surfaces like the CLI print them once at the end.
func (c *NotificationCenter) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.items
	c.items = nil
	return out
}
