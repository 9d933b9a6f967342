// Package notify owns the single transient user-facing status message.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
)

const defaultTTL = 5 * time.Second

// Center holds at most one notification and its expiry timer. Every Notify
// replaces the current message and cancels the previously scheduled expiry,
// so the last call wins for both content and expiry. A generation counter
// guards against a stopped timer that already fired concurrently.
type Center struct {
	clock clockwork.Clock

	mu       sync.Mutex
	current  *domain.Notification
	timer    clockwork.Timer
	gen      uint64
	closed   bool
	onChange func()
}

func NewCenter(clock clockwork.Clock) *Center {
	return &Center{clock: clock}
}

// OnChange registers a callback invoked after the visible notification
// changes (set, expired, or cleared). Used by the renderer.
func (c *Center) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Notify shows a message with the default 5s expiry.
func (c *Center) Notify(text string, kind domain.Kind) {
	c.NotifyTTL(text, kind, defaultTTL)
}

// NotifyTTL shows a message that expires after ttl.
func (c *Center) NotifyTTL(text string, kind domain.Kind, ttl time.Duration) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}

	c.gen++
	gen := c.gen
	c.current = &domain.Notification{
		Text:      text,
		Kind:      kind,
		ExpiresAt: c.clock.Now().Add(ttl),
	}
	c.timer = c.clock.AfterFunc(ttl, func() {
		c.expire(gen)
	})
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// expire clears the message only if no newer Notify or Clear superseded it.
func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || c.gen != gen || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Clear removes the current message. Safe to call when nothing is shown.
func (c *Center) Clear() {
	c.mu.Lock()
	if c.closed || c.current == nil {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.current = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Current returns the visible notification, if any.
func (c *Center) Current() (domain.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Notification{}, false
	}
	return *c.current, true
}

// Close cancels any pending expiry timer and ignores further calls.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}
