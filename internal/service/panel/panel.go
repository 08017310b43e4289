// Package panel holds per-connection chat panel state: auto-scroll with user
// interruption, and the delayed submit used by widget actions.
package panel

import (
	"sync"
	"time"

	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
)

const (
	DefaultScrollDelay = 50 * time.Millisecond
	DefaultSubmitDelay = 100 * time.Millisecond
)

// Config sets the two deferral delays. Zero values use the defaults.
type Config struct {
	ScrollDelay time.Duration
	SubmitDelay time.Duration
}

// Panel tracks what one client has seen. Deferred callbacks are
// fire-and-forget; overlapping ones are allowed since re-scrolling and
// re-sending the same text are idempotent for the client.
type Panel struct {
	scrollDelay time.Duration
	submitDelay time.Duration

	mu          sync.Mutex
	seen        int
	interrupted bool
}

func New(cfg Config) *Panel {
	p := &Panel{scrollDelay: cfg.ScrollDelay, submitDelay: cfg.SubmitDelay}
	if p.scrollDelay <= 0 {
		p.scrollDelay = DefaultScrollDelay
	}
	if p.submitDelay <= 0 {
		p.submitDelay = DefaultSubmitDelay
	}
	return p
}

// Observe records the current transcript and reports whether the panel
// should scroll to the bottom. A new user message clears an interruption.
func (p *Panel) Observe(msgs []chat.Message) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	grew := len(msgs) > p.seen
	if grew {
		for _, m := range msgs[p.seen:] {
			if m.Role == chat.RoleUser {
				p.interrupted = false
				break
			}
		}
	}
	p.seen = len(msgs)
	return grew && !p.interrupted
}

// Interrupt suppresses auto-scroll until the next user message.
func (p *Panel) Interrupt() {
	p.mu.Lock()
	p.interrupted = true
	p.mu.Unlock()
}

func (p *Panel) Interrupted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interrupted
}

// ScheduleScroll runs fn after the scroll delay unless the panel is
// interrupted. It reports whether fn was scheduled.
func (p *Panel) ScheduleScroll(fn func()) bool {
	if p.Interrupted() {
		return false
	}
	time.AfterFunc(p.scrollDelay, fn)
	return true
}

// Submit shows text in the input now and sends it after the submit delay,
// giving the client a chance to observe the input change first.
func (p *Panel) Submit(text string, setInput func(string), send func(string)) {
	setInput(text)
	time.AfterFunc(p.submitDelay, func() { send(text) })
}
