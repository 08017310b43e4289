package theme

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
)

// Preferences wraps a Store and never surfaces storage errors. Values that
// fail to save are kept in memory and win over the store on later reads.
type Preferences struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	fallback map[string]render.Theme
}

// NewPreferences wraps store. A nil store keeps everything in memory.
func NewPreferences(store Store, logger *slog.Logger) *Preferences {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Preferences{store: store, logger: logger, fallback: make(map[string]render.Theme)}
}

// Get returns the client's theme, light when nothing usable is stored.
func (p *Preferences) Get(ctx context.Context, client string) render.Theme {
	p.mu.RLock()
	t, ok := p.fallback[client]
	p.mu.RUnlock()
	if ok {
		return t
	}

	t, err := p.store.Load(ctx, client)
	switch {
	case errors.Is(err, ErrNoPreference):
		return render.ThemeLight
	case err != nil:
		p.logger.Warn("[theme] failed to load preference", "client", client, "error", err)
		return render.ThemeLight
	case !t.Valid():
		return render.ThemeLight
	}
	return t
}

// Set saves the client's theme and returns the value now in effect.
func (p *Preferences) Set(ctx context.Context, client string, t render.Theme) render.Theme {
	if !t.Valid() {
		t = render.ThemeLight
	}
	if err := p.store.Save(ctx, client, t); err != nil {
		p.logger.Warn("[theme] failed to save preference, keeping it in memory", "client", client, "error", err)
		p.mu.Lock()
		p.fallback[client] = t
		p.mu.Unlock()
		return t
	}
	p.mu.Lock()
	delete(p.fallback, client)
	p.mu.Unlock()
	return t
}

// Toggle flips the client's theme.
func (p *Preferences) Toggle(ctx context.Context, client string) render.Theme {
	return p.Set(ctx, client, p.Get(ctx, client).Toggle())
}
