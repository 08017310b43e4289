// Package plugin lets startup code swap the markdown and transcript
// capabilities used when rendering chat panels.
package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
)

// Capability names a replaceable rendering component.
type Capability string

const (
	CapabilityMarkdown   Capability = "markdown"
	CapabilityTranscript Capability = "transcript"
)

var (
	ErrNameRequired    = errors.New("plugin name is required")
	ErrNilPlugin       = errors.New("plugin implementation is nil")
	ErrAlreadyReplaced = errors.New("capability already replaced")
)

// Info describes a registered override.
type Info struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Replaces    Capability `json:"replaces"`
}

// Registry resolves each capability to its override, or to the default
// when nothing was registered.
type Registry struct {
	mu         sync.RWMutex
	renderer   *render.Renderer
	markdown   render.Markdown
	transcript render.TranscriptRenderer
	loaded     []Info
}

// NewRegistry returns a registry whose defaults are plain-text markdown and
// a transcript built on renderer.
func NewRegistry(renderer *render.Renderer) *Registry {
	if renderer == nil {
		renderer = render.New()
	}
	return &Registry{renderer: renderer}
}

// RegisterMarkdown replaces the markdown capability.
func (r *Registry) RegisterMarkdown(info Info, md render.Markdown) error {
	if md == nil {
		return ErrNilPlugin
	}
	return r.register(info, CapabilityMarkdown, func() bool {
		if r.markdown != nil {
			return false
		}
		r.markdown = md
		return true
	})
}

// RegisterTranscript replaces the transcript capability.
func (r *Registry) RegisterTranscript(info Info, t render.TranscriptRenderer) error {
	if t == nil {
		return ErrNilPlugin
	}
	return r.register(info, CapabilityTranscript, func() bool {
		if r.transcript != nil {
			return false
		}
		r.transcript = t
		return true
	})
}

func (r *Registry) register(info Info, c Capability, set func() bool) error {
	if info.Name == "" {
		return ErrNameRequired
	}
	info.Replaces = c

	r.mu.Lock()
	defer r.mu.Unlock()
	if !set() {
		return fmt.Errorf("%s: %w", c, ErrAlreadyReplaced)
	}
	r.loaded = append(r.loaded, info)
	return nil
}

// Markdown returns the active markdown capability.
func (r *Registry) Markdown() render.Markdown {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.markdown != nil {
		return r.markdown
	}
	return render.PlainMarkdown{}
}

// Transcript returns the active transcript capability. The default picks up
// whatever markdown capability is active at call time.
func (r *Registry) Transcript() render.TranscriptRenderer {
	r.mu.RLock()
	t := r.transcript
	r.mu.RUnlock()
	if t != nil {
		return t
	}
	return render.NewTranscript(r.renderer, r.Markdown())
}

// Loaded lists overrides in registration order.
func (r *Registry) Loaded() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, len(r.loaded))
	copy(out, r.loaded)
	return out
}

// LogLoaded writes one line per override.
func (r *Registry) LogLoaded(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	loaded := r.Loaded()
	logger.Info("[plugin] plugins loaded", "count", len(loaded))
	for _, p := range loaded {
		logger.Info("[plugin] loaded",
			"name", p.Name,
			"version", p.Version,
			"replaces", string(p.Replaces),
			"description", p.Description,
		)
	}
}
