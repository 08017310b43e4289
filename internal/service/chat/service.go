package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
)

var (
	ErrAgentRequired   = errors.New("agent id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRole     = errors.New("role must be user or bot")
	ErrMessageTooLarge = errors.New("message text too large")
)

// DefaultMaxMessageBytes bounds message text when no option overrides it.
const DefaultMaxMessageBytes = 64 << 10

// Service encapsulates conversation state management.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
	events   map[string]chat.Event
	// saved holds the live transcript while a session shows the demo.
	saved map[string][]chat.Message

	maxMessageBytes int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxMessageBytes caps the text a saved message may carry. Values below
// 1 keep DefaultMaxMessageBytes.
func WithMaxMessageBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxMessageBytes = n
		}
	}
}

// NewService bootstraps the in-memory chat service.
func NewService(opts ...Option) *Service {
	s := &Service{
		sessions:        make(map[string]chat.Session),
		messages:        make(map[string][]chat.Message),
		events:          make(map[string]chat.Event),
		saved:           make(map[string][]chat.Message),
		maxMessageBytes: DefaultMaxMessageBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions an anonymous session bound to an agent.
func (s *Service) CreateSession(_ context.Context, agentID string) (chat.Session, error) {
	if agentID == "" {
		return chat.Session{}, ErrAgentRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]chat.Message, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// SaveMessage appends a message to the session history and returns it with
// its assigned id. Bot messages without an event id get a fresh ULID.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	if message.SessionID == "" {
		return chat.Message{}, ErrSessionNotFound
	}
	if !message.Role.Valid() {
		return chat.Message{}, ErrInvalidRole
	}
	if len(message.Text) > s.maxMessageBytes {
		return chat.Message{}, ErrMessageTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[message.SessionID]; !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	if message.Role == chat.RoleBot && message.EventID == "" {
		message.EventID = ulid.Make().String()
	}

	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return message, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns a copy of the stored messages for the session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// RecordEvent stores author metadata for a bot event.
func (s *Service) RecordEvent(_ context.Context, event chat.Event) {
	if event.ID == "" {
		return
	}
	s.mu.Lock()
	s.events[event.ID] = event
	s.mu.Unlock()
}

// AuthorOf resolves the author of an event, falling back to the root agent.
func (s *Service) AuthorOf(eventID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ev, ok := s.events[eventID]; ok && ev.Author != "" {
		return ev.Author
	}
	return chat.RootAgent
}

// ToggleDemo swaps the session transcript for demo and back. It reports
// whether the session is in demo mode afterwards.
func (s *Service) ToggleDemo(_ context.Context, sessionID string, demo []chat.Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.messages[sessionID]
	if !ok {
		return false, ErrSessionNotFound
	}

	if original, inDemo := s.saved[sessionID]; inDemo {
		s.messages[sessionID] = original
		delete(s.saved, sessionID)
		return false, nil
	}

	s.saved[sessionID] = current
	swapped := make([]chat.Message, 0, len(demo))
	now := time.Now().UTC()
	for _, m := range demo {
		m.SessionID = sessionID
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		swapped = append(swapped, m)
	}
	s.messages[sessionID] = swapped
	return true, nil
}

// InDemo reports whether the session currently shows the demo transcript.
func (s *Service) InDemo(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.saved[sessionID]
	return ok
}
