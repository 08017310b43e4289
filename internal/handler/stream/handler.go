package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/widget-chat/backend/internal/model/agent"
	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
	"github.com/zhouzirui/widget-chat/backend/pkg/utils"
)

// Responder produces bot replies. *ai.Service implements it.
type Responder interface {
	StreamingEnabled() bool
	GenerateResponse(ctx context.Context, sessionID string, a *agent.Agent, messages []chat.Message, userMessage string) (*schema.Message, error)
	StreamResponse(ctx context.Context, a *agent.Agent, messages []chat.Message, userMessage string) (*schema.StreamReader[*schema.Message], error)
}

// Handler manages streaming AI responses via Server-Sent Events
type Handler struct {
	aiService Responder
	chatSvc   *chatService.Service
	agents    agent.Store
	extractor *extract.Extractor
}

// New creates a new stream handler
func New(aiSvc Responder, chatSvc *chatService.Service, agents agent.Store, extractor *extract.Extractor) *Handler {
	if extractor == nil {
		extractor = extract.New(nil)
	}
	return &Handler{
		aiService: aiSvc,
		chatSvc:   chatSvc,
		agents:    agents,
		extractor: extractor,
	}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string            `json:"event"`
	Content   string            `json:"content,omitempty"`
	SessionID string            `json:"sessionId,omitempty"`
	EventID   string            `json:"eventId,omitempty"`
	Segments  []extract.Segment `json:"segments,omitempty"`
	Finished  bool              `json:"finished,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// HandleStreamRequest processes streaming AI responses for a chat session
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	// Resolve session and agent context
	session, bot, err := h.getSessionAgent(ctx, sessionID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to get session agent: %v", err))
		return err
	}

	// Load conversation history
	messages, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to load conversation: %v", err))
		return err
	}

	// Save user message. When the client already persisted the message via REST, avoid duplicating it.
	if !hasMatchingUserMessage(messages, sessionID, userMessage) {
		userMsg, err := h.chatSvc.SaveMessage(ctx, chat.Message{
			SessionID: sessionID,
			Role:      chat.RoleUser,
			Text:      userMessage,
		})
		if err != nil {
			slog.Warn("[stream] failed to save user message", "session", sessionID, "error", err)
		} else {
			messages = append(messages, userMsg)
		}
	}

	// Send initial response
	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
		Content:   bot.Name,
	})

	response, err := h.dispatchAIResponse(ctx, w, flusher, sessionID, bot, messages, userMessage)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("AI generation failed: %v", err))
		return err
	}

	// Save assistant message and remember which agent wrote it
	botMsg, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Role:      chat.RoleBot,
		Text:      response.Content,
	})
	if err != nil {
		slog.Warn("[stream] failed to save assistant message", "session", sessionID, "error", err)
	} else {
		h.chatSvc.RecordEvent(ctx, chat.Event{ID: botMsg.EventID, Author: bot.ID})
	}

	// The client renders the final message from its segments
	h.sendSSE(w, flusher, StreamResponse{
		Event:     "segments",
		SessionID: sessionID,
		EventID:   botMsg.EventID,
		Segments:  h.extractor.Extract(response.Content),
	})

	// Send completion signal
	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	slog.Info("[stream] completed response", "session", sessionID, "agent", bot.ID)
	return nil
}

// dispatchAIResponse creates an AI response, streamed when the service allows it
func (h *Handler) dispatchAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, bot *agent.Agent, messages []chat.Message, userMessage string) (*schema.Message, error) {
	if h.aiService.StreamingEnabled() {
		return h.streamAIResponse(ctx, w, flusher, sessionID, bot, messages, userMessage)
	}

	response, err := h.aiService.GenerateResponse(ctx, sessionID, bot, messages, userMessage)
	if err != nil {
		return nil, err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response, nil
}

// getSessionAgent retrieves session and associated agent information
func (h *Handler) getSessionAgent(ctx context.Context, sessionID string) (*chat.Session, *agent.Agent, error) {
	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session not found: %w", err)
	}

	bot, ok := h.agents.FindByID(session.AgentID)
	if !ok {
		return nil, nil, fmt.Errorf("agent %s not found", session.AgentID)
	}

	return &session, &bot, nil
}

func hasMatchingUserMessage(messages []chat.Message, sessionID, text string) bool {
	if len(messages) == 0 {
		return false
	}

	last := messages[len(messages)-1]
	if last.SessionID != sessionID {
		return false
	}

	if last.Role != chat.RoleUser {
		return false
	}

	return last.Text == text
}

// sendSSE sends a Server-Sent Event
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Warn("[stream] failed to marshal SSE response", "error", err)
		return
	}

	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// sendSSEError sends an error via Server-Sent Events
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}

func (h *Handler) streamAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, bot *agent.Agent, messages []chat.Message, userMessage string) (*schema.Message, error) {
	stream, err := h.aiService.StreamResponse(ctx, bot, messages, userMessage)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response, nil
}
