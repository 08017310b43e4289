package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/widget-chat/backend/internal/model/agent"
	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/service/action"
	chatService "github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
	"github.com/zhouzirui/widget-chat/backend/pkg/utils"
)

// TranscriptSource resolves the active transcript renderer per request.
type TranscriptSource interface {
	Transcript() render.TranscriptRenderer
}

// ThemeSource returns a client's stored theme.
type ThemeSource interface {
	Get(ctx context.Context, client string) render.Theme
}

// Deps 聊天处理器的依赖
type Deps struct {
	Chat        *chatService.Service
	Agents      agent.Store
	Extractor   *extract.Extractor
	Mapper      *action.Mapper
	Transcripts TranscriptSource
	Themes      ThemeSource
	Demo        func() ([]chat.Message, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc     *chatService.Service
	agents      agent.Store
	extractor   *extract.Extractor
	mapper      *action.Mapper
	transcripts TranscriptSource
	themes      ThemeSource
	demo        func() ([]chat.Message, error)
}

// New 创建聊天处理器
func New(deps Deps) *Handler {
	h := &Handler{
		chatSvc:     deps.Chat,
		agents:      deps.Agents,
		extractor:   deps.Extractor,
		mapper:      deps.Mapper,
		transcripts: deps.Transcripts,
		themes:      deps.Themes,
		demo:        deps.Demo,
	}
	if h.extractor == nil {
		h.extractor = extract.New(nil)
	}
	if h.mapper == nil {
		h.mapper = action.NewMapper(nil)
	}
	return h
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/messages", h.handleSaveMessage)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/messages", h.handleListViews)
		r.Get("/transcript", h.handleTranscript)
		r.Post("/actions", h.handleAction)
		r.Post("/demo", h.handleToggleDemo)
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AgentID string `json:"agentId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.AgentID == "" {
		respondError(w, http.StatusBadRequest, "agentId is required")
		return
	}

	if _, ok := h.agents.FindByID(payload.AgentID); !ok {
		respondError(w, http.StatusBadRequest, "agent not found")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.AgentID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// handleSaveMessage 保存消息。机器人消息可以携带author，用于头像颜色。
func (h *Handler) handleSaveMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Role      string `json:"role"`
		Text      string `json:"text"`
		EventID   string `json:"eventId"`
		Author    string `json:"author"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.chatSvc.SaveMessage(r.Context(), chat.Message{
		SessionID: payload.SessionID,
		Role:      chat.Role(payload.Role),
		Text:      payload.Text,
		EventID:   payload.EventID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if saved.Role == chat.RoleBot && payload.Author != "" {
		h.chatSvc.RecordEvent(r.Context(), chat.Event{ID: saved.EventID, Author: payload.Author})
	}

	respondJSON(w, http.StatusCreated, saved)
}

// handleListViews 返回带有分段结果的消息视图
func (h *Handler) handleListViews(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	views, err := h.views(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"demo":      h.chatSvc.InDemo(sessionID),
		"messages":  views,
	})
}

// handleTranscript 渲染整个聊天面板为HTML
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if h.transcripts == nil {
		respondError(w, http.StatusServiceUnavailable, "transcript rendering unavailable")
		return
	}

	views, err := h.views(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	html, err := h.transcripts.Transcript().RenderMessages(views, h.themeFor(r))
	if err != nil {
		slog.Error("[chat] transcript render failed", "error", err)
		respondError(w, http.StatusInternalServerError, "render failed")
		return
	}
	utils.RespondHTML(w, http.StatusOK, html)
}

// handleAction 把组件交互转换成用户消息
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var ev widget.ActionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, "invalid action event")
		return
	}

	msg, ok, err := h.SubmitAction(r.Context(), chi.URLParam(r, "sessionID"), ev)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// handleToggleDemo 切换演示对话
func (h *Handler) handleToggleDemo(w http.ResponseWriter, r *http.Request) {
	demo, err := h.ToggleDemo(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"demo": demo})
}

// SubmitText saves text typed by the user. Blank text is ignored.
func (h *Handler) SubmitText(ctx context.Context, sessionID, text string) (chat.Message, bool, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, false, nil
	}
	msg, err := h.chatSvc.SaveMessage(ctx, chat.Message{SessionID: sessionID, Role: chat.RoleUser, Text: text})
	if err != nil {
		return chat.Message{}, false, err
	}
	return msg, true, nil
}

// SubmitAction maps a widget interaction and, when it yields text, saves it
// exactly as if the user had typed it.
func (h *Handler) SubmitAction(ctx context.Context, sessionID string, ev widget.ActionEvent) (chat.Message, bool, error) {
	if _, err := h.chatSvc.GetSession(ctx, sessionID); err != nil {
		return chat.Message{}, false, err
	}
	text, ok := h.mapper.Map(ev)
	if !ok {
		return chat.Message{}, false, nil
	}
	return h.SubmitText(ctx, sessionID, text)
}

// ToggleDemo swaps the session into or out of the demo transcript.
func (h *Handler) ToggleDemo(ctx context.Context, sessionID string) (bool, error) {
	if h.demo == nil {
		return false, errDemoUnavailable
	}
	msgs, err := h.demo()
	if err != nil {
		return false, err
	}
	return h.chatSvc.ToggleDemo(ctx, sessionID, msgs)
}

func (h *Handler) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	return h.chatSvc.GetSession(ctx, sessionID)
}

func (h *Handler) InDemo(sessionID string) bool {
	return h.chatSvc.InDemo(sessionID)
}

// Views loads the session transcript as display views.
func (h *Handler) Views(ctx context.Context, sessionID string) ([]chatService.MessageView, error) {
	return h.views(ctx, sessionID)
}

func (h *Handler) views(ctx context.Context, sessionID string) ([]chatService.MessageView, error) {
	msgs, err := h.chatSvc.LoadTranscript(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return chatService.BuildViews(msgs, h.extractor, h.chatSvc.AuthorOf), nil
}

func (h *Handler) themeFor(r *http.Request) render.Theme {
	if t := r.URL.Query().Get("theme"); t != "" {
		return render.ParseTheme(t)
	}
	if h.themes != nil {
		return h.themes.Get(r.Context(), r.URL.Query().Get("client"))
	}
	return render.ThemeLight
}

var errDemoUnavailable = errors.New("demo transcript unavailable")

func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chatService.ErrInvalidRole), errors.Is(err, chatService.ErrAgentRequired):
		status = http.StatusBadRequest
	case errors.Is(err, chatService.ErrMessageTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errDemoUnavailable):
		status = http.StatusServiceUnavailable
	}
	respondError(w, status, err.Error())
}

// respondJSON 发送JSON响应
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError 发送错误响应
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
