package panel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/service/action"
	chatService "github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	panelService "github.com/zhouzirui/widget-chat/backend/internal/service/panel"
	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Conversation is the chat surface the panel drives. The chat HTTP handler
// implements it, so typed text and widget actions share one save path.
type Conversation interface {
	GetSession(ctx context.Context, sessionID string) (chat.Session, error)
	SubmitText(ctx context.Context, sessionID, text string) (chat.Message, bool, error)
	ToggleDemo(ctx context.Context, sessionID string) (bool, error)
	Views(ctx context.Context, sessionID string) ([]chatService.MessageView, error)
	InDemo(sessionID string) bool
}

// TranscriptSource resolves the active transcript renderer.
type TranscriptSource interface {
	Transcript() render.TranscriptRenderer
}

// ThemeStore reads and writes a client's theme.
type ThemeStore interface {
	Get(ctx context.Context, client string) render.Theme
	Set(ctx context.Context, client string, t render.Theme) render.Theme
}

// Config 面板WebSocket的行为参数
type Config struct {
	Panel     panelService.Config
	RateLimit float64
	RateBurst int
}

// WebSocketHandler 聊天面板WebSocket处理器
type WebSocketHandler struct {
	conv        Conversation
	mapper      *action.Mapper
	transcripts TranscriptSource
	themes      ThemeStore
	cfg         Config
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(conv Conversation, mapper *action.Mapper, transcripts TranscriptSource, themes ThemeStore, cfg Config) *WebSocketHandler {
	if mapper == nil {
		mapper = action.NewMapper(nil)
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = 20
	}
	return &WebSocketHandler{
		conv:        conv,
		mapper:      mapper,
		transcripts: transcripts,
		themes:      themes,
		cfg:         cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// connection serializes writes; gorilla allows one concurrent writer and the
// ping loop and deferred panel callbacks write from their own goroutines.
type connection struct {
	ws        *websocket.Conn
	sessionID string
	client    string
	panel     *panelService.Panel
	limiter   *rate.Limiter

	mu sync.Mutex
}

func (c *connection) send(msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(msg); err != nil {
		slog.Debug("[websocket] write failed", "session", c.sessionID, "type", msgType, "error", err)
	}
}

func (c *connection) sendError(message string) {
	c.send("error", map[string]string{"message": message})
}

func (c *connection) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.conv.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	client := r.URL.Query().Get("client")
	if client == "" {
		client = sessionID
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[websocket] upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	conn := &connection{
		ws:        ws,
		sessionID: sessionID,
		client:    client,
		panel:     panelService.New(h.cfg.Panel),
		limiter:   rate.NewLimiter(rate.Limit(h.cfg.RateLimit), h.cfg.RateBurst),
	}

	slog.Info("[websocket] new panel connection", "session", sessionID, "client", client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.pushTranscript(ctx, conn)

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("[websocket] read error", "session", sessionID, "error", err)
			}
			return
		}

		ws.SetReadDeadline(time.Now().Add(readTimeout))

		if !conn.limiter.Allow() {
			metricFrames.WithLabelValues(msg.Type, "limited").Inc()
			conn.sendError("rate limited")
			continue
		}

		h.handleMessage(ctx, conn, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *connection, msg *inboundMessage) {
	outcome := "ok"
	defer func() { metricFrames.WithLabelValues(msg.Type, outcome).Inc() }()

	switch msg.Type {
	case "message":
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			outcome = "invalid"
			conn.sendError("invalid message payload")
			return
		}
		h.submit(ctx, conn, payload.Text)

	case "action":
		var ev widget.ActionEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			outcome = "invalid"
			conn.sendError("invalid action event")
			return
		}
		text, ok := h.mapper.Map(ev)
		if !ok {
			return
		}
		// The input shows the mapped text before it is sent.
		conn.panel.Submit(text,
			func(s string) { conn.send("input", map[string]string{"text": s}) },
			func(s string) { h.submit(ctx, conn, s) },
		)

	case "scroll-interrupt":
		conn.panel.Interrupt()

	case "theme":
		var payload struct {
			Theme string `json:"theme"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || !render.Theme(payload.Theme).Valid() {
			outcome = "invalid"
			conn.sendError("theme must be light or dark")
			return
		}
		if h.themes != nil {
			h.themes.Set(ctx, conn.client, render.Theme(payload.Theme))
		}
		h.pushTranscript(ctx, conn)

	case "demo":
		if _, err := h.conv.ToggleDemo(ctx, conn.sessionID); err != nil {
			outcome = "error"
			conn.sendError(err.Error())
			return
		}
		h.pushTranscript(ctx, conn)

	default:
		outcome = "unknown"
		conn.sendError("unknown message type")
	}
}

func (h *WebSocketHandler) submit(ctx context.Context, conn *connection, text string) {
	_, saved, err := h.conv.SubmitText(ctx, conn.sessionID, text)
	if err != nil {
		slog.Warn("[websocket] failed to save message", "session", conn.sessionID, "error", err)
		conn.sendError("failed to save message")
		return
	}
	if saved {
		h.pushTranscript(ctx, conn)
	}
}

// pushTranscript sends the rendered panel and schedules a scroll when the
// transcript grew and the user has not scrolled away.
func (h *WebSocketHandler) pushTranscript(ctx context.Context, conn *connection) {
	views, err := h.conv.Views(ctx, conn.sessionID)
	if err != nil {
		conn.sendError(err.Error())
		return
	}

	theme := render.ThemeLight
	if h.themes != nil {
		theme = h.themes.Get(ctx, conn.client)
	}

	data := map[string]any{
		"theme": theme,
		"demo":  h.conv.InDemo(conn.sessionID),
	}
	if h.transcripts != nil {
		html, err := h.transcripts.Transcript().RenderMessages(views, theme)
		if err != nil {
			slog.Error("[websocket] transcript render failed", "session", conn.sessionID, "error", err)
			conn.sendError("render failed")
			return
		}
		data["html"] = string(html)
	} else {
		data["messages"] = views
	}
	conn.send("transcript", data)

	msgs := make([]chat.Message, len(views))
	for i, v := range views {
		msgs[i] = v.Message
	}
	if conn.panel.Observe(msgs) {
		conn.panel.ScheduleScroll(func() { conn.send("scroll", nil) })
	}
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
