package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	agentHandler "github.com/zhouzirui/widget-chat/backend/internal/handler/agent"
	"github.com/zhouzirui/widget-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/handler/panel"
	"github.com/zhouzirui/widget-chat/backend/internal/handler/stream"
	themeHandler "github.com/zhouzirui/widget-chat/backend/internal/handler/theme"
	widgetHandler "github.com/zhouzirui/widget-chat/backend/internal/handler/widget"
	middlewarePkg "github.com/zhouzirui/widget-chat/backend/internal/middleware"
	"github.com/zhouzirui/widget-chat/backend/internal/model/agent"
	chatModel "github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/plugin"
	"github.com/zhouzirui/widget-chat/backend/internal/service/action"
	aiService "github.com/zhouzirui/widget-chat/backend/internal/service/ai"
	chatService "github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
	themeService "github.com/zhouzirui/widget-chat/backend/internal/service/theme"
	"github.com/zhouzirui/widget-chat/backend/pkg/utils"
)

// Services 路由依赖的核心服务
type Services struct {
	Agents   agent.Store
	Chat     *chatService.Service
	AI       *aiService.Service
	Decoder  *widget.Decoder
	Renderer *render.Renderer
	Plugins  *plugin.Registry
	Themes   *themeService.Preferences
	Demo     func() ([]chatModel.Message, error)
	Panel    panel.Config
	Logger   *slog.Logger

	// MaxMessageBytes bounds the text scanned for widgets; 0 keeps the default.
	MaxMessageBytes int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(middlewarePkg.Metrics)

	if svc.Decoder == nil {
		svc.Decoder = widget.NewDecoder()
	}
	if svc.Renderer == nil {
		svc.Renderer = render.New()
	}
	if svc.Plugins == nil {
		svc.Plugins = plugin.NewRegistry(svc.Renderer)
	}
	if svc.Themes == nil {
		svc.Themes = themeService.NewPreferences(nil, svc.Logger)
	}

	extractor := extract.New(svc.Decoder, extract.WithMaxTextBytes(svc.MaxMessageBytes))
	mapper := action.NewMapper(svc.Logger)

	// Create handlers
	agentsHandler := agentHandler.New(svc.Agents)
	chatHandler := chat.New(chat.Deps{
		Chat:        svc.Chat,
		Agents:      svc.Agents,
		Extractor:   extractor,
		Mapper:      mapper,
		Transcripts: svc.Plugins,
		Themes:      svc.Themes,
		Demo:        svc.Demo,
	})
	widgetsHandler := widgetHandler.New(svc.Decoder, extractor, svc.Renderer)
	themesHandler := themeHandler.New(svc.Themes)
	panelHandler := panel.NewWebSocketHandler(chatHandler, mapper, svc.Plugins, svc.Themes, svc.Panel)

	// Create stream handler for AI responses if AI service is available
	var streamHandler *stream.Handler
	if svc.AI != nil {
		streamHandler = stream.New(svc.AI, svc.Chat, svc.Agents, extractor)
	}

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		agentsHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		widgetsHandler.RegisterRoutes(api)
		themesHandler.RegisterRoutes(api)
		panelHandler.RegisterWebSocketRoutes(api)

		api.Get("/plugins", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, svc.Plugins.Loaded())
		})

		// Enhanced streaming endpoint with AI integration
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if streamHandler == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				return
			}
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			// Handle AI-powered streaming response
			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				slog.Warn("[stream] error handling request", "session", sessionID, "error", err)
			}
		})
	})

	return r
}
