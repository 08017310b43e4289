package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/widget-chat/backend/internal/config"
	"github.com/zhouzirui/widget-chat/backend/internal/handler"
	"github.com/zhouzirui/widget-chat/backend/internal/handler/panel"
	"github.com/zhouzirui/widget-chat/backend/internal/model/agent"
	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/observability"
	"github.com/zhouzirui/widget-chat/backend/internal/plugin"
	"github.com/zhouzirui/widget-chat/backend/internal/service/ai"
	"github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/demo"
	panelService "github.com/zhouzirui/widget-chat/backend/internal/service/panel"
	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
	"github.com/zhouzirui/widget-chat/backend/internal/service/theme"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.Log.Level)
	if envErr != nil {
		logger.Info("no .env file loaded, continuing with system environment variables only", "error", envErr)
	}

	// Widget pipeline and rendering capabilities
	decoder := widget.NewDecoder(widget.WithMaxDepth(cfg.Widget.MaxDepth))
	var markdown render.Markdown = render.PlainMarkdown{}
	if cfg.Widget.Markdown {
		markdown = render.NewGoldmarkMarkdown()
	}
	renderer := render.New(render.WithMaxDepth(cfg.Widget.MaxDepth), render.WithMarkdown(markdown))

	plugins := plugin.NewRegistry(renderer)
	if cfg.Widget.Markdown {
		if err := plugins.RegisterMarkdown(plugin.Info{
			Name:        "Goldmark Markdown",
			Version:     "1.0.0",
			Description: "GitHub flavoured markdown with agent marker removal and HTML sanitizing",
		}, markdown); err != nil {
			logger.Warn("failed to register markdown plugin", "error", err)
		}
	}
	plugins.LogLoaded(logger)

	// Theme preferences
	var themeStore theme.Store = theme.NewMemoryStore()
	if cfg.Theme.StorePath != "" {
		pebbleStore, err := theme.OpenPebbleStore(cfg.Theme.StorePath)
		if err != nil {
			logger.Warn("failed to open theme store, keeping preferences in memory", "path", cfg.Theme.StorePath, "error", err)
		} else {
			defer pebbleStore.Close()
			themeStore = pebbleStore
			logger.Info("theme store opened", "path", cfg.Theme.StorePath)
		}
	}
	prefs := theme.NewPreferences(themeStore, logger)

	// Initialize agent store and chat service
	agentStore := agent.NewMemoryStore(agent.Seed())
	chatService := chat.NewService(chat.WithMaxMessageBytes(cfg.Widget.MaxMessageBytes))

	// Initialize AI service
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			logger.Warn("failed to initialize AI service, continuing without AI functionality", "error", err)
			aiService = nil
		} else {
			logger.Info("AI service initialized", "model", cfg.AI.Model, "streaming", aiService.StreamingEnabled())
		}
	} else {
		logger.Info("Ark credentials not configured, skipping AI initialization")
	}

	router := handler.NewRouter(handler.Services{
		Agents:   agentStore,
		Chat:     chatService,
		AI:       aiService,
		Decoder:  decoder,
		Renderer: renderer,
		Plugins:  plugins,
		Themes:   prefs,
		Demo:     demo.Messages,
		Panel: panel.Config{
			Panel: panelService.Config{
				ScrollDelay: cfg.Panel.ScrollDelay,
				SubmitDelay: cfg.Panel.SubmitDelay,
			},
			RateLimit: cfg.Panel.RateLimit,
			RateBurst: cfg.Panel.RateBurst,
		},
		Logger:          logger,
		MaxMessageBytes: cfg.Widget.MaxMessageBytes,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *slog.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("widget chat backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
