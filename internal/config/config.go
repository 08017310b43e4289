package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Widget WidgetConfig
	Theme  ThemeConfig
	Panel  PanelConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	widget, err := loadWidgetConfig()
	if err != nil {
		return nil, err
	}

	panel, err := loadPanelConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Widget: widget,
		Theme:  ThemeConfig{StorePath: strings.TrimSpace(os.Getenv("THEME_STORE_PATH"))},
		Panel:  panel,
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "info")},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey         string
	AccessKey      string
	SecretKey      string
	Model          string
	BaseURL        string
	Region         string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	StreamResponse bool
	HistoryLimit   int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	history := 10
	if override, err := parseOptionalIntEnv("AI_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		history = max(*override, 1)
	}

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:      strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:      strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:          strings.TrimSpace(os.Getenv("Model")),
		BaseURL:        getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:         getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:    temperature,
		TopP:           topP,
		MaxTokens:      maxTokens,
		StreamResponse: stream,
		HistoryLimit:   history,
	}, nil
}

// WidgetConfig 控制组件解析与渲染。
type WidgetConfig struct {
	// MaxDepth bounds container/popup nesting; the root is level 1.
	MaxDepth int
	// Markdown switches text rendering from escaped plain text to goldmark.
	Markdown bool
	// MaxMessageBytes caps stored message text and the text scanned for widgets.
	MaxMessageBytes int
}

func loadWidgetConfig() (WidgetConfig, error) {
	depth := 16
	if override, err := parseOptionalIntEnv("WIDGET_MAX_DEPTH"); err != nil {
		return WidgetConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return WidgetConfig{}, fmt.Errorf("invalid WIDGET_MAX_DEPTH value %d: must be at least 1", *override)
		}
		depth = *override
	}

	markdown, err := parseBoolEnv("WIDGET_MARKDOWN", true)
	if err != nil {
		return WidgetConfig{}, err
	}

	maxBytes := 64 << 10
	if override, err := parseOptionalIntEnv("WIDGET_MAX_MESSAGE_BYTES"); err != nil {
		return WidgetConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return WidgetConfig{}, fmt.Errorf("invalid WIDGET_MAX_MESSAGE_BYTES value %d: must be at least 1", *override)
		}
		maxBytes = *override
	}

	return WidgetConfig{MaxDepth: depth, Markdown: markdown, MaxMessageBytes: maxBytes}, nil
}

// ThemeConfig 描述主题偏好的存储位置。空路径表示仅保存在内存中。
type ThemeConfig struct {
	StorePath string
}

// PanelConfig 描述聊天面板的延迟行为与限流。
type PanelConfig struct {
	ScrollDelay time.Duration
	SubmitDelay time.Duration
	// RateLimit is inbound WebSocket frames per second; RateBurst the bucket size.
	RateLimit float64
	RateBurst int
}

func loadPanelConfig() (PanelConfig, error) {
	cfg := PanelConfig{
		ScrollDelay: 50 * time.Millisecond,
		SubmitDelay: 100 * time.Millisecond,
		RateLimit:   10,
		RateBurst:   20,
	}

	if ms, err := parseOptionalIntEnv("PANEL_SCROLL_DELAY_MS"); err != nil {
		return PanelConfig{}, err
	} else if ms != nil {
		cfg.ScrollDelay = time.Duration(*ms) * time.Millisecond
	}

	if ms, err := parseOptionalIntEnv("PANEL_SUBMIT_DELAY_MS"); err != nil {
		return PanelConfig{}, err
	} else if ms != nil {
		cfg.SubmitDelay = time.Duration(*ms) * time.Millisecond
	}

	if limit, err := parseOptionalFloatEnv("PANEL_RATE_LIMIT"); err != nil {
		return PanelConfig{}, err
	} else if limit != nil {
		cfg.RateLimit = *limit
	}

	if burst, err := parseOptionalIntEnv("PANEL_RATE_BURST"); err != nil {
		return PanelConfig{}, err
	} else if burst != nil {
		cfg.RateBurst = max(*burst, 1)
	}

	return cfg, nil
}

// LogConfig 描述日志级别。
type LogConfig struct {
	Level string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
