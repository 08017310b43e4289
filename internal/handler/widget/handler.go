package widget

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
	"github.com/zhouzirui/widget-chat/backend/pkg/utils"
)

// maxBodyBytes bounds the widget JSON accepted by a single request.
const maxBodyBytes = 1 << 20

// Handler 组件解析与渲染的HTTP处理器
type Handler struct {
	decoder   *widget.Decoder
	extractor *extract.Extractor
	renderer  *render.Renderer
}

// New 创建组件处理器
func New(decoder *widget.Decoder, extractor *extract.Extractor, renderer *render.Renderer) *Handler {
	if decoder == nil {
		decoder = widget.NewDecoder()
	}
	if extractor == nil {
		extractor = extract.New(decoder)
	}
	if renderer == nil {
		renderer = render.New()
	}
	return &Handler{decoder: decoder, extractor: extractor, renderer: renderer}
}

// RegisterRoutes 注册组件相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/widgets", func(r chi.Router) {
		r.Get("/types", h.handleTypes)
		r.Post("/extract", h.handleExtract)
		r.Post("/render", h.handleRender)
	})
}

func (h *Handler) handleTypes(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, widget.Types())
}

// handleExtract 把一段消息文本拆分成文本与组件片段
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(payload.Text) > h.extractor.MaxTextBytes() {
		utils.RespondError(w, http.StatusRequestEntityTooLarge, "text too large")
		return
	}

	segments := h.extractor.Extract(payload.Text)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"segments": segments,
		"mixed":    extract.Mixed(segments),
	})
}

// handleRender 渲染单个组件JSON为HTML
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	wd, err := h.decoder.Decode(body)
	if err != nil {
		var de *widget.DecodeError
		if errors.As(err, &de) {
			utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": err.Error(),
				"stage": string(de.Stage),
			})
			return
		}
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	html, err := h.renderer.Render(wd, render.ParseTheme(r.URL.Query().Get("theme")))
	if err != nil {
		slog.Warn("[widget] render failed", "type", wd.Kind(), "error", err)
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	utils.RespondHTML(w, http.StatusOK, html)
}
