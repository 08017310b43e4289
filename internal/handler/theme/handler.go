package theme

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
	themeService "github.com/zhouzirui/widget-chat/backend/internal/service/theme"
	"github.com/zhouzirui/widget-chat/backend/pkg/utils"
)

// Handler 主题偏好的HTTP处理器
type Handler struct {
	prefs *themeService.Preferences
}

// New 创建主题处理器
func New(prefs *themeService.Preferences) *Handler {
	return &Handler{prefs: prefs}
}

// RegisterRoutes 注册主题相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/theme", h.handleGet)
	r.Put("/theme", h.handleSet)
	r.Post("/theme/toggle", h.handleToggle)
}

type themeResponse struct {
	Client string       `json:"client"`
	Theme  render.Theme `json:"theme"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	utils.RespondJSON(w, http.StatusOK, themeResponse{Client: client, Theme: h.prefs.Get(r.Context(), client)})
}

// handleSet 保存主题。存储失败不会返回错误，偏好保留在内存中。
func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t := render.Theme(payload.Theme)
	if !t.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}

	client := r.URL.Query().Get("client")
	utils.RespondJSON(w, http.StatusOK, themeResponse{Client: client, Theme: h.prefs.Set(r.Context(), client, t)})
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	client := r.URL.Query().Get("client")
	utils.RespondJSON(w, http.StatusOK, themeResponse{Client: client, Theme: h.prefs.Toggle(r.Context(), client)})
}
