package theme

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
	themeService "github.com/zhouzirui/widget-chat/backend/internal/service/theme"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store, err := themeService.OpenMemPebbleStore()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	r := chi.NewRouter()
	New(themeService.NewPreferences(store, nil)).RegisterRoutes(r)
	return r
}

func call(r http.Handler, method, path, body string) themeResponse {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	var out themeResponse
	json.Unmarshal(resp.Body.Bytes(), &out)
	return out
}

func TestThemeDefaultsToLight(t *testing.T) {
	r := setupRouter(t)
	if got := call(r, http.MethodGet, "/theme?client=a", "").Theme; got != render.ThemeLight {
		t.Fatalf("expected light, got %s", got)
	}
}

func TestThemeSetAndToggle(t *testing.T) {
	r := setupRouter(t)

	if got := call(r, http.MethodPut, "/theme?client=a", `{"theme":"dark"}`).Theme; got != render.ThemeDark {
		t.Fatalf("expected dark, got %s", got)
	}
	if got := call(r, http.MethodGet, "/theme?client=a", "").Theme; got != render.ThemeDark {
		t.Fatalf("expected stored dark, got %s", got)
	}
	if got := call(r, http.MethodGet, "/theme?client=b", "").Theme; got != render.ThemeLight {
		t.Fatalf("other clients must stay light, got %s", got)
	}
	if got := call(r, http.MethodPost, "/theme/toggle?client=a", "").Theme; got != render.ThemeLight {
		t.Fatalf("expected toggle back to light, got %s", got)
	}
}

func TestThemeRejectsUnknown(t *testing.T) {
	r := setupRouter(t)
	req := httptest.NewRequest(http.MethodPut, "/theme?client=a", strings.NewReader(`{"theme":"sepia"}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
