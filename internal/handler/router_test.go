package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zhouzirui/crud-games/backend/internal/model/game"
	gamesService "github.com/zhouzirui/crud-games/backend/internal/service/games"
)

func setupRouter() (http.Handler, *game.MemoryStore) {
	store := game.NewMemoryStore()
	svc := gamesService.NewService(store, nil)
	router := NewRouter(Options{Logger: zerolog.New(io.Discard), CORSAllowedOrigins: []string{"*"}}, svc, nil)
	return router, store
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func messageOf(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestRootGreeting(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodGet, "/", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if msg := messageOf(t, resp); msg != "Hello world 🤣🤣!" {
		t.Fatalf("unexpected greeting %q", msg)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestHealthReportsCount(t *testing.T) {
	r, store := setupRouter()
	store.Put(game.Game{ID: "1", Name: "Chess", Image: "https://example.com/chess.png"})

	resp := serve(r, http.MethodGet, "/health", "")

	var body struct {
		Status string `json:"status"`
		Games  int    `json:"games"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Games != 1 {
		t.Fatalf("unexpected health %+v", body)
	}
}

func TestFullLifecycle(t *testing.T) {
	r, _ := setupRouter()

	created := serve(r, http.MethodPost, "/Games", `{"name":"Chess","image":"https://example.com/chess.png"}`)
	if created.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", created.Code, created.Body.String())
	}
	var chess game.Game
	if err := json.Unmarshal(created.Body.Bytes(), &chess); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	deleted := serve(r, http.MethodDelete, "/Games/"+chess.ID, "")
	if deleted.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", deleted.Code)
	}

	again := serve(r, http.MethodDelete, "/Games/"+chess.ID, "")
	if again.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", again.Code)
	}
	if msg := messageOf(t, again); msg != "Not Found! 🤢" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r, _ := setupRouter()

	missing := serve(r, http.MethodGet, "/nope", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
	if msg := messageOf(t, missing); msg != "Not Found" {
		t.Fatalf("unexpected message %q", msg)
	}

	wrongVerb := serve(r, http.MethodPut, "/Games", "{}")
	if wrongVerb.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", wrongVerb.Code)
	}
	if msg := messageOf(t, wrongVerb); msg != "Method Not Allowed" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestMethodNotAllowedListsAllowedMethods(t *testing.T) {
	r, _ := setupRouter()

	tests := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodPut, "/Games", "GET, POST"},
		{http.MethodPatch, "/Games", "GET, POST"},
		{http.MethodGet, "/Games/chess", "DELETE"},
		{http.MethodPost, "/", "GET"},
	}

	for _, tt := range tests {
		resp := serve(r, tt.method, tt.path, "")
		if resp.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tt.method, tt.path, resp.Code)
		}
		if got := resp.Header().Get("Allow"); got != tt.allow {
			t.Fatalf("%s %s: expected Allow %q, got %q", tt.method, tt.path, tt.allow, got)
		}
	}
}

func TestPlainOptionsAnswersAllow(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodOptions, "/Games", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Allow"); got != "GET, POST" {
		t.Fatalf("unexpected Allow %q", got)
	}

	missing := serve(r, http.MethodOptions, "/nope", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", missing.Code)
	}
}

func TestFeedsNotMountedWithoutHub(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodGet, "/Games/stream", "")
	if resp.Code != http.StatusMethodNotAllowed && resp.Code != http.StatusNotFound {
		t.Fatalf("expected feed route to be absent, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/Games", nil)
	req.Header.Set("Origin", "https://games.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
