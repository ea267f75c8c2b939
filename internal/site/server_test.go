package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, live bool) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	page := "<html><body><pre><code>x</code></pre></body></html>"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewServer(ServerConfig{Dir: dir, LiveReload: live, AllowAll: true}), dir
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, false)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, false)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestColorizeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, false)

	body := strings.NewReader(`{"brackets": "f(a[1} + )", "palette_size": 2}`)
	req := httptest.NewRequest("POST", "/api/colorize", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp colorizeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Tokens != "([})" {
		t.Errorf("tokens = %q", resp.Tokens)
	}
	if !reflect.DeepEqual(resp.Levels, []int{0, 1, 1, 0}) {
		t.Errorf("levels = %v", resp.Levels)
	}
	if !reflect.DeepEqual(resp.Pairs, [][2]int{{0, 3}, {1, 2}}) {
		t.Errorf("pairs = %v", resp.Pairs)
	}
	if !reflect.DeepEqual(resp.Mismatched, [][2]int{{1, 2}}) {
		t.Errorf("mismatched = %v", resp.Mismatched)
	}
	if len(resp.Unmatched) != 0 {
		t.Errorf("unmatched = %v", resp.Unmatched)
	}
}

func TestColorizeDefaultPalette(t *testing.T) {
	got := colorize("((((((((", 0)
	if len(got.Unmatched) != 8 {
		t.Errorf("unmatched = %v, want all 8", got.Unmatched)
	}
	resp := colorize("(((((((())))))))", 7)
	if resp.Levels[7] != 0 {
		t.Errorf("eighth opener level = %d, want wrap to 0", resp.Levels[7])
	}
}

func TestColorizeBadBody(t *testing.T) {
	srv, _ := newTestServer(t, false)
	req := httptest.NewRequest("POST", "/api/colorize", strings.NewReader("{"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStaticInjectsReloadScript(t *testing.T) {
	srv, _ := newTestServer(t, true)

	for _, path := range []string{"/", "/index.html"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		got := w.Body.String()
		script := strings.Index(got, "/ws/reload")
		end := strings.Index(got, "</body>")
		if script < 0 || end < script {
			t.Errorf("%s: reload script not injected before </body>:\n%s", path, got)
		}
	}

	req := httptest.NewRequest("GET", "/style.css", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if strings.Contains(w.Body.String(), "/ws/reload") {
		t.Error("stylesheet should be served untouched")
	}
}

func TestStaticWithoutLiveReload(t *testing.T) {
	srv, _ := newTestServer(t, false)
	req := httptest.NewRequest("GET", "/index.html", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if strings.Contains(w.Body.String(), "/ws/reload") {
		t.Error("reload script injected with live reload off")
	}
}

func TestStaticPageCacheFollowsMtime(t *testing.T) {
	srv, dir := newTestServer(t, true)
	get := func() string {
		req := httptest.NewRequest("GET", "/index.html", nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w.Body.String()
	}

	if got := get(); !strings.Contains(got, "<code>x</code>") {
		t.Fatalf("first response = %q", got)
	}
	if srv.pages.ItemCount() != 1 {
		t.Errorf("cached pages = %d, want 1", srv.pages.ItemCount())
	}

	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte("<html><body><code>y</code></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if got := get(); !strings.Contains(got, "<code>y</code>") {
		t.Errorf("rewritten page served stale: %q", got)
	}

	srv.Reload("run")
	if srv.pages.ItemCount() != 0 {
		t.Errorf("Reload left %d cached pages", srv.pages.ItemCount())
	}
}

func TestInjectReloadWithoutBody(t *testing.T) {
	got := string(injectReload([]byte("<p>fragment</p>")))
	if !strings.HasPrefix(got, "<p>fragment</p>") || !strings.Contains(got, "/ws/reload") {
		t.Errorf("injectReload = %q", got)
	}
}

func TestReloadBroadcast(t *testing.T) {
	srv, _ := newTestServer(t, true)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/reload"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if n := srv.Reload("run-42"); n != 1 {
		t.Errorf("Reload notified %d clients, want 1", n)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg reloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "reload" || msg.RunID != "run-42" {
		t.Errorf("message = %+v", msg)
	}
}
