package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ziadkadry99/codetint/internal/brackets"
	"github.com/ziadkadry99/codetint/internal/walker"
)

// maxColorizeInput bounds the /api/colorize request body.
const maxColorizeInput = 1 << 20

const (
	pageCacheExpiration = 10 * time.Minute
	pageCacheCleanup    = 30 * time.Minute
)

// ServerConfig holds dev server configuration.
type ServerConfig struct {
	Dir         string // Directory of pages to serve.
	Port        int
	LiveReload  bool // Inject the reload script and accept /ws/reload.
	AllowAll    bool // Allow all CORS origins.
	PaletteSize int  // Default palette size for /api/colorize.
}

// Server serves an enhanced site with live reload and the colorize API.
type Server struct {
	cfg        ServerConfig
	hub        *Hub
	files      http.Handler
	pages      *gocache.Cache // Injected pages keyed by path and mtime.
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a Server for cfg.
func NewServer(cfg ServerConfig) *Server {
	if cfg.PaletteSize <= 0 {
		cfg.PaletteSize = 7
	}
	s := &Server{
		cfg:   cfg,
		hub:   NewHub(),
		files: http.FileServer(http.Dir(cfg.Dir)),
		pages: gocache.New(pageCacheExpiration, pageCacheCleanup),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Post("/api/colorize", s.handleColorize)
	})

	if s.cfg.LiveReload {
		r.Get("/ws/reload", s.hub.handleWebSocket)
	}

	r.Get("/*", s.handleStatic)
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Reload drops cached pages and notifies connected browsers that runID
// finished.
func (s *Server) Reload(runID string) int {
	s.pages.Flush()
	return s.hub.Broadcast(runID)
}

// URL is the address browsers should open.
func (s *Server) URL() string { return fmt.Sprintf("http://localhost:%d", s.cfg.Port) }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("codetint serving %s on %s", s.cfg.Dir, addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// colorizeRequest is the JSON body for /api/colorize.
type colorizeRequest struct {
	Brackets    string `json:"brackets"`
	PaletteSize int    `json:"palette_size,omitempty"`
}

// colorizeResponse reports the assignment for the bracket characters of the
// request, in order.
type colorizeResponse struct {
	Tokens     string   `json:"tokens"`
	Levels     []int    `json:"levels"`
	Pairs      [][2]int `json:"pairs"`
	Unmatched  []int    `json:"unmatched"`
	Mismatched [][2]int `json:"mismatched"`
}

func (s *Server) handleColorize(w http.ResponseWriter, r *http.Request) {
	var req colorizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxColorizeInput)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	size := req.PaletteSize
	if size <= 0 {
		size = s.cfg.PaletteSize
	}
	writeJSON(w, http.StatusOK, colorize(req.Brackets, size))
}

// colorize runs the matcher over text and shapes the result for JSON.
func colorize(text string, paletteSize int) colorizeResponse {
	tokens := brackets.FromString(text)
	res := brackets.Colorize(tokens, paletteSize)

	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteRune(t.Char)
	}
	resp := colorizeResponse{
		Tokens:     sb.String(),
		Levels:     res.Levels,
		Pairs:      [][2]int{},
		Unmatched:  res.Unmatched,
		Mismatched: brackets.Mismatched(tokens, res),
	}
	for i := range tokens {
		if j, ok := res.Pairs[i]; ok && i < j {
			resp.Pairs = append(resp.Pairs, [2]int{i, j})
		}
	}
	if resp.Unmatched == nil {
		resp.Unmatched = []int{}
	}
	if resp.Mismatched == nil {
		resp.Mismatched = [][2]int{}
	}
	return resp
}

// handleStatic serves files from the site directory, injecting the reload
// script into HTML pages when live reload is on.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.LiveReload {
		s.files.ServeHTTP(w, r)
		return
	}

	name := r.URL.Path
	if strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	if !walker.IsPage(name) {
		s.files.ServeHTTP(w, r)
		return
	}

	f, err := http.Dir(s.cfg.Dir).Open(name)
	if err != nil {
		s.files.ServeHTTP(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.files.ServeHTTP(w, r)
		return
	}

	key := fmt.Sprintf("%s@%d", name, info.ModTime().UnixNano())
	page, ok := s.pages.Get(key)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "reading page", http.StatusInternalServerError)
			return
		}
		page = injectReload(data)
		s.pages.Set(key, page, gocache.DefaultExpiration)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(page.([]byte))
}

// injectReload inserts the reload script before the last </body>, or
// appends it when the page has none.
func injectReload(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(append([]byte(nil), page...), reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:idx]...)
	out = append(out, reloadScript...)
	return append(out, page[idx:]...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
