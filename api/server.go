/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies
  3. Logger:     zap request log (method, path, status, duration)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the frontend

ROUTES:
  /calculate, /history, /clear_history, /health, /api
  /live, /ready, /metrics
  /*            Static files (frontend)

STATIC FILE SERVING:
  Serves Config.StaticDir when it exists, falling back to index.html for
  unknown paths. Without a frontend, / returns a short HTML endpoint list.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: !slices.Contains(h.Config.AllowedOrigins, "*"),
		MaxAge:           300,
	}))

	// API routes
	r.Get("/calculate", h.Calculate)
	r.Post("/calculate", h.Calculate)
	r.Get("/history", h.GetHistory)
	r.Post("/clear_history", h.ClearHistory)
	r.Get("/health", h.Health)
	r.Get("/api", h.Index)

	// Probes and metrics
	r.Get("/live", h.health.LiveEndpoint)
	r.Get("/ready", h.health.ReadyEndpoint)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	mountStatic(r, h.Config.StaticDir)

	return r
}

func mountStatic(r chi.Router, staticDir string) {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			fileServer := http.FileServer(http.Dir(staticDir))
			r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
				fullPath := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))

				// Check if file exists
				if _, err := os.Stat(fullPath); os.IsNotExist(err) {
					http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
					return
				}
				fileServer.ServeHTTP(w, r)
			})
			return
		}
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Simple Calculator API</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Simple Calculator API</h1>
<p>No frontend is installed. Set STATIC_DIR to serve one.</p>
<h2>API Endpoints</h2>
<ul>
<li><code>POST /calculate</code> - Perform calculations</li>
<li><a href="/history">/history</a> - Get calculation history</li>
<li><code>POST /clear_history</code> - Clear calculation history</li>
<li><a href="/health">/health</a> - Health check</li>
<li><a href="/api">/api</a> - API documentation</li>
</ul>
</body>
</html>`))
	})
}

// requestLogger logs one line per request with zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("remote", r.RemoteAddr),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
