// Package preview serves a built site for local inspection.
//
// The server is a thin static file host over the build output
// directory. It performs no building itself: run a build first, then
// point the server at the output root. Directory requests fall back to
// index.html when one exists.
package preview

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vegadoc/vegadoc/pkg/errors"
)

// Server serves a build output directory over HTTP.
type Server struct {
	router chi.Router
	root   string
	log    *log.Logger
}

// NewServer creates a server rooted at the given output directory. The
// directory must exist; building is the caller's job.
func NewServer(root string, logger *log.Logger) (*Server, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "output directory %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeIO, "output path %s is not a directory", root)
	}

	s := &Server{root: root, log: logger}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Root returns the directory being served.
func (s *Server) Root() string { return s.root }

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Get("/*", s.handleFile)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleFile serves files from the output root. FileServer already
// rejects path traversal by cleaning the request path.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.root, filepath.FromSlash(chi.URLParam(r, "*")))

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		index := filepath.Join(path, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}

	http.FileServer(http.Dir(s.root)).ServeHTTP(w, r)
}

// requestLogger logs every request with its status and duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
