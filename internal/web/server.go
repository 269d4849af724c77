package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/example/sevenrooms-watcher/internal/auth"
	"github.com/example/sevenrooms-watcher/internal/scheduler"
)

//go:embed templates/*.html
var fs embed.FS

type StatusSource interface {
	Snapshot() scheduler.State
}

// Server exposes the watcher's last pass over HTTP.
type Server struct {
	Auth     *auth.Store
	Status   StatusSource
	Venue    string
	Interval time.Duration
	Log      *zap.Logger
}

type tmplData struct {
	Title       string
	Flash       string
	Venue       string
	Interval    time.Duration
	State       scheduler.State
	AuthEnabled bool
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.With(s.Auth.RequireAuth).Get("/", s.handleStatus)
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.render(w, "templates/status.html", tmplData{
		Title:       "Status",
		Venue:       s.Venue,
		Interval:    s.Interval,
		State:       s.Status.Snapshot(),
		AuthEnabled: s.Auth.Enabled(),
	})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "templates/login.html", tmplData{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Auth.Authenticate(r.FormValue("password")); err != nil {
		s.Log.Warn("status login rejected", zap.String("remote", r.RemoteAddr))
		s.renderStatus(w, http.StatusUnauthorized, "templates/login.html", tmplData{Title: "Login", Flash: "Invalid password"})
		return
	}
	if err := s.Auth.SetSession(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, name string, data tmplData) {
	s.renderStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, code int, name string, data tmplData) {
	t, err := template.ParseFS(fs, "templates/base.html", name)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// Start serves h on addr until ctx is cancelled.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("status server shutdown error", zap.Error(err))
		}
	}()
	log.Info("status server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
