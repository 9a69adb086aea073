// ABOUTME: JSON HTTP API over per-user CRM sessions
// ABOUTME: Sessions are created lazily on a user's first authenticated request
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/harperreed/solocrm/auth"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/models"
)

// defaultMaxImportBytes caps the body of an import request.
const defaultMaxImportBytes = 10 << 20

type Server struct {
	backend   crm.Backend
	auth      *auth.Authenticator
	logger    *log.Logger
	defaultTZ string
	now       func() time.Time

	maxImportBytes int64

	mu       sync.Mutex
	sessions map[string]*crm.Session
}

func NewServer(backend crm.Backend, authenticator *auth.Authenticator, logger *log.Logger, defaultTZ string) *Server {
	return &Server{
		backend:   backend,
		auth:      authenticator,
		logger:    logger,
		defaultTZ: defaultTZ,
		now:       time.Now,
		sessions:  make(map[string]*crm.Session),

		maxImportBytes: defaultMaxImportBytes,
	}
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", s.listContacts)
			r.Post("/", s.createContact)
			r.Put("/{id}", s.updateContact)
			r.Delete("/{id}", s.deleteContact)
		})
		r.Route("/interactions", func(r chi.Router) {
			r.Get("/", s.listInteractions)
			r.Post("/", s.createInteraction)
			r.Put("/{id}", s.updateInteraction)
			r.Delete("/{id}", s.deleteInteraction)
		})

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.updateSettings)
		r.Get("/activity", s.listActivity)
		r.Delete("/activity", s.clearActivity)
		r.Get("/export", s.exportData)
		r.Post("/import", s.importData)
		r.Get("/analytics", s.analytics)
		r.Get("/timezones", s.timezones)
		r.Post("/reload", s.reload)
	})
	return r
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

// sessionFor returns the user's session, signing it in on first use.
func (s *Server) sessionFor(ctx context.Context, user models.User) (*crm.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[user.ID]; ok {
		return session, nil
	}
	session := crm.NewSession(s.backend, s.logger.With("user", user.ID),
		crm.WithDefaultTimezone(s.defaultTZ),
		crm.WithClock(s.now))
	if err := session.SignIn(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	s.sessions[user.ID] = session
	return session, nil
}

// withSession resolves the caller's session or writes the error response.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request) (*crm.Session, bool) {
	user, ok := userFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or missing credentials")
		return nil, false
	}
	session, err := s.sessionFor(r.Context(), user)
	if err != nil {
		s.writeErr(w, err)
		return nil, false
	}
	return session, true
}
