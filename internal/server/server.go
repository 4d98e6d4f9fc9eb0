package server

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medialist/medialist-go/internal/config"
	"github.com/medialist/medialist-go/internal/crypto"
	"github.com/medialist/medialist-go/internal/handler"
	"github.com/medialist/medialist-go/internal/middleware"
	"github.com/medialist/medialist-go/internal/repository"
	"github.com/medialist/medialist-go/internal/service"
)

// Login routes allow a short burst per client IP.
const (
	authRPS   = 1
	authBurst = 10
)

type Server struct {
	cfg         config.Config
	sessions    *service.SessionService
	rateLimiter *middleware.RateLimiter
	authH       *handler.AuthHandler
	userH       *handler.UserHandler
	mediaH      *handler.MediaListHandler
	pageH       *handler.PageHandler
	logger      *slog.Logger
}

// New wires repositories, services and handlers on top of db. A nil provider
// leaves the login routes in their "not configured" state.
func New(cfg config.Config, db *sql.DB, dialect repository.Dialect, provider handler.Provider, logger *slog.Logger) (*Server, error) {
	key, err := crypto.DeriveKey(cfg.Session.Secret, crypto.PurposeSessionToken)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}

	userRepo := repository.NewUserRepository(db, dialect)
	sessionRepo := repository.NewSessionRepository(db)
	mediaRepo := repository.NewMediaRepository(db, dialect)

	identity := service.NewIdentityService(userRepo)
	sessions := service.NewSessionService(sessionRepo, userRepo, key, cfg.Session.TTL)
	mediaList := service.NewMediaListService(mediaRepo)

	return &Server{
		cfg:         cfg,
		sessions:    sessions,
		rateLimiter: middleware.NewRateLimiter(authRPS, authBurst),
		authH:       handler.NewAuthHandler(provider, identity, sessions, cfg.SecureCookies(), logger.With("component", "auth")),
		userH:       handler.NewUserHandler(),
		mediaH:      handler.NewMediaListHandler(mediaList, !cfg.IsProduction(), logger.With("component", "medialist")),
		pageH:       handler.NewPageHandler(cfg.StaticDir),
		logger:      logger,
	}, nil
}

func (s *Server) Sessions() *service.SessionService {
	return s.sessions
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", s.healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware)
		r.Get("/auth/google", s.authH.HandleLogin)
		r.Get("/auth/google/callback", s.authH.HandleCallback)
	})
	r.Get("/auth/logout", s.authH.HandleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(s.sessions, s.logger))
		r.Use(middleware.RequireUser)
		r.Get("/user", s.userH.HandleMe)
		r.Get("/user/medialist", s.mediaH.HandleList)
		r.Post("/user/medialist", s.mediaH.HandleWrite)
	})

	for path, h := range s.pageH.Routes() {
		r.Get(path, h)
	}
	r.Get("/profile.html", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/profile", http.StatusFound)
	})
	r.Handle("/*", s.pageH.Assets())

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
