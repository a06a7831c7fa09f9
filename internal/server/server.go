package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/userhub/services/config"
	"github.com/userhub/services/internal/client"
	"github.com/userhub/services/internal/db"
	"github.com/userhub/services/internal/handlers"
	"github.com/userhub/services/internal/mq"
	"github.com/userhub/services/internal/services"
	"github.com/userhub/services/internal/storage"
	"github.com/userhub/services/internal/store"
	"github.com/userhub/services/internal/token"
)

// Server wraps an HTTP server, its router and shared resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
}

// NewAuth constructs the account/authentication service.
func NewAuth(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL, slog.Default())
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	queue, err := mq.NewFromConfig(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	accountRepo := store.NewAccountRepository(dbConn)
	audit := services.NewAuditPublisher(queue, cfg.MQ.AuditTopic, slog.Default())
	accountService := services.NewAccountService(accountRepo, issuer, audit, slog.Default())

	if err := accountService.EnsureAdmin(ctx, cfg.Admin.Login, cfg.Admin.Password); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("admin bootstrap failed: %w", err)
	}

	router := newRouter(issuer)
	router.Route("/api/auth", func(r chi.Router) {
		handlers.AuthRouter(r, accountService)
	})
	router.Route("/internal/auth/account", func(r chi.Router) {
		handlers.InternalAccountRouter(r, accountService)
	})

	return newServer(cfg.AuthPort, router, dbConn, queue), nil
}

// NewProfile constructs the user-profile service.
func NewProfile(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL, slog.Default())
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	accountClient, err := client.NewAccountClient(cfg.AuthService)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	photoStorage, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	profileRepo := store.NewProfileRepository(dbConn)
	profileService := services.NewProfileService(profileRepo, accountClient, photoStorage, slog.Default())

	router := newRouter(issuer)
	router.Route("/api/users", func(r chi.Router) {
		handlers.ProfileRouter(r, profileService)
	})

	return newServer(cfg.ProfilePort, router, dbConn, nil), nil
}

func newRouter(issuer *token.Issuer) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		handlers.Identity(issuer),
	)
	router.Get("/healthz", handlers.Healthz)
	return router
}

func newServer(port int, router *chi.Mux, dbConn *sql.DB, queue *mq.MQ) *Server {
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
