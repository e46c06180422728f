package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/catalog-chat/server/internal/chat"
	"github.com/catalog-chat/server/internal/media"
	"github.com/catalog-chat/server/internal/metrics"
	"github.com/catalog-chat/server/internal/store"
	logx "github.com/catalog-chat/server/pkg/logger"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr           string   `envconfig:"HTTP_ADDR" default:":5000"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MaxUploadMB    int64    `envconfig:"MAX_UPLOAD_MB" default:"32"`
}

// Server wires the chat and admin handlers onto a mux router.
type Server struct {
	cfg     Config
	router  *mux.Router
	chat    *chat.Service
	library *media.Library
	store   store.Store
}

func NewServer(cfg Config, chatSvc *chat.Service, library *media.Library, s store.Store) *Server {
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 32
	}
	srv := &Server{
		cfg:     cfg,
		router:  mux.NewRouter(),
		chat:    chatSvc,
		library: library,
		store:   s,
	}
	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	s.router.Use(requestIDMiddleware, accessLogMiddleware, recoverMiddleware)

	s.router.HandleFunc("/chat", s.chatHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/widget", s.widgetHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	admin := s.router.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/settings", s.getSettingsHandler).Methods(http.MethodGet)
	admin.HandleFunc("/settings", s.updateSettingsHandler).Methods(http.MethodPost)
	admin.HandleFunc("/images", s.uploadHandler(media.Images, "image_file", "tags")).Methods(http.MethodPost)
	admin.HandleFunc("/images/{filename}", s.deleteHandler(media.Images)).Methods(http.MethodDelete)
	admin.HandleFunc("/images/{filename}/delete", s.deleteHandler(media.Images)).Methods(http.MethodPost)
	admin.HandleFunc("/documents", s.uploadHandler(media.Documents, "doc_file", "doc_tags")).Methods(http.MethodPost)
	admin.HandleFunc("/documents/{filename}", s.deleteHandler(media.Documents)).Methods(http.MethodDelete)
	admin.HandleFunc("/documents/{filename}/delete", s.deleteHandler(media.Documents)).Methods(http.MethodPost)

	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(s.library.Root()))),
	).Methods(http.MethodGet, http.MethodHead)
}

// Handler returns the router wrapped with CORS for the embeddable widget.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(s.router)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// The upstream call alone may take 30s.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
