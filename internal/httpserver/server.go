package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/backend/internal/config"
	authusecase "storefront/backend/internal/usecase/auth"
	bannerusecase "storefront/backend/internal/usecase/banner"
	categoryusecase "storefront/backend/internal/usecase/category"
	productusecase "storefront/backend/internal/usecase/product"
	uploadusecase "storefront/backend/internal/usecase/upload"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer      *http.Server
	router          *http.ServeMux
	authService     *authusecase.Service
	productService  *productusecase.Service
	categoryService *categoryusecase.Service
	bannerService   *bannerusecase.Service
	uploadService   *uploadusecase.Service
	allowedOrigins  []string
	addr            string
}

// Services bundles the use case dependencies of the HTTP layer.
type Services struct {
	Auth     *authusecase.Service
	Product  *productusecase.Service
	Category *categoryusecase.Service
	Banner   *bannerusecase.Service
	Upload   *uploadusecase.Service
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, services Services) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	handler := withLogging(withCORS(mux, cfg.AllowedOrigins))

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:          mux,
		authService:     services.Auth,
		productService:  services.Product,
		categoryService: services.Category,
		bannerService:   services.Banner,
		uploadService:   services.Upload,
		allowedOrigins:  cfg.AllowedOrigins,
		addr:            addr,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the composed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
