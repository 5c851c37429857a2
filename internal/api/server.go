// Package api exposes the QuillPress services as typed huma operations over chi.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quillpress/quillpress-server/internal/http/response"
	"github.com/quillpress/quillpress-server/internal/ratelimit"
	"github.com/quillpress/quillpress-server/internal/service"
)

const loginPath = "/api/v1/auth/login"

// bearerSecurity marks an operation as requiring a bearer token.
var bearerSecurity = []map[string][]string{{"bearer": {}}}

// Services groups the business services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Categories *service.CategoryService
	Tags       *service.TagService
	Posts      *service.PostService
	AdSense    *service.AdSenseService
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tune the HTTP surface.
type Options struct {
	Version     string
	CORSOrigins []string
	// LoginRatePerMinute and LoginBurst throttle login attempts per client IP.
	LoginRatePerMinute int
	LoginBurst         int
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For and X-Real-IP.
	TrustProxy bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	pinger       Pinger
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	loginLimiter *RateLimiter
	version      string
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(services *Services, pinger Pinger, opts Options, logger *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.LoginRatePerMinute <= 0 {
		opts.LoginRatePerMinute = 10
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		services:     services,
		pinger:       pinger,
		router:       chi.NewRouter(),
		logger:       logger,
		loginLimiter: ratelimit.New(ratelimit.PerMinute(opts.LoginRatePerMinute), opts.LoginBurst),
		version:      opts.Version,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("QuillPress API", opts.Version)
	// Drop the $schema link transformer; responses use the envelope only.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.router.Get("/health", s.handleHealthCheck)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.Method+" "+r.URL.Path, s.logger)
	})

	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()
	s.registerPostRoutes()
	s.registerAdSenseRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, e.g. for exporting the OpenAPI document.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(s.limitLogin)
	s.router.Use(authMiddleware(s.services.Auth))
}

// limitLogin throttles login attempts per client IP.
func (s *Server) limitLogin(next http.Handler) http.Handler {
	limited := RateLimitMiddleware(s.loginLimiter, s.logger)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == loginPath {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
