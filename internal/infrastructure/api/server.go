// Package api exposes the admin API, the app proxy endpoints used by the
// storefront widget and the Shopify webhook receiver.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	// AppProxyPrefix must match the subpath configured for the app proxy
	AppProxyPrefix = "/apps/bundles"

	defaultSwaggerFile = "./docs/swagger.json"
	maxBodyBytes       = 1 << 20
)

// RequestVerifier checks Shopify signatures on inbound requests
type RequestVerifier interface {
	VerifyWebhook(r *http.Request) bool
	VerifyAppProxy(u *url.URL) bool
}

// HTTPMetrics instruments the router and serves the scrape endpoint
type HTTPMetrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// Options wires the server to the application services
type Options struct {
	Bundles    *application.BundleService
	Catalog    *application.CatalogService
	Analytics  *application.AnalyticsService
	Shopify    *application.ShopifyService
	Dispatcher *application.WebhookDispatcher

	// Publisher receives verified webhooks for asynchronous handling. When
	// nil, webhooks are dispatched inline before responding.
	Publisher ports.WebhookPublisher

	// Verifier is required for webhooks; without it deliveries are accepted
	// unverified, which is only suitable for local development.
	Verifier       RequestVerifier
	VerifyAppProxy bool

	Metrics     HTTPMetrics
	SwaggerFile string
	Logger      zerolog.Logger
}

// Server holds the HTTP handlers
type Server struct {
	opts         Options
	bundleSchema *jsonschema.Schema
	logger       zerolog.Logger
}

// NewServer creates the HTTP server handlers
func NewServer(opts Options) (*Server, error) {
	schema, err := compileBundleSchema()
	if err != nil {
		return nil, err
	}
	if opts.SwaggerFile == "" {
		opts.SwaggerFile = defaultSwaggerFile
	}
	return &Server{
		opts:         opts,
		bundleSchema: schema,
		logger:       opts.Logger,
	}, nil
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, s.opts.SwaggerFile)
	})

	r.Post("/webhooks/shopify", s.handleWebhook)

	// Admin API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(shopDomainMiddleware)

		r.Put("/shop", s.handleRegisterShop)

		r.Route("/bundles", func(r chi.Router) {
			r.Get("/", s.handleListBundles)
			r.Post("/", s.handleCreateBundle)
			r.Post("/preview", s.handlePreview)
			r.Get("/{id}", s.handleGetBundle)
			r.Put("/{id}", s.handleUpdateBundle)
			r.Delete("/{id}", s.handleDeleteBundle)
		})
	})

	// App proxy, called by the storefront widget
	r.Route(AppProxyPrefix, func(r chi.Router) {
		r.Use(appProxyMiddleware(s.opts.Verifier, s.opts.VerifyAppProxy, s.logger))

		r.Get("/bundles/{id}", s.handleProxyBundle)
		r.Get("/bundles/{id}/products", s.handleProxyBundleProducts)
		r.Get("/products/{productId}/variants", s.handleProxyVariants)
		r.Post("/analytics", s.handleProxyAnalytics)
	})

	return r
}
