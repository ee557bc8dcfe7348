package web

import (
	"errors"
	"net/http"

	"recordshop-be/internal/catalog"
	"recordshop-be/internal/cms"
	"recordshop-be/internal/logger"
	"recordshop-be/internal/metrics"
	"recordshop-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	catalog        catalog.Service
	health         *cms.Health
	metrics        *metrics.Gateway
	limiter        *middleware.RateLimiter
	allowedOrigins []string
}

type Dependencies struct {
	Catalog catalog.Service
	Health  *cms.Health

	// Metrics, when set, is reported on the readiness probe.
	Metrics *metrics.Gateway

	// RateLimiter may be nil to disable limiting.
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		catalog:        deps.Catalog,
		health:         deps.Health,
		metrics:        deps.Metrics,
		limiter:        deps.RateLimiter,
		allowedOrigins: deps.AllowedOrigins,
	}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(h.allowedOrigins))
	r.Use(h.limiter.Handler)

	r.Get("/health", h.handleHealth)
	r.Get("/readyz", h.handleReady)

	r.Get("/", h.handleHome)
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{slug}", h.handleShowProduct)
	r.Get("/about", h.handleStatic(componentAbout))
	r.Get("/cart", h.handleStatic(componentCart))
	r.Get("/search/suggest", h.handleSuggest)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, http.StatusNotFound)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type readiness struct {
	Status string                   `json:"status"`
	CMS    cms.HealthSnapshot       `json:"cms"`
	Calls  *metrics.GatewaySnapshot `json:"calls,omitempty"`
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	body := readiness{Status: "ok", CMS: h.health.Snapshot()}
	if h.metrics != nil {
		calls := h.metrics.Snapshot()
		body.Calls = &calls
	}

	status := http.StatusOK
	if !body.CMS.Available {
		body.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, body)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, componentWelcome, h.catalog.HomePage(r.Context()))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, componentProducts, h.catalog.ListingPage(r.Context(), r.URL.Query()))
}

func (h *Handler) handleShowProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.ProductPage(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		renderError(w, r, http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, http.StatusOK, componentProductShow, map[string]any{"product": p})
}

func (h *Handler) handleStatic(component string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, http.StatusOK, component, nil)
	}
}

// handleSuggest answers with a bare array, not a page payload.
func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.catalog.Suggest(r.Context(), r.URL.Query().Get("q")))
}
