package web

import (
	"encoding/json"
	"net/http"

	"recordshop-be/internal/logger"

	"go.uber.org/zap"
)

const (
	componentWelcome     = "welcome"
	componentProducts    = "products"
	componentProductShow = "products/show"
	componentAbout       = "about"
	componentCart        = "cart"
	componentError       = "error"
)

// Page is the payload the client-side renderer consumes.
type Page struct {
	Component string `json:"component"`
	Props     any    `json:"props"`
	URL       string `json:"url"`
}

type errorProps struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromCtx(r.Context()).Error("failed to encode response", zap.Error(err))
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, component string, props any) {
	if props == nil {
		props = struct{}{}
	}
	writeJSON(w, r, status, Page{
		Component: component,
		Props:     props,
		URL:       r.URL.RequestURI(),
	})
}

func renderError(w http.ResponseWriter, r *http.Request, status int) {
	renderPage(w, r, status, componentError, errorProps{
		Status:  status,
		Message: http.StatusText(status),
	})
}
