// Package api provides HTTP handlers for the simulator gateway.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tapilabs/leadsim/internal/backend"
	"github.com/tapilabs/leadsim/internal/config"
	"github.com/tapilabs/leadsim/internal/store"
	"github.com/tapilabs/leadsim/internal/wizard"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// Handler serves the gateway API: the access gate, the wizard flow, and the
// admin proxy.
type Handler struct {
	repo    store.Repository
	client  *backend.Client
	wizards *wizard.Manager
	svc     *wizard.Service
	cfg     *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, client *backend.Client, wizards *wizard.Manager, svc *wizard.Service, cfg *config.Config) *Handler {
	return &Handler{
		repo:    repo,
		client:  client,
		wizards: wizards,
		svc:     svc,
		cfg:     cfg,
	}
}

// RegisterRoutes registers all gateway routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/access", h.HandleAccessStatus)
		r.Post("/access/verify", h.HandleVerifyCode)

		r.Get("/catalog", h.HandleCatalog)
		r.Get("/catalog/topics/{topicID}/situations", h.HandleSituations)

		r.Route("/wizard", func(r chi.Router) {
			r.Get("/", h.HandleWizardState)
			r.Post("/next", h.HandleAdvance)
			r.Post("/back", h.HandleRetreat)
			r.Post("/restart", h.HandleRestart)
			r.Post("/topic", h.HandleSelectTopic)
			r.Post("/persona", h.HandleSelectPersona)
			r.Post("/situation", h.HandleSelectSituation)
			r.Post("/agenda", h.HandleAgenda)
			r.Post("/chat", h.HandleChat)
			r.Get("/report", h.HandleReport)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/companies", h.HandleListCompanies)
			r.Post("/companies", h.HandleCreateCompany)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a size-capped JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
