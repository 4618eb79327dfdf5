package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tapilabs/leadsim/internal/backend"
)

// writeBackendError forwards a backend failure: API errors keep their
// status and message, transport failures become a 502.
func writeBackendError(w http.ResponseWriter, err error, generic string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = generic
		}
		Error(w, apiErr.Status, message)
		return
	}
	slog.Error("Backend call failed", "error", err)
	Error(w, http.StatusBadGateway, generic)
}

// HandleListCompanies handles GET /api/admin/companies.
func (h *Handler) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.client.ListCompanies(r.Context())
	if err != nil {
		writeBackendError(w, err, "failed to list companies")
		return
	}
	JSON(w, http.StatusOK, companies)
}

type createCompanyRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateCompany handles POST /api/admin/companies. The company id
// and name are required; the description is optional.
func (h *Handler) HandleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" {
		Error(w, http.StatusBadRequest, "company id and name are required")
		return
	}

	err := h.client.CreateCompany(r.Context(), backend.CompanyRequest{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		writeBackendError(w, err, "failed to create company")
		return
	}

	slog.Info("Company created", "company_id", req.ID)
	JSON(w, http.StatusCreated, map[string]string{"status": "created"})
}
