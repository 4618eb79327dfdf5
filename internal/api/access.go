package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tapilabs/leadsim/internal/backend"
	"github.com/tapilabs/leadsim/internal/domain"
)

const genericVerifyError = "Verifying the access code failed."

// accessStatus is the gate decision: with stored credentials the shell
// renders the wizard, without them the code-exchange screen.
type accessStatus struct {
	Authorized   bool   `json:"authorized"`
	CompanyID    string `json:"company_id,omitempty"`
	CampaignCode string `json:"campaign_code,omitempty"`
}

// HandleAccessStatus handles GET /api/access. Absent credentials are not an
// error, just the default state.
func (h *Handler) HandleAccessStatus(w http.ResponseWriter, r *http.Request) {
	creds, err := h.repo.GetCredentials(r.Context())
	if err != nil {
		slog.Error("Failed to read credentials", "error", err)
		Error(w, http.StatusInternalServerError, "failed to read access state")
		return
	}

	status := accessStatus{}
	if creds.Valid() {
		status.Authorized = true
		status.CompanyID = creds.CompanyID
		status.CampaignCode = creds.CampaignCode
	}
	JSON(w, http.StatusOK, status)
}

type verifyCodeRequest struct {
	CompanyID    string `json:"company_id"`
	CampaignCode string `json:"campaign_code"`
	AccessCode   string `json:"access_code"`
}

// HandleVerifyCode handles POST /api/access/verify. Local validation runs
// first and fails fast without touching the backend; missing launch
// identifiers and a missing code are reported as distinct problems.
func (h *Handler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CompanyID == "" || req.CampaignCode == "" {
		Error(w, http.StatusBadRequest, "The launch link is missing the company or campaign identifier. Ask your program contact for a fresh link.")
		return
	}
	if len(req.AccessCode) < 4 {
		Error(w, http.StatusBadRequest, "Enter your access code.")
		return
	}

	grant, err := h.client.VerifyAccess(r.Context(), backend.VerifyRequest{
		CompanyID:    req.CompanyID,
		CampaignCode: req.CampaignCode,
		AccessCode:   req.AccessCode,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			message := apiErr.Message
			if message == "" {
				message = genericVerifyError
			}
			Error(w, http.StatusUnauthorized, message)
			return
		}
		slog.Error("Access verification call failed", "error", err)
		Error(w, http.StatusBadGateway, genericVerifyError)
		return
	}

	creds := &domain.Credentials{
		AccessToken:  grant.AccessToken,
		CompanyID:    grant.CompanyID,
		CampaignCode: grant.CampaignCode,
		IssuedAt:     time.Now(),
	}
	if err := h.repo.SaveCredentials(r.Context(), creds); err != nil {
		slog.Error("Failed to persist credentials", "error", err)
		Error(w, http.StatusInternalServerError, "failed to store access credentials")
		return
	}
	h.client.SetAccessToken(grant.AccessToken)

	slog.Info("Access code verified", "company_id", grant.CompanyID, "campaign_code", grant.CampaignCode)
	JSON(w, http.StatusOK, accessStatus{
		Authorized:   true,
		CompanyID:    grant.CompanyID,
		CampaignCode: grant.CampaignCode,
	})
}
