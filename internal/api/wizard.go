package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tapilabs/leadsim/internal/identity"
	"github.com/tapilabs/leadsim/internal/wizard"
)

// session resolves the participant's wizard session from the request
// context, creating one on first contact.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *wizard.Session {
	participantID := identity.ParticipantIDFromContext(r.Context())
	if participantID == "" {
		Error(w, http.StatusUnauthorized, "no participant identity")
		return nil
	}
	return h.wizards.GetOrCreate(participantID)
}

// writeWizardError maps wizard errors: blocked transitions and rejected
// input carry a user-facing message, everything else is internal.
func writeWizardError(w http.ResponseWriter, err error) {
	var validation *wizard.ValidationError
	if errors.As(err, &validation) {
		Error(w, http.StatusUnprocessableEntity, validation.Reason)
		return
	}
	slog.Error("Wizard operation failed", "error", err)
	Error(w, http.StatusInternalServerError, "wizard operation failed")
}

// HandleWizardState handles GET /api/wizard.
func (h *Handler) HandleWizardState(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	JSON(w, http.StatusOK, sess.Snapshot())
}

// HandleAdvance handles POST /api/wizard/next.
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if _, err := sess.Advance(); err != nil {
		writeWizardError(w, err)
		return
	}
	JSON(w, http.StatusOK, sess.Snapshot())
}

// HandleRetreat handles POST /api/wizard/back.
func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.Retreat()
	JSON(w, http.StatusOK, sess.Snapshot())
}

// HandleRestart handles POST /api/wizard/restart.
func (h *Handler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.Restart()
	JSON(w, http.StatusOK, sess.Snapshot())
}

type selectRequest struct {
	ID string `json:"id"`
}

// HandleSelectTopic handles POST /api/wizard/topic.
func (h *Handler) HandleSelectTopic(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := sess.SelectTopic(req.ID); err != nil {
		writeWizardError(w, err)
		return
	}
	JSON(w, http.StatusOK, sess.Snapshot())
}

// HandleSelectPersona handles POST /api/wizard/persona.
func (h *Handler) HandleSelectPersona(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := sess.SelectPersona(req.ID); err != nil {
		writeWizardError(w, err)
		return
	}
	JSON(w, http.StatusOK, sess.Snapshot())
}

// HandleSelectSituation handles POST /api/wizard/situation.
func (h *Handler) HandleSelectSituation(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := sess.SelectSituation(req.ID); err != nil {
		writeWizardError(w, err)
		return
	}
	JSON(w, http.StatusOK, sess.Snapshot())
}

type agendaRequest struct {
	Text string `json:"text"`
}

// HandleAgenda handles POST /api/wizard/agenda.
func (h *Handler) HandleAgenda(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req agendaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess.SetAgenda(req.Text)
	JSON(w, http.StatusOK, sess.Snapshot())
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat handles POST /api/wizard/chat: one leader turn in, the
// persona's reply (or the failure placeholder) out.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slog.Info("Chat turn", "session_id", sess.ID, "message_length", len(req.Message))

	turn, err := h.svc.SendTurn(r.Context(), sess, req.Message)
	if err != nil {
		writeWizardError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"reply":    turn,
		"snapshot": sess.Snapshot(),
	})
}

// HandleReport handles GET /api/wizard/report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	state, err := h.svc.Report(r.Context(), sess)
	if err != nil {
		writeWizardError(w, err)
		return
	}
	JSON(w, http.StatusOK, state)
}
