// Package identity provides anonymous per-device participant identity.
// Each participant gets one wizard session; the cookie makes it survive
// page reloads without any account system.
package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// ParticipantCookieName carries the participant id between requests.
	ParticipantCookieName = "leadsim_participant_id"
	// ParticipantHeaderName lets non-browser clients supply the id directly.
	ParticipantHeaderName = "X-Participant-ID"

	participantCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const participantIDKey contextKey = iota

// ParticipantIDFromContext extracts the participant id from the request
// context.
func ParticipantIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(participantIDKey).(string); ok {
		return v
	}
	return ""
}

func isValidParticipantID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func setParticipantCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ParticipantCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(participantCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(participantCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func participantIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(ParticipantHeaderName); isValidParticipantID(id) {
		return id
	}
	if c, err := r.Cookie(ParticipantCookieName); err == nil && isValidParticipantID(c.Value) {
		return c.Value
	}
	return ""
}

// Middleware injects a participant id into the request context, minting a
// new one (and setting the cookie) when the request carries none.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := participantIDFromRequest(r)
			if id == "" {
				id = uuid.NewString()
			}
			setParticipantCookie(w, id, isDev)

			ctx := context.WithValue(r.Context(), participantIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
