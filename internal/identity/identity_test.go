package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func serveWithIdentity(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var captured string
	handler := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ParticipantIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return captured, rec
}

func TestMiddleware_MintsIDWhenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id, rec := serveWithIdentity(t, req)

	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected a UUID participant id, got %q", id)
	}

	cookie := findCookie(rec, ParticipantCookieName)
	if cookie == nil {
		t.Fatal("Expected participant cookie to be set")
	}
	if cookie.Value != id {
		t.Errorf("Expected cookie to carry the minted id %q, got %q", id, cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("Expected an HttpOnly cookie")
	}
}

func TestMiddleware_ReusesCookieID(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ParticipantCookieName, Value: existing})

	id, _ := serveWithIdentity(t, req)
	if id != existing {
		t.Errorf("Expected existing id %q, got %q", existing, id)
	}
}

func TestMiddleware_HeaderOutranksCookie(t *testing.T) {
	fromHeader := uuid.NewString()
	fromCookie := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ParticipantHeaderName, fromHeader)
	req.AddCookie(&http.Cookie{Name: ParticipantCookieName, Value: fromCookie})

	id, _ := serveWithIdentity(t, req)
	if id != fromHeader {
		t.Errorf("Expected header id %q, got %q", fromHeader, id)
	}
}

func TestMiddleware_RejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ParticipantCookieName, Value: "not-a-uuid"})

	id, _ := serveWithIdentity(t, req)
	if id == "not-a-uuid" {
		t.Error("Expected a malformed cookie id to be replaced")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected a freshly minted UUID, got %q", id)
	}
}

func TestParticipantIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ParticipantIDFromContext(req.Context()); got != "" {
		t.Errorf("Expected empty id without middleware, got %q", got)
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
