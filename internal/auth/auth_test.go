package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"survey-service/internal/domain"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("secret", "survey-service")
	token, err := v.Issue("owner-1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sub, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "owner-1" {
		t.Fatalf("expected owner-1, got %q", sub)
	}
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier("secret", "survey-service")
	expired, _ := v.Issue("owner-1", -time.Minute)
	otherKey, _ := NewVerifier("other", "survey-service").Issue("owner-1", time.Hour)
	otherIssuer, _ := NewVerifier("secret", "someone-else").Issue("owner-1", time.Hour)

	cases := map[string]string{
		"garbage":      "not-a-token",
		"expired":      expired,
		"wrong key":    otherKey,
		"wrong issuer": otherIssuer,
	}
	for name, token := range cases {
		if _, err := v.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier("secret", "")
	var seen string
	h := Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SubjectFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/surveys", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, _ := v.Issue("owner-1", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/surveys", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != "owner-1" {
		t.Fatalf("expected subject owner-1, got code=%d sub=%q", rec.Code, seen)
	}

	seen = ""
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/results?token="+token, nil))
	if seen != "owner-1" {
		t.Fatalf("expected query token to authenticate, got %q", seen)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	if _, err := s.Token(); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before init, got %v", err)
	}
	s.Init("tok")
	if got, err := s.Token(); err != nil || got != "tok" || !s.Active() {
		t.Fatalf("expected active session, got %q %v", got, err)
	}
	s.Teardown()
	if s.Active() {
		t.Fatalf("expected session to be torn down")
	}
}
