package memory

import (
	"testing"

	"survey-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := app.NewResponseSession("sess-1", sampleSurvey(), nil)
	store.Put(session)
	if got, ok := store.Get("sess-1"); !ok || got != session {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one live session, got %d", store.Len())
	}

	store.Delete("sess-1")
	if _, ok := store.Get("sess-1"); ok {
		t.Fatalf("expected session removed")
	}
}
