package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"survey-service/internal/app"
	"survey-service/internal/auth"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
)

type testServer struct {
	*httptest.Server
	token    string
	verifier *auth.Verifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	surveys := memory.NewSurveyStore(sampleSurvey())
	responses := memory.NewResponseStore()
	hub := app.NewResultsHub()

	editor := app.NewSurveyService(surveys)
	respond := app.NewResponseService(surveys, responses, memory.NewSessionStore())
	analytics := app.NewAnalyticsService(surveys, responses, hub)
	respond.SetListener(analytics)

	verifier := auth.NewVerifier("test-secret", "survey-service")
	token, err := verifier.Issue("owner-1", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	server := httptest.NewServer(NewHandler(editor, respond, analytics, verifier).Routes(nil))
	t.Cleanup(server.Close)
	return &testServer{Server: server, token: token, verifier: verifier}
}

// do sends a JSON request, authenticated when token is not empty, and
// decodes the response body into out when out is not nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequestWithContext(context.Background(), method, s.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s (status %d): %v", method, path, resp.StatusCode, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(s.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	var msg wsMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func sampleSurvey() domain.Survey {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.Survey{
		ID:              "s1",
		OwnerID:         "owner-1",
		Name:            "Product feedback",
		Status:          domain.StatusActive,
		LogicallyActive: true,
		CreatedAt:       now,
		ModifiedAt:      now,
		Questions: []domain.Question{
			{ID: "plan", Caption: "Plan", Type: domain.SingleChoice, Options: []domain.Option{
				{ID: "free", Label: "Free"}, {ID: "pro", Label: "Pro"},
			}},
			{ID: "features", Caption: "Features", Type: domain.MultiChoice, Options: []domain.Option{
				{ID: "export", Label: "Export"}, {ID: "charts", Label: "Charts"},
			}},
			{ID: "recommend", Caption: "Recommend", Type: domain.NPS, Options: []domain.Option{}},
		},
	}
}

func completeAnswers() map[string]any {
	return map[string]any{"answers": []map[string]any{
		{"questionId": "plan", "value": "pro"},
		{"questionId": "features", "value": []string{"charts"}},
		{"questionId": "recommend", "value": 10},
	}}
}
