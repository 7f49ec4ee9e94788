package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hammall/hamra/backend/internal/analysis/faq"
	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/repository/shops"
	chatservice "github.com/hammall/hamra/backend/internal/service/chat"
	"github.com/hammall/hamra/backend/internal/storage/history"
)

func setupRouter() (*chi.Mux, *chatservice.Service) {
	src := shops.NewMemorySource(map[int64][]shop.Snapshot{
		7: {{ID: 1, ShopNumber: "A12", MonthlyRent: 1500000, Balance: 150000}},
	})
	chatSvc := chatservice.NewService(faq.NewResponder(),
		chatservice.WithShopSource(src),
		chatservice.WithHistory(chatservice.NewHistoryRepository(history.NewMemoryStore(0))),
		chatservice.WithTypingDelay(0),
	)
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler, body string) createSessionResponse {
	t.Helper()
	resp := do(r, http.MethodPost, "/session", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created createSessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return created
}

func TestCreateSessionForTenant(t *testing.T) {
	r, _ := setupRouter()
	created := createSession(t, r, `{"user":{"id":7,"full_name":"Amina Nakato"}}`)

	if created.Session.ID == "" || created.SessionID != created.Session.ID {
		t.Fatalf("unexpected session ids: %+v", created)
	}
	if len(created.Session.Shops) != 1 {
		t.Fatalf("expected 1 shop, got %d", len(created.Session.Shops))
	}
	if len(created.Messages) != 1 || !strings.HasPrefix(created.Messages[0].Text, "Hello Amina!") {
		t.Fatalf("unexpected welcome: %+v", created.Messages)
	}
	if !created.ShowQuickQuestions || len(created.QuickQuestions) != 6 {
		t.Fatalf("expected quick questions, got %+v", created.QuickQuestions)
	}
}

func TestCreateSessionAnonymous(t *testing.T) {
	r, _ := setupRouter()
	created := createSession(t, r, ``)

	if created.Session.User != nil {
		t.Fatalf("expected anonymous session, got %+v", created.Session.User)
	}
}

func TestCreateSessionInvalidBody(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodPost, "/session", `{"user":`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/session", `{"user":{"full_name":"No Id"}}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendMessage(t *testing.T) {
	r, _ := setupRouter()
	created := createSession(t, r, `{"user":{"id":7,"full_name":"Amina Nakato"}}`)

	resp := do(r, http.MethodPost, "/session/"+created.Session.ID+"/messages", `{"text":"what is my balance"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var turn chatservice.Turn
	if err := json.Unmarshal(resp.Body.Bytes(), &turn); err != nil {
		t.Fatalf("decode turn: %v", err)
	}
	if turn.User.Sender != "user" || turn.Bot.Sender != "bot" {
		t.Fatalf("unexpected senders: %+v", turn)
	}
	if !strings.Contains(turn.Bot.Text, "Shop A12: UGX 150,000 (Outstanding)") {
		t.Fatalf("unexpected reply %q", turn.Bot.Text)
	}

	list := do(r, http.MethodGet, "/session/"+created.Session.ID+"/messages", "")
	var transcript transcriptResponse
	if err := json.Unmarshal(list.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(transcript.Messages) != 3 || transcript.ShowQuickQuestions {
		t.Fatalf("unexpected transcript: %+v", transcript)
	}
}

func TestSendMessageErrors(t *testing.T) {
	r, _ := setupRouter()
	created := createSession(t, r, `{"user":{"id":7,"full_name":"Amina Nakato"}}`)

	if resp := do(r, http.MethodPost, "/session/"+created.Session.ID+"/messages", `{"text":"  "}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/session/missing/messages", `{"text":"hi"}`); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.Code)
	}
}

func TestClearMessages(t *testing.T) {
	r, _ := setupRouter()
	created := createSession(t, r, `{"user":{"id":7,"full_name":"Amina Nakato"}}`)
	do(r, http.MethodPost, "/session/"+created.Session.ID+"/messages", `{"text":"hi"}`)

	resp := do(r, http.MethodDelete, "/session/"+created.Session.ID+"/messages", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var transcript transcriptResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(transcript.Messages) != 1 || !transcript.ShowQuickQuestions {
		t.Fatalf("expected welcome only, got %+v", transcript)
	}
}

func TestCloseSession(t *testing.T) {
	r, _ := setupRouter()
	created := createSession(t, r, ``)

	if resp := do(r, http.MethodDelete, "/session/"+created.Session.ID, ""); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/session/"+created.Session.ID, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", resp.Code)
	}
}

func TestQuickQuestions(t *testing.T) {
	r, _ := setupRouter()
	resp := do(r, http.MethodGet, "/quick-questions", "")

	var payload quickQuestionsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Shown != 3 || payload.Questions[0].Question != "How do I pay my rent?" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
