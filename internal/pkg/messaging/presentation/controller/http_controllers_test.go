package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RajeebLochan/QuickPost/internal/pkg/identity"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/application/usecase"

	"github.com/gin-gonic/gin"
)

func newAPIServer(t *testing.T, repo *fakeChatRepository) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	api := r.Group("/api/v1/chat", identity.Middleware())
	api.POST("/start", (&StartConversationController{UC: usecase.NewStartConversationUseCase(repo)}).Handle())
	api.GET("", (&ListConversationsController{UC: usecase.NewListConversationsUseCase(repo)}).Handle())
	api.POST("/:conversationId/messages", (&SendMessageController{UC: usecase.NewSendMessageUseCase(repo)}).Handle())
	api.GET("/:conversationId/messages", (&GetMessageController{UC: usecase.NewGetMessageUseCase(repo)}).Handle())
	api.POST("/:conversationId/read", (&MarkReadController{UC: usecase.NewMarkReadUseCase(repo)}).Handle())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, userID, username, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-Username", username)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func TestSendMessageRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	srv := newAPIServer(t, repo)

	status, body := doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/messages", "alice", "Alice", `{"message":"  hi bob  "}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	msg := body["message"].(map[string]any)
	if msg["content"] != "hi bob" {
		t.Fatalf("content not trimmed before storage: %v", msg)
	}
	if msg["sender"] != "Alice" || msg["sender_id"] != "alice" {
		t.Fatalf("sender attribution wrong: %v", msg)
	}

	status, body = doJSON(t, srv, http.MethodGet, "/api/v1/chat/conv-1/messages", "bob", "Bob", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	msgs := body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected the sent message back, got %v", msgs)
	}
	got := msgs[0].(map[string]any)
	if got["content"] != "hi bob" || got["sender_id"] != "alice" {
		t.Fatalf("fetched message does not match what was sent: %v", got)
	}
	if got["is_read"] != false {
		t.Fatalf("fetch must not flip read state: %v", got)
	}
}

func TestSendMessageValidationErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	srv := newAPIServer(t, repo)

	cases := []struct {
		name       string
		userID     string
		body       string
		wantStatus int
		wantError  string
	}{
		{"empty body", "alice", "", http.StatusBadRequest, "Missing data"},
		{"whitespace only", "alice", `{"message":"   "}`, http.StatusBadRequest, "Missing data"},
		{"over length limit", "alice", `{"message":"` + strings.Repeat("x", 1001) + `"}`, http.StatusBadRequest, "Message too long"},
		{"non-participant", "mallory", `{"message":"hi"}`, http.StatusForbidden, "Access denied"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/messages", tc.userID, "Someone", tc.body)
			if status != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %v", tc.wantStatus, status, body)
			}
			if body["error"] != tc.wantError {
				t.Fatalf("expected error %q, got %v", tc.wantError, body)
			}
		})
	}
	if n := repo.messageCount(); n != 0 {
		t.Fatalf("rejected sends must not persist, found %d messages", n)
	}
}

func TestSendMessageExactLimitAccepted(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	srv := newAPIServer(t, repo)

	status, body := doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/messages", "alice", "Alice",
		`{"message":"`+strings.Repeat("x", 1000)+`"}`)
	if status != http.StatusOK {
		t.Fatalf("1000-rune message should be accepted, got %d: %v", status, body)
	}
}

func TestGetMessagesDeniedForOutsider(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	srv := newAPIServer(t, repo)

	status, body := doJSON(t, srv, http.MethodGet, "/api/v1/chat/conv-1/messages", "mallory", "Mallory", "")
	if status != http.StatusForbidden || body["error"] != "Access denied" {
		t.Fatalf("expected 403 Access denied, got %d: %v", status, body)
	}
	// Unknown conversation is indistinguishable from forbidden.
	status, body = doJSON(t, srv, http.MethodGet, "/api/v1/chat/no-such/messages", "alice", "Alice", "")
	if status != http.StatusForbidden || body["error"] != "Access denied" {
		t.Fatalf("expected 403 for unknown conversation, got %d: %v", status, body)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	srv := newAPIServer(t, repo)

	doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/messages", "bob", "Bob", `{"message":"ping"}`)
	doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/messages", "bob", "Bob", `{"message":"ping again"}`)

	status, body := doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/read", "alice", "Alice", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	if body["marked_read"].(float64) != 2 {
		t.Fatalf("expected 2 messages marked, got %v", body)
	}

	status, body = doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/read", "alice", "Alice", "")
	if status != http.StatusOK || body["marked_read"].(float64) != 0 {
		t.Fatalf("second mark-read should be a no-op, got %d: %v", status, body)
	}
}

func TestStartConversationGetOrCreate(t *testing.T) {
	repo := newFakeRepo()
	srv := newAPIServer(t, repo)

	status, body := doJSON(t, srv, http.MethodPost, "/api/v1/chat/start", "alice", "Alice", `{"user_id":"bob"}`)
	if status != http.StatusCreated || body["created"] != true {
		t.Fatalf("first start should create, got %d: %v", status, body)
	}
	convID := body["conversation_id"].(string)
	if convID == "" {
		t.Fatalf("missing conversation id: %v", body)
	}

	// The peer starting from the other side lands on the same conversation.
	status, body = doJSON(t, srv, http.MethodPost, "/api/v1/chat/start", "bob", "Bob", `{"user_id":"alice"}`)
	if status != http.StatusOK || body["created"] != false {
		t.Fatalf("second start should reuse, got %d: %v", status, body)
	}
	if body["conversation_id"] != convID {
		t.Fatalf("expected same conversation %s, got %v", convID, body)
	}
}

func TestStartConversationRejectsSelf(t *testing.T) {
	repo := newFakeRepo()
	srv := newAPIServer(t, repo)

	status, body := doJSON(t, srv, http.MethodPost, "/api/v1/chat/start", "alice", "Alice", `{"user_id":"alice"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", status, body)
	}
}

func TestListConversationsInbox(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	repo.addConversation("conv-2", "alice", "carol")
	srv := newAPIServer(t, repo)

	doJSON(t, srv, http.MethodPost, "/api/v1/chat/conv-1/messages", "bob", "Bob", `{"message":"unread one"}`)

	status, body := doJSON(t, srv, http.MethodGet, "/api/v1/chat", "alice", "Alice", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, body)
	}
	convs := body["conversations"].([]any)
	if len(convs) != 2 {
		t.Fatalf("expected both conversations, got %v", convs)
	}
	byID := map[string]map[string]any{}
	for _, c := range convs {
		entry := c.(map[string]any)
		byID[entry["id"].(string)] = entry
	}
	if byID["conv-1"]["has_unread"] != true {
		t.Fatalf("conv-1 should be unread for alice: %v", byID["conv-1"])
	}
	lm := byID["conv-1"]["last_message"].(map[string]any)
	if lm["content"] != "unread one" {
		t.Fatalf("unexpected preview: %v", lm)
	}
	if byID["conv-2"]["has_unread"] != false {
		t.Fatalf("empty conversation must not show unread: %v", byID["conv-2"])
	}
	if _, ok := byID["conv-2"]["last_message"]; ok {
		t.Fatalf("empty conversation should have no preview: %v", byID["conv-2"])
	}
}

func TestEndpointsRequireIdentity(t *testing.T) {
	repo := newFakeRepo()
	repo.addConversation("conv-1", "alice", "bob")
	srv := newAPIServer(t, repo)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/chat/conv-1/messages"},
		{http.MethodGet, "/api/v1/chat/conv-1/messages"},
		{http.MethodPost, "/api/v1/chat/conv-1/read"},
		{http.MethodPost, "/api/v1/chat/start"},
		{http.MethodGet, "/api/v1/chat"},
	}
	for _, p := range paths {
		status, _ := doJSON(t, srv, p.method, p.path, "", "", `{}`)
		if status != http.StatusUnauthorized {
			t.Fatalf("%s %s without identity should 401, got %d", p.method, p.path, status)
		}
	}
}
