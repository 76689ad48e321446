package authorizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sessiongate/internal/core/domain"
	"sessiongate/internal/core/repository"
	logicv1 "sessiongate/internal/logic/v1"
)

func newAuthorizerTest(t *testing.T) (*gin.Engine, *repository.MemorySessionStore, time.Time) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Unix(1_700_000_000, 0)
	store := repository.NewMemorySessionStore()

	authority := logicv1.NewAuthority(store, logicv1.Config{
		InactivityWindow: 1800 * time.Second,
		Clock:            func() time.Time { return now },
	})
	handler := NewHandler(authority, "sid")

	r := gin.New()
	handler.RegisterRoutes(r)
	return r, store, now
}

func seedLiveSession(t *testing.T, store *repository.MemorySessionStore, now time.Time) *domain.Session {
	t.Helper()
	sess := &domain.Session{
		SessionID:    "live-session",
		UserID:       "user-1",
		CreatedAt:    now.Unix() - 300,
		LastActivity: now.Unix() - 300,
		ExpiresAt:    now.Unix() + 1500,
	}
	if err := store.Put(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func TestAuthorizeAllowSetsIdentityHeaders(t *testing.T) {
	r, store, now := newAuthorizerTest(t)
	sess := seedLiveSession(t, store, now)

	req := httptest.NewRequest(http.MethodGet, "/authorize", nil)
	req.Header.Set("X-Forwarded-Method", "GET")
	req.Header.Set("X-Forwarded-Uri", "/api/profile")
	req.Header.Set("Cookie", "sid="+sess.SessionID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get(UserIDHeader); got != "user-1" {
		t.Fatalf("%s = %q, want user-1", UserIDHeader, got)
	}
	if got := w.Header().Get(SessionIDHeader); got != sess.SessionID {
		t.Fatalf("%s = %q, want %q", SessionIDHeader, got, sess.SessionID)
	}

	// The edge allow renewed the sliding window.
	stored, err := store.Get(context.Background(), sess.SessionID)
	if err != nil || stored == nil {
		t.Fatalf("stored session: %v %v", stored, err)
	}
	if stored.LastActivity != now.Unix() {
		t.Fatalf("edge allow did not renew: lastActivity = %d", stored.LastActivity)
	}
}

func TestAuthorizeDenyIsOpaque(t *testing.T) {
	r, store, now := newAuthorizerTest(t)

	// One deny per reason; the wire response must be identical for all.
	expired := &domain.Session{
		SessionID:    "stale-session",
		UserID:       "user-1",
		CreatedAt:    now.Unix() - 7200,
		LastActivity: now.Unix() - 3600,
		ExpiresAt:    now.Unix() - 1800,
	}
	if err := store.Put(context.Background(), expired); err != nil {
		t.Fatalf("seed expired session: %v", err)
	}

	tests := []struct {
		name   string
		cookie string
	}{
		{"no credential", ""},
		{"unknown session", "sid=no-such-session"},
		{"expired session", "sid=stale-session"},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/authorize", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if w.Header().Get(UserIDHeader) != "" {
				t.Fatal("deny must not carry identity headers")
			}
			bodies = append(bodies, w.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Fatalf("deny bodies differ between reasons: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestAuthorizeDenyDeletesExpiredRecord(t *testing.T) {
	r, store, now := newAuthorizerTest(t)

	expired := &domain.Session{
		SessionID:    "stale-session",
		UserID:       "user-1",
		CreatedAt:    now.Unix() - 7200,
		LastActivity: now.Unix() - 1800,
		ExpiresAt:    now.Unix(),
	}
	if err := store.Put(context.Background(), expired); err != nil {
		t.Fatalf("seed expired session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/authorize", nil)
	req.Header.Set("Cookie", "sid=stale-session")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	got, err := store.Get(context.Background(), "stale-session")
	if err != nil || got != nil {
		t.Fatalf("expected expired record lazily deleted, got %+v %v", got, err)
	}
}

func TestDecisionDocumentContract(t *testing.T) {
	r, store, now := newAuthorizerTest(t)
	sess := seedLiveSession(t, store, now)

	body := `{"resource":"GET /api/profile","headers":{"Authorization":"Bearer ` + sess.SessionID + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/decisions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var decision Decision
	if err := json.Unmarshal(w.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if !decision.Allow {
		t.Fatalf("expected allow: %+v", decision)
	}
	if decision.Resource != "GET /api/profile" {
		t.Fatalf("resource = %q", decision.Resource)
	}
	want := map[string]string{
		"principalId": "user-1",
		"userId":      "user-1",
		"sessionId":   sess.SessionID,
	}
	for k, v := range want {
		if decision.Context[k] != v {
			t.Fatalf("context[%q] = %q, want %q", k, decision.Context[k], v)
		}
	}
}

func TestDecisionDocumentDenyOmitsReason(t *testing.T) {
	r, _, _ := newAuthorizerTest(t)

	body := `{"resource":"GET /api/profile","headers":{"Cookie":"sid=no-such-session"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/decisions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["allow"] != false {
		t.Fatalf("expected deny: %v", raw)
	}
	if _, leaked := raw["reason"]; leaked {
		t.Fatal("deny reason must not cross the trust boundary")
	}
	if _, leaked := raw["context"]; leaked {
		t.Fatal("deny must not carry identity context")
	}
}
