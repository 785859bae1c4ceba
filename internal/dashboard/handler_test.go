package dashboard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/providers/github"
	"hub-backend/internal/providers/google"
	"hub-backend/internal/providers/microsoft"
	"hub-backend/internal/users"
)

func testToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	seg := base64.RawURLEncoding.EncodeToString
	return seg([]byte(`{"alg":"RS256"}`)) + "." + seg(payload) + "." + seg([]byte("sig"))
}

func newDashboardRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func doDashboardRequest(t *testing.T, r *gin.Engine, cookies map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDashboardRequiresAccessToken(t *testing.T) {
	h := NewHandler(google.NewClient(), microsoft.NewClient(), github.NewClient(), users.NewService(nil))
	r := newDashboardRouter(h)

	w := doDashboardRequest(t, r, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unauthorized") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDashboardAggregatesAllProviders(t *testing.T) {
	googleSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"summary":"standup"}]}`))
	}))
	defer googleSrv.Close()
	msSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"subject":"retro"}]}`))
	}))
	defer msSrv.Close()
	ghSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer ghSrv.Close()

	repo := users.NewMemoryRepo()
	svc := users.NewService(repo)
	if err := svc.Merge(context.Background(), "auth0|42", map[string]any{"theme": "dark"}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	h := NewHandler(
		&google.Client{GmailBaseURL: googleSrv.URL, CalendarBaseURL: googleSrv.URL, HTTPClient: googleSrv.Client()},
		&microsoft.Client{GraphBaseURL: msSrv.URL, HTTPClient: msSrv.Client()},
		&github.Client{APIBaseURL: ghSrv.URL, HTTPClient: ghSrv.Client()},
		svc,
	)
	r := newDashboardRouter(h)

	w := doDashboardRequest(t, r, map[string]string{
		"access_token": "tok",
		"id_token":     testToken(t, map[string]any{"sub": "auth0|42", "name": "Ada Lovelace"}),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		User      map[string]any `json:"user"`
		Google    map[string]any `json:"google"`
		Microsoft map[string]any `json:"microsoft"`
		GitHub    map[string]any `json:"github"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.User["name"] != "Ada Lovelace" || body.User["theme"] != "dark" {
		t.Errorf("user = %v", body.User)
	}
	if items, ok := body.Google["items"].([]any); !ok || len(items) != 1 {
		t.Errorf("google = %v", body.Google)
	}
	if value, ok := body.Microsoft["value"].([]any); !ok || len(value) != 1 {
		t.Errorf("microsoft = %v", body.Microsoft)
	}
	if body.GitHub["login"] != "octocat" {
		t.Errorf("github = %v", body.GitHub)
	}
}

func TestDashboardIsolatesSingleProviderFailure(t *testing.T) {
	msSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"subject":"retro"}]}`))
	}))
	defer msSrv.Close()
	ghSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer ghSrv.Close()

	dead := "http://127.0.0.1:1"
	h := NewHandler(
		&google.Client{GmailBaseURL: dead, CalendarBaseURL: dead, HTTPClient: http.DefaultClient},
		&microsoft.Client{GraphBaseURL: msSrv.URL, HTTPClient: msSrv.Client()},
		&github.Client{APIBaseURL: ghSrv.URL, HTTPClient: ghSrv.Client()},
		users.NewService(nil),
	)
	r := newDashboardRouter(h)

	w := doDashboardRequest(t, r, map[string]string{"access_token": "tok"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Google    map[string]any `json:"google"`
		Microsoft map[string]any `json:"microsoft"`
		GitHub    map[string]any `json:"github"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := body.Google["error"]; !ok {
		t.Errorf("google missing error: %v", body.Google)
	}
	if items, ok := body.Google["items"].([]any); !ok || len(items) != 0 {
		t.Errorf("google items = %v, want empty", body.Google["items"])
	}
	if value, ok := body.Microsoft["value"].([]any); !ok || len(value) != 1 {
		t.Errorf("microsoft should be unaffected: %v", body.Microsoft)
	}
	if body.GitHub["login"] != "octocat" {
		t.Errorf("github should be unaffected: %v", body.GitHub)
	}
}

func TestDashboardDegradesPerProvider(t *testing.T) {
	// No listener behind this address, so every provider call fails at the
	// transport layer.
	dead := "http://127.0.0.1:1"
	h := NewHandler(
		&google.Client{GmailBaseURL: dead, CalendarBaseURL: dead, HTTPClient: http.DefaultClient},
		&microsoft.Client{GraphBaseURL: dead, HTTPClient: http.DefaultClient},
		&github.Client{APIBaseURL: dead, HTTPClient: http.DefaultClient},
		users.NewService(nil),
	)
	r := newDashboardRouter(h)

	w := doDashboardRequest(t, r, map[string]string{"access_token": "tok"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, aggregate must not fail", w.Code)
	}

	var body struct {
		User      map[string]any `json:"user"`
		Google    map[string]any `json:"google"`
		Microsoft map[string]any `json:"microsoft"`
		GitHub    map[string]any `json:"github"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.User != nil {
		t.Errorf("user = %v, want null without id_token", body.User)
	}
	if _, ok := body.Google["error"]; !ok {
		t.Errorf("google missing error field: %v", body.Google)
	}
	if items, ok := body.Google["items"].([]any); !ok || len(items) != 0 {
		t.Errorf("google missing empty items: %v", body.Google)
	}
	if _, ok := body.Microsoft["value"]; !ok {
		t.Errorf("microsoft missing empty value: %v", body.Microsoft)
	}
	profile, ok := body.GitHub["profile"].(map[string]any)
	if !ok || profile["name"] != "Unknown" {
		t.Errorf("github fallback = %v", body.GitHub)
	}
}

func TestDashboardToleratesGarbageIdentityToken(t *testing.T) {
	ghSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ghSrv.Close()

	h := NewHandler(
		&google.Client{GmailBaseURL: ghSrv.URL, CalendarBaseURL: ghSrv.URL, HTTPClient: ghSrv.Client()},
		&microsoft.Client{GraphBaseURL: ghSrv.URL, HTTPClient: ghSrv.Client()},
		&github.Client{APIBaseURL: ghSrv.URL, HTTPClient: ghSrv.Client()},
		users.NewService(nil),
	)
	r := newDashboardRouter(h)

	w := doDashboardRequest(t, r, map[string]string{
		"access_token": "tok",
		"id_token":     "not-a-jwt",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"user":null`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
