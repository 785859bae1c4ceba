package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/users"
)

func testConfig() Config {
	return Config{
		Domain:       "tenant.auth0.com",
		ClientID:     "client-123",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:8080/auth/callback",
		FrontendURL:  "http://localhost:3000",
	}
}

func newAuthRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func testIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	seg := base64.RawURLEncoding.EncodeToString
	return seg([]byte(`{"alg":"RS256"}`)) + "." + seg(payload) + "." + seg([]byte("sig"))
}

func TestLoginRedirectsToAuthorize(t *testing.T) {
	cfg := testConfig()
	cfg.Audience = "https://api.example.com"
	r := newAuthRouter(NewHandler(cfg, users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet, "/auth/login?connection=google-oauth2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	location, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Host != "tenant.auth0.com" || location.Path != "/authorize" {
		t.Errorf("location = %s", location)
	}
	q := location.Query()
	if q.Get("response_type") != "code" || q.Get("client_id") != "client-123" {
		t.Errorf("query = %v", q)
	}
	if q.Get("redirect_uri") != "http://localhost:8080/auth/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("scope") != "openid profile email" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
	if q.Get("connection") != "google-oauth2" || q.Get("audience") != "https://api.example.com" {
		t.Errorf("provider params = %v", q)
	}
}

func TestLoginWithIncompleteConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Domain = ""
	r := newAuthRouter(NewHandler(cfg, users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "configuration_missing") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCallbackUpstreamErrorSkipsExchange(t *testing.T) {
	var exchanges int64
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&exchanges, 1)
	}))
	defer tokenSrv.Close()

	cfg := testConfig()
	cfg.TokenURL = tokenSrv.URL
	r := newAuthRouter(NewHandler(cfg, users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet,
		"/auth/callback?error=access_denied&error_description=user+cancelled", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	location, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Path != "/auth" {
		t.Errorf("location = %s", location)
	}
	q := location.Query()
	if q.Get("error") != "access_denied" || q.Get("error_description") != "user cancelled" {
		t.Errorf("query = %v", q)
	}
	if n := atomic.LoadInt64(&exchanges); n != 0 {
		t.Errorf("token endpoint hit %d times, want 0", n)
	}
}

func TestCallbackWithoutCode(t *testing.T) {
	r := newAuthRouter(NewHandler(testConfig(), users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid_request") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCallbackExchangeFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenSrv.Close()

	cfg := testConfig()
	cfg.TokenURL = tokenSrv.URL
	r := newAuthRouter(NewHandler(cfg, users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=bad-code", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCallbackSuccessSetsCookiesAndStoresUser(t *testing.T) {
	idToken := testIDToken(t, map[string]any{
		"sub":   "auth0|42",
		"email": "ada@example.com",
		"name":  "Ada Lovelace",
	})
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "good-code" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "upstream-access",
			"id_token":     idToken,
			"token_type":   "Bearer",
		})
	}))
	defer tokenSrv.Close()

	repo := users.NewMemoryRepo()
	cfg := testConfig()
	cfg.TokenURL = tokenSrv.URL
	r := newAuthRouter(NewHandler(cfg, users.NewService(repo)))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good-code", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "http://localhost:3000/dashboard" {
		t.Errorf("location = %q", got)
	}

	cookies := map[string]*http.Cookie{}
	for _, cookie := range w.Result().Cookies() {
		cookies[cookie.Name] = cookie
	}
	id, ok := cookies["id_token"]
	if !ok || id.Value != idToken {
		t.Fatalf("id_token cookie = %v", id)
	}
	if !id.HttpOnly || id.Secure || id.SameSite != http.SameSiteLaxMode {
		t.Errorf("id_token cookie attributes = %+v", id)
	}
	if access, ok := cookies["access_token"]; !ok || access.Value != "upstream-access" {
		t.Errorf("access_token cookie = %v", access)
	}

	rec, err := repo.GetByID(req.Context(), "auth0|42")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec.Doc["email"] != "ada@example.com" || rec.Doc["firstName"] != "Ada" {
		t.Errorf("stored doc = %v", rec.Doc)
	}
	if rec.LastLogin.IsZero() {
		t.Error("last_login not set on login upsert")
	}
}

func TestCallbackStoreFailureDoesNotBlockLogin(t *testing.T) {
	idToken := testIDToken(t, map[string]any{"sub": "auth0|42"})
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "upstream-access",
			"id_token":     idToken,
		})
	}))
	defer tokenSrv.Close()

	cfg := testConfig()
	cfg.TokenURL = tokenSrv.URL
	r := newAuthRouter(NewHandler(cfg, users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good-code", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want login to succeed", w.Code)
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	r := newAuthRouter(NewHandler(testConfig(), users.NewService(nil)))

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "http://localhost:3000" {
		t.Errorf("location = %q", got)
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name != "id_token" && cookie.Name != "access_token" {
			continue
		}
		if cookie.Value != "" || cookie.MaxAge >= 0 {
			t.Errorf("cookie %s not cleared: %+v", cookie.Name, cookie)
		}
	}
}
