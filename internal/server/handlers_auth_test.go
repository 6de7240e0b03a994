package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rgeddes/folio/internal/models"
)

func TestOAuthState_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	state, err := encodeOAuthState("/dashboard", secret)
	if err != nil {
		t.Fatalf("encodeOAuthState: %v", err)
	}

	redirect, err := decodeOAuthState(state, secret)
	if err != nil {
		t.Fatalf("decodeOAuthState: %v", err)
	}
	if redirect != "/dashboard" {
		t.Errorf("redirect = %q, want /dashboard", redirect)
	}
}

func TestOAuthState_TamperedSignatureRejected(t *testing.T) {
	secret := []byte("test-secret")
	state, _ := encodeOAuthState("/", secret)

	if _, err := decodeOAuthState(state+"x", secret); err == nil {
		t.Error("expected error for tampered signature")
	}
	if _, err := decodeOAuthState(state, []byte("other-secret")); err == nil {
		t.Error("expected error for wrong secret")
	}
	if _, err := decodeOAuthState("garbage", secret); err == nil {
		t.Error("expected error for malformed state")
	}
}

func TestOAuthState_Expired(t *testing.T) {
	secret := []byte("test-secret")
	payload := oauthStatePayload{Redirect: "/", Nonce: "n", TS: time.Now().Add(-11 * time.Minute).Unix()}
	state, err := encodeOAuthStateFromPayload(payload, secret)
	if err != nil {
		t.Fatalf("encodeOAuthStateFromPayload: %v", err)
	}

	if _, err := decodeOAuthState(state, secret); err == nil {
		t.Error("expected error for expired state")
	}
}

func TestJWT_SignAndValidate(t *testing.T) {
	s := newTestServer(t)
	user := testUser()

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}

	claims, err := validateJWT(token, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		t.Fatalf("validateJWT: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Errorf("sub = %v, want %s", claims["sub"], user.ID)
	}

	if _, err := validateJWT(token, []byte("wrong-secret")); err == nil {
		t.Error("expected error for wrong secret")
	}
}

// startLoginFlow hits /login and returns the state parameter sent to the
// provider and the flow cookie bound to this browser.
func startLoginFlow(t *testing.T, s *Server) (string, *http.Cookie) {
	t.Helper()

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected state parameter on authorize URL")
	}

	var flow *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flowCookieName {
			flow = c
		}
	}
	if flow == nil || flow.Value == "" {
		t.Fatal("expected login flow cookie")
	}
	return state, flow
}

func TestLogin_RedirectsToGoogle(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	if !strings.HasPrefix(loc.String(), googleAuthURL) {
		t.Errorf("Location = %s, want Google authorize URL", loc)
	}
	q := loc.Query()
	if q.Get("client_id") != "test-client" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("state") == "" {
		t.Error("expected signed state parameter")
	}
	if q.Get("scope") != "openid email profile" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
}

func TestLogin_StoresStatePerFlow(t *testing.T) {
	s := newTestServer(t)

	state, flow := startLoginFlow(t, s)

	stored, err := s.app.States.TakeState(httptest.NewRequest(http.MethodGet, "/", nil).Context(), flow.Value)
	if err != nil {
		t.Fatalf("TakeState: %v", err)
	}
	if stored != state {
		t.Errorf("stored state = %q, want the state sent to the provider", stored)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	s := newTestServer(t)
	s.app.Config.Auth.Google.ClientID = ""

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLogin_AlreadyAuthenticatedRedirectsHome(t *testing.T) {
	s := newTestServer(t)
	cookie := loginAs(t, s, testUser())

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec := doRequest(s, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Errorf("expected redirect to /, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

// assertNotAuthenticated checks a callback response restarted the flow
// without establishing a session.
func assertNotAuthenticated(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %s, want /login", loc)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			t.Error("session cookie must not be set")
		}
	}
}

func TestCallback_InvalidStateNoSession(t *testing.T) {
	s := newTestServer(t)
	_, flow := startLoginFlow(t, s)

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=forged.state", nil)
	req.AddCookie(flow)
	assertNotAuthenticated(t, doRequest(s, req))
}

func TestCallback_MissingFlowCookieRejected(t *testing.T) {
	s := newTestServer(t)
	state, _ := startLoginFlow(t, s)

	// Well-signed state, but the browser carries no flow cookie
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state), nil))
	assertNotAuthenticated(t, rec)
}

func TestCallback_StateFromAnotherFlowRejected(t *testing.T) {
	s := newTestServer(t)

	// Attacker starts their own flow and splices their state into the
	// victim's callback. Both states are well-signed; only the one stored
	// for the victim's own flow may pass.
	attackerState, _ := startLoginFlow(t, s)
	_, victimFlow := startLoginFlow(t, s)

	req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(attackerState), nil)
	req.AddCookie(victimFlow)
	assertNotAuthenticated(t, doRequest(s, req))
}

func TestCallback_MissingCodeRestartsFlow(t *testing.T) {
	s := newTestServer(t)
	state, flow := startLoginFlow(t, s)

	req := httptest.NewRequest(http.MethodGet, "/callback?state="+url.QueryEscape(state), nil)
	req.AddCookie(flow)
	assertNotAuthenticated(t, doRequest(s, req))
}

func TestCallback_SuccessEstablishesSession(t *testing.T) {
	s := newTestServer(t)

	// Stub Google endpoints
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			if r.Method != http.MethodPost {
				t.Errorf("token exchange method = %s", r.Method)
			}
			fmt.Fprint(w, `{"access_token":"provider-token"}`)
		case "/userinfo":
			if got := r.Header.Get("Authorization"); got != "Bearer provider-token" {
				t.Errorf("userinfo auth = %q", got)
			}
			fmt.Fprint(w, `{"id":"12345","email":"alice@example.com","name":"Alice","picture":"https://example.com/a.png"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()
	s.tokenURL = provider.URL + "/token"
	s.userinfoURL = provider.URL + "/userinfo"

	state, flow := startLoginFlow(t, s)
	req := httptest.NewRequest(http.MethodGet, "/callback?code=good-code&state="+url.QueryEscape(state), nil)
	req.AddCookie(flow)
	rec := doRequest(s, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Location") != "/" {
		t.Errorf("Location = %s, want /", rec.Header().Get("Location"))
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !session.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// User landed in the directory
	user, err := s.app.Users.GetUser(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "google_12345")
	if err != nil || user == nil {
		t.Fatalf("expected stored user, got %v err %v", user, err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q", user.Email)
	}

	// And the cookie authenticates follow-up requests
	followup := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	followup.AddCookie(session)
	if rec := doRequest(s, followup); rec.Code != http.StatusOK {
		t.Errorf("authenticated /analyze status = %d, want 200", rec.Code)
	}

	// Replaying the callback must fail: the flow's state was consumed
	replay := httptest.NewRequest(http.MethodGet, "/callback?code=good-code&state="+url.QueryEscape(state), nil)
	replay.AddCookie(flow)
	assertNotAuthenticated(t, doRequest(s, replay))
}

func TestCallback_ConsentDenied(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d %s, want 302 /login", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireAuth_BrowserGetRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/growth_chart?symbol=AAPL", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d %s, want 302 /login", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireAuth_APIPostGets401(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_CookieForUnknownUserRejected(t *testing.T) {
	s := newTestServer(t)
	// Sign a valid token but never store the user - simulates a restart
	// wiping the volatile directory.
	token, _ := signJWT(&models.User{ID: "google_gone"}, &s.app.Config.Auth)

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := doRequest(s, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 after directory wipe", rec.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t)
	cookie := loginAs(t, s, testUser())

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := doRequest(s, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d %s, want 302 /", rec.Code, rec.Header().Get("Location"))
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie cleared")
	}
}

func TestIndex_LoginPageWhenAnonymous(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sign in with Google") {
		t.Error("expected sign-in page")
	}
}

func TestIndex_DashboardWhenAuthenticated(t *testing.T) {
	s := newTestServer(t)
	cookie := loginAs(t, s, testUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := doRequest(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Error("expected dashboard with user identity")
	}
}
