package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/models"
)

// sessionCookieName is the cookie carrying the signed session token.
const sessionCookieName = "folio_session"

// flowCookieName is the cookie correlating a browser with its in-flight
// login attempt in the state store.
const flowCookieName = "folio_oauth_flow"

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 session token for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   "folio-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// --- OAuth state parameter encoding ---

type oauthStatePayload struct {
	Redirect string `json:"redirect"`
	Nonce    string `json:"nonce"`
	TS       int64  `json:"ts"`
}

// encodeOAuthState encodes a post-login redirect target into a signed state parameter.
func encodeOAuthState(redirect string, secret []byte) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	payload := oauthStatePayload{
		Redirect: redirect,
		Nonce:    base64.RawURLEncoding.EncodeToString(nonce),
		TS:       time.Now().Unix(),
	}
	return encodeOAuthStateFromPayload(payload, secret)
}

// encodeOAuthStateFromPayload encodes a pre-built payload into a signed state parameter.
func encodeOAuthStateFromPayload(payload oauthStatePayload, secret []byte) (string, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}
	payloadB64 := base64.RawURLEncoding.EncodeToString(payloadJSON)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payloadB64))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return payloadB64 + "." + sig, nil
}

// decodeOAuthState validates and decodes a state parameter, returning the
// post-login redirect target.
func decodeOAuthState(state string, secret []byte) (string, error) {
	parts := strings.SplitN(state, ".", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid state format")
	}
	payloadB64, sigB64 := parts[0], parts[1]

	// Verify HMAC
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payloadB64))
	expectedSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sigB64), []byte(expectedSig)) {
		return "", fmt.Errorf("invalid state signature")
	}

	// Decode payload
	payloadJSON, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return "", fmt.Errorf("invalid state encoding: %w", err)
	}
	var payload oauthStatePayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return "", fmt.Errorf("invalid state payload: %w", err)
	}

	// Check expiry (10 minutes)
	if time.Since(time.Unix(payload.TS, 0)) > 10*time.Minute {
		return "", fmt.Errorf("state expired")
	}

	return payload.Redirect, nil
}

// --- Session resolution ---

// authenticate resolves the session cookie to a user context. The user must
// still exist in the directory: the store is volatile, so after a restart a
// valid cookie alone is not enough and the user logs in again.
func (s *Server) authenticate(r *http.Request) *common.UserContext {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := validateJWT(cookie.Value, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		return nil
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil
	}

	user, err := s.app.Users.GetUser(r.Context(), sub)
	if err != nil || user == nil {
		return nil
	}

	return &common.UserContext{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}
}

// requireAuth guards a handler behind a valid session. Browser GETs are
// redirected to /login; API calls get a 401 JSON body.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uc := s.authenticate(r)
		if uc == nil {
			if r.Method == http.MethodGet {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r.WithContext(common.WithUserContext(r.Context(), uc)))
	}
}

// --- Auth handlers ---

// handleLogin handles GET /login - redirect to the Google consent screen.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if s.authenticate(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	cfg := s.app.Config.Auth
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		WriteError(w, http.StatusInternalServerError, "Google OAuth not configured")
		return
	}

	state, err := encodeOAuthState("/", []byte(cfg.JWTSecret))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode OAuth state")
		WriteError(w, http.StatusInternalServerError, "failed to start login")
		return
	}

	// Bind the state to this browser so the callback can verify it came
	// from a flow we started.
	flowID := uuid.New().String()
	if err := s.app.States.PutState(r.Context(), flowID, state); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store login state")
		WriteError(w, http.StatusInternalServerError, "failed to start login")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookieName,
		Value:    flowID,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.app.Config.IsProduction(),
	})

	params := url.Values{
		"client_id":     {cfg.Google.ClientID},
		"redirect_uri":  {cfg.RedirectURL},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"access_type":   {"offline"},
		"state":         {state},
	}
	http.Redirect(w, r, s.authURL+"?"+params.Encode(), http.StatusFound)
}

// handleCallback handles GET /callback - exchange the Google code for a
// profile, upsert the user, and establish the session.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	// Any failure restarts the flow from scratch, with no partial state.
	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		s.logger.Info().Str("error", errParam).Msg("OAuth consent denied")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	state := query.Get("state")
	redirect, err := decodeOAuthState(state, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		s.logger.Warn().Err(err).Msg("OAuth state validation failed")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	// The state must also be the one stored for this browser's flow. A
	// well-signed state from someone else's flow does not count.
	flowCookie, err := r.Cookie(flowCookieName)
	if err != nil || flowCookie.Value == "" {
		s.logger.Warn().Msg("Callback without a login flow cookie")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	stored, err := s.app.States.TakeState(r.Context(), flowCookie.Value)
	if err != nil || stored == "" || stored != state {
		s.logger.Warn().Str("flow_id", flowCookie.Value).Msg("OAuth state does not match stored flow")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	clearFlowCookie(w)

	code := query.Get("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := s.exchangeGoogleCode(r, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("Google code exchange failed")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := s.app.Users.PutUser(r.Context(), user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save user")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign session token")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.app.Config.IsProduction(),
	})

	s.logger.Info().Str("user_id", user.ID).Msg("User logged in")
	http.Redirect(w, r, redirect, http.StatusFound)
}

// clearFlowCookie removes the login flow cookie once the flow resolves.
func clearFlowCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// exchangeGoogleCode trades an authorization code for the user's profile.
func (s *Server) exchangeGoogleCode(r *http.Request, code string) (*models.User, error) {
	cfg := s.app.Config.Auth

	tokenResp, err := http.PostForm(s.tokenURL, url.Values{
		"code":          {code},
		"client_id":     {cfg.Google.ClientID},
		"client_secret": {cfg.Google.ClientSecret},
		"redirect_uri":  {cfg.RedirectURL},
		"grant_type":    {"authorization_code"},
	})
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer tokenResp.Body.Close()

	var tokenData struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(tokenResp.Body).Decode(&tokenData); err != nil || tokenData.AccessToken == "" {
		if tokenData.Error != "" {
			return nil, fmt.Errorf("google error: %s", tokenData.Error)
		}
		return nil, fmt.Errorf("no access token in response")
	}

	infoReq, _ := http.NewRequestWithContext(r.Context(), http.MethodGet, s.userinfoURL, nil)
	infoReq.Header.Set("Authorization", "Bearer "+tokenData.AccessToken)
	infoResp, err := http.DefaultClient.Do(infoReq)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer infoResp.Body.Close()

	var userInfo struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(infoResp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo: %w", err)
	}
	if userInfo.ID == "" {
		return nil, fmt.Errorf("userinfo missing subject")
	}

	return &models.User{
		ID:      "google_" + userInfo.ID,
		Email:   userInfo.Email,
		Name:    userInfo.Name,
		Picture: userInfo.Picture,
	}, nil
}

// handleLogout handles GET /logout - clear the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if uc := common.UserContextFromContext(r.Context()); uc != nil {
		s.logger.Info().Str("user_id", uc.UserID).Msg("User logged out")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
