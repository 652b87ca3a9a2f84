package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/warden/adapters/store"
	"github.com/layer-3/warden/adapters/tokenizer"
	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type captureMailer struct {
	mu       sync.Mutex
	lastBody string
}

func (m *captureMailer) Send(ctx context.Context, to core.Email, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastBody = body
	return nil
}

func (m *captureMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBody
}

type nopPublisher struct{}

func (nopPublisher) PublishLogout(ctx context.Context, email string, tokenID string) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *captureMailer) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	banned := store.NewMemoryBannedTokenStore()
	mail := &captureMailer{}
	authService := service.NewAuthService(
		store.NewMemoryUserStore(),
		banned,
		store.NewMemoryChallengeStore(),
		tokenizer.NewJWTTokenizer(key, banned, 0),
		mail,
		nopPublisher{},
	)
	return SetupRouter(authService), mail
}

func doJSON(router *gin.Engine, method, path string, body gin.H, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSignupHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":       "a@x.com",
		"password":    "password123",
		"requires2FA": false,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created successfully!", decodeBody(t, w)["message"])

	// Duplicate address.
	w = doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Malformed inputs.
	w = doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "b@x.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/signup", gin.H{"email": "b@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, sessionCookie(t, w).Value)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTwoFactorFlow(t *testing.T) {
	router, mail := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":       "b@x.com",
		"password":    "password123",
		"requires2FA": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "b@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusPartialContent, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "2FA required", body["message"])
	attemptID, _ := body["loginAttemptId"].(string)
	require.NotEmpty(t, attemptID)

	// The code travels out of band, never in the response.
	assert.NotContains(t, w.Body.String(), mail.lastCode())
	assert.Empty(t, w.Result().Cookies())

	w = doJSON(router, http.MethodPost, "/auth/verify-2fa", gin.H{
		"email":          "b@x.com",
		"loginAttemptId": attemptID,
		"2FACode":        mail.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, sessionCookie(t, w).Value)

	// Replaying the identical verification fails: single use.
	w = doJSON(router, http.MethodPost, "/auth/verify-2fa", gin.H{
		"email":          "b@x.com",
		"loginAttemptId": attemptID,
		"2FACode":        mail.lastCode(),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyTwoFactorHandlerBadInput(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/verify-2fa", gin.H{
		"email":          "b@x.com",
		"loginAttemptId": "not-a-uuid",
		"2FACode":        "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/verify-2fa", gin.H{
		"email": "b@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	// No cookie at all.
	w := doJSON(router, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid token in the cookie.
	w = doJSON(router, http.MethodPost, "/auth/logout", nil,
		&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Full round trip: login, logout, token rejected afterwards.
	w = doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = doJSON(router, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sessionCookie(t, w).Value)

	w = doJSON(router, http.MethodPost, "/auth/verify-token", gin.H{"token": cookie.Value})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out twice with the same revoked token fails.
	w = doJSON(router, http.MethodPost, "/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyTokenHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = doJSON(router, http.MethodPost, "/auth/verify-token", gin.H{"token": cookie.Value})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/verify-token", gin.H{"token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/verify-token", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	login := doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, login.Code)

	w = doJSON(router, http.MethodGet, "/api/me", nil, sessionCookie(t, login))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", decodeBody(t, w)["email"])
}
