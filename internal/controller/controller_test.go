package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	oapimiddleware "github.com/oapi-codegen/echo-middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dilekiremozbay/2homework/internal/api"
	"github.com/dilekiremozbay/2homework/internal/controller"
	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/service"
	"github.com/dilekiremozbay/2homework/internal/storage/memory"
	"github.com/dilekiremozbay/2homework/internal/util"
)

type testServer struct {
	echo *echo.Echo
	auth *service.AuthService
	mem  *memory.InMemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop().Sugar()
	store := memory.NewStorage()
	sessions := memory.NewSessionStore()

	tokens := service.NewTokenService(&util.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	verifier := service.NewCredentialVerifier(store)
	sessionCfg := &util.SessionConfig{TTL: time.Hour}
	auth := service.NewAuthService(store, sessions, tokens, verifier, sessionCfg, logger)

	c := controller.NewController(logger, auth, sessionCfg)

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler(logger)

	swagger, err := controller.GetSwagger()
	require.NoError(t, err)
	swagger.Servers = nil
	e.Use(oapimiddleware.OapiRequestValidator(swagger))

	e.POST("/register", c.Register)
	e.POST("/login", c.Login)
	e.POST("/token", c.Token)
	e.POST("/logout", c.Logout)
	e.GET("/me", c.Me, api.AuthorizerMiddleware(auth))
	e.GET("/users", c.FindAllUsers)
	e.GET("/ping", c.CheckServer)

	return &testServer{echo: e, auth: auth, mem: store}
}

func (s *testServer) do(method, path, body, userAgent string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

const registerAliceBody = `{"username":"alice","password":"secret1","firstName":"Alice","lastName":"Smith"}`

func TestRegisterRedirectsToLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestRegisterValidationErrors(t *testing.T) {
	s := newTestServer(t)

	// Username below the 4-char floor, password below the 6-char floor.
	rec := s.do(http.MethodPost, "/register", `{"username":"al","password":"abc","firstName":"Alice","lastName":"Smith"}`, "agent-a")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INPUT_ERRORS")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username_EXISTS")

	users, err := s.mem.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginFailureBodiesAreIdentical(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	wrongPassword := s.do(http.MethodPost, "/login", `{"username":"alice","password":"wrongpass"}`, "agent-a")
	unknownUser := s.do(http.MethodPost, "/login", `{"username":"nobody","password":"secret1"}`, "agent-a")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestLoginSetsSessionCookieAndRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = s.do(http.MethodPost, "/login", `{"username":"alice","password":"secret1"}`, "agent-a")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))

	var sid *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == models.SessionCookieName {
			sid = cookie
		}
	}
	require.NotNil(t, sid)
	assert.NotEmpty(t, sid.Value)
	assert.True(t, sid.HttpOnly)
}

func TestTokenExchange(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	entries, err := s.mem.GetRefreshTokens(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	refreshToken := entries[len(entries)-1].RefreshToken

	rec = s.do(http.MethodPost, "/token", `{"refreshToken":"`+refreshToken+`"}`, "agent-a")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AccessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestTokenExchangeRejectsUnknownToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = s.do(http.MethodPost, "/token", `{"refreshToken":"bogus"}`, "agent-a")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REFRESH_TOKEN")
}

func TestMeWithRefreshIssuedToken(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	entries, err := s.mem.GetRefreshTokens(ctx, 1)
	require.NoError(t, err)
	accessToken, err := s.auth.Refresh(ctx, entries[0].RefreshToken)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	out := httptest.NewRecorder()
	s.echo.ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), `"alice"`)
}

func TestMeRejectsFingerprintMismatch(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	pair, sessionID, err := s.auth.Login(ctx, models.LoginRequest{Username: "alice", Password: "secret1"}, "agent-a")
	require.NoError(t, err)

	// Without the session cookie there is no fingerprint to match.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+pair.AccessToken)
	out := httptest.NewRecorder()
	s.echo.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)

	// With it, the bound token passes.
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+pair.AccessToken)
	req.AddCookie(&http.Cookie{Name: models.SessionCookieName, Value: sessionID})
	out = httptest.NewRecorder()
	s.echo.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestMeWithoutToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/me", "", "agent-a")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsersListsProjections(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = s.do(http.MethodGet, "/users", "", "agent-a")
	require.Equal(t, http.StatusOK, rec.Code)

	var projections []models.UserProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projections))
	require.Len(t, projections, 1)
	assert.Equal(t, "alice", projections[0].Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogoutDestroysSession(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	rec := s.do(http.MethodPost, "/register", registerAliceBody, "agent-a")
	require.Equal(t, http.StatusFound, rec.Code)

	_, sessionID, err := s.auth.Login(ctx, models.LoginRequest{Username: "alice", Password: "secret1"}, "agent-a")
	require.NoError(t, err)
	require.Equal(t, "agent-a", s.auth.SessionFingerprint(ctx, sessionID))

	rec = s.do(http.MethodPost, "/logout", "", "agent-a", &http.Cookie{Name: models.SessionCookieName, Value: sessionID})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Empty(t, s.auth.SessionFingerprint(ctx, sessionID))
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
