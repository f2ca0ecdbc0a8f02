package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/gearbox/internal/domain/auth"
	"github.com/yanqian/gearbox/internal/domain/profile"
	"github.com/yanqian/gearbox/internal/infra/config"
	"github.com/yanqian/gearbox/internal/infra/imagestore"
	"github.com/yanqian/gearbox/internal/infra/tokenstore"
	"github.com/yanqian/gearbox/internal/infra/userrepo"
)

func newRouterUnderTest(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	directory := userrepo.NewMemoryDirectory()
	tokens := tokenstore.NewMemoryStore(24 * time.Hour)
	authSvc := auth.NewService(auth.Config{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, directory, auth.NewJWTSigner("test-secret"), tokens, logger)
	profileSvc := profile.NewService(directory, imagestore.NewMemoryStore(), logger)
	handler := NewHandler(authSvc, profileSvc, logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, authSvc).Handler
}

func performJSON(t *testing.T, router http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorBody(t *testing.T, payload []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &body))
	return body
}

func TestRouter_SignUpAndSignIn(t *testing.T) {
	router := newRouterUnderTest(t)

	recorder := performJSON(t, router, "/api/v1/auth/signup",
		`{"email":"test@example.com","username":"testuser","password":"ValidPass123!","confirmPassword":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var signedUp auth.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signedUp))
	require.NotEmpty(t, signedUp.AccessToken)
	require.NotEmpty(t, signedUp.RefreshToken)
	require.NotEmpty(t, signedUp.UserID)
	require.Equal(t, "test@example.com", signedUp.Email)
	require.Equal(t, "testuser", signedUp.Username)

	recorder = performJSON(t, router, "/api/v1/auth/signin",
		`{"email":"test@example.com","password":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var signedIn auth.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signedIn))
	require.Equal(t, signedUp.UserID, signedIn.UserID)
	require.NotEmpty(t, signedIn.AccessToken)
}

func TestRouter_SignIn_UnknownEmail(t *testing.T) {
	router := newRouterUnderTest(t)

	recorder := performJSON(t, router, "/api/v1/auth/signin",
		`{"email":"test@example.com","password":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "user_not_found", errBody["error"]["code"])
	require.Equal(t, "User is not found.", errBody["error"]["message"])
}

func TestRouter_SignUp_ShortPassword(t *testing.T) {
	router := newRouterUnderTest(t)

	recorder := performJSON(t, router, "/api/v1/auth/signup",
		`{"email":"test@example.com","username":"testuser","password":"short","confirmPassword":"short"}`, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "password_policy_violation", errBody["error"]["code"])
	require.Equal(t, "Password must have at least eight characters.", errBody["error"]["message"])
}

func TestRouter_Validate(t *testing.T) {
	router := newRouterUnderTest(t)

	recorder := performJSON(t, router, "/api/v1/auth/validate",
		`{"email":"test@example.com","password":"ValidPass123!","confirmPassword":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = performJSON(t, router, "/api/v1/auth/signup",
		`{"email":"test@example.com","username":"testuser","password":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = performJSON(t, router, "/api/v1/auth/validate",
		`{"email":"test@example.com","password":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusConflict, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "user_already_exists", errBody["error"]["code"])
	require.Equal(t, "User already exists.", errBody["error"]["message"])
}

func TestRouter_Refresh(t *testing.T) {
	router := newRouterUnderTest(t)

	recorder := performJSON(t, router, "/api/v1/auth/signup",
		`{"email":"test@example.com","username":"testuser","password":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var signedUp auth.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signedUp))

	payload, err := json.Marshal(auth.RefreshRequest{RefreshToken: signedUp.RefreshToken})
	require.NoError(t, err)
	recorder = performJSON(t, router, "/api/v1/auth/refresh", string(payload), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var refreshed auth.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &refreshed))
	require.Equal(t, signedUp.UserID, refreshed.UserID)

	recorder = performJSON(t, router, "/api/v1/auth/refresh", `{"refreshToken":"not-a-token"}`, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRouter_Me_RequiresToken(t *testing.T) {
	router := newRouterUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRouter_MeAndAvatar(t *testing.T) {
	router := newRouterUnderTest(t)

	recorder := performJSON(t, router, "/api/v1/auth/signup",
		`{"email":"test@example.com","username":"testuser","password":"ValidPass123!"}`, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var signedUp auth.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signedUp))
	bearer := "Bearer " + signedUp.AccessToken

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", bearer)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var me auth.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &me))
	require.Equal(t, signedUp.UserID, me.ID)
	require.Empty(t, me.PasswordHash)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/me/avatar", &buf)
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated auth.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
	require.NotEmpty(t, updated.AvatarURL)
}
