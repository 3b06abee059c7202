package handlers_test

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/JCWilliams12/TaskTrack/internal/token"
)

func TestRegister_TokenResolvesToCreatedIdentity(t *testing.T) {
	env := newTestEnv()

	tok, userID := env.register(t, "john", "john@example.com", "password")

	claims, err := env.tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	env := newTestEnv()

	env.register(t, "john", "John@Example.COM", "password")

	resp := env.do(t, "POST", "/api/auth/login", map[string]string{
		"email":    "john@example.com",
		"password": "password",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	env := newTestEnv()
	env.register(t, "john", "john@example.com", "password")

	cases := []map[string]string{
		{"username": "john", "email": "other@example.com", "password": "password"},
		{"username": "other", "email": "john@example.com", "password": "password"},
	}
	for _, body := range cases {
		resp := env.do(t, "POST", "/api/auth/register", body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var result map[string]interface{}
		decode(t, resp, &result)
		assert.Equal(t, "Username or email already exists", result["message"])
	}

	// No duplicate record was created: the original credentials still work.
	resp := env.do(t, "POST", "/api/auth/login", map[string]string{
		"email":    "john@example.com",
		"password": "password",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv()

	cases := []map[string]string{
		{"username": "jo", "email": "a@b.com", "password": "password"},                      // username too short
		{"username": "johnjohnjohnjohnjohn1", "email": "a@b.com", "password": "password"},  // username too long
		{"username": "john", "email": "not-an-email", "password": "password"},              // bad email
		{"username": "john", "email": "a@b.com", "password": "short"},                      // password too short
		{"username": "john", "email": "a@b.com"},                                           // missing password
	}
	for _, body := range cases {
		resp := env.do(t, "POST", "/api/auth/register", body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestLogin_UniformFailureShape(t *testing.T) {
	env := newTestEnv()
	env.register(t, "john", "john@example.com", "password")

	wrongSecret := env.do(t, "POST", "/api/auth/login", map[string]string{
		"email":    "john@example.com",
		"password": "wrong-password",
	}, "")
	noSuchUser := env.do(t, "POST", "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	}, "")

	require.Equal(t, http.StatusUnauthorized, wrongSecret.StatusCode)
	require.Equal(t, http.StatusUnauthorized, noSuchUser.StatusCode)

	// Identical bodies: no user-existence leakage.
	body1, err := io.ReadAll(wrongSecret.Body)
	require.NoError(t, err)
	body2, err := io.ReadAll(noSuchUser.Body)
	require.NoError(t, err)
	assert.Equal(t, string(body1), string(body2))
}

func TestMe(t *testing.T) {
	env := newTestEnv()
	tok, userID := env.register(t, "john", "john@example.com", "password")

	resp := env.do(t, "GET", "/api/auth/me", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	decode(t, resp, &result)
	assert.Equal(t, userID, result.User.ID)
	assert.Equal(t, "john", result.User.Username)
	assert.Equal(t, "john@example.com", result.User.Email)
}

func TestAuthGate_MissingVersusInvalidToken(t *testing.T) {
	env := newTestEnv()

	// No Authorization header: 401.
	resp := env.do(t, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var result map[string]interface{}
	decode(t, resp, &result)
	assert.Equal(t, "Access token required", result["message"])

	// Garbled token: 403, a distinct signal.
	resp = env.do(t, "GET", "/api/auth/me", nil, "garbled")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	decode(t, resp, &result)
	assert.Equal(t, "Invalid or expired token", result["message"])
}

func TestAuthGate_ExpiredToken(t *testing.T) {
	env := newTestEnv()
	_, userID := env.register(t, "john", "john@example.com", "password")

	expired := token.NewService([]byte("test-secret"), -1*time.Minute)
	tok, err := expired.Issue(userID)
	require.NoError(t, err)

	for _, path := range []string{"/api/auth/me", "/api/tasks", "/api/tasks/stats/summary"} {
		resp := env.do(t, "GET", path, nil, tok)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAuthGate_TokenForDeletedUser(t *testing.T) {
	env := newTestEnv()
	tok, userID := env.register(t, "john", "john@example.com", "password")

	oid, err := primitive.ObjectIDFromHex(userID)
	require.NoError(t, err)
	env.users.Delete(oid)

	resp := env.do(t, "GET", "/api/auth/me", nil, tok)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
