package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/JCWilliams12/TaskTrack/internal/api"
	"github.com/JCWilliams12/TaskTrack/internal/api/handlers"
	"github.com/JCWilliams12/TaskTrack/internal/apperr"
	"github.com/JCWilliams12/TaskTrack/internal/repository"
	"github.com/JCWilliams12/TaskTrack/internal/token"
	"github.com/JCWilliams12/TaskTrack/pkg/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")
	logger.InitLoggers()
	code := m.Run()
	logger.SyncLoggers()
	os.Exit(code)
}

type testEnv struct {
	app    *fiber.App
	users  *repository.MemoryUserStore
	tasks  *repository.MemoryTaskStore
	tokens *token.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:  repository.NewMemoryUserStore(),
		tasks:  repository.NewMemoryTaskStore(),
		tokens: token.NewService([]byte("test-secret"), token.DefaultTTL),
	}
	env.app = fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	api.RegisterRoutes(env.app, handlers.New(env.users, env.tasks, env.tokens, nil))
	return env
}

// do sends a JSON request through the Fiber app, with an optional bearer
// token, and returns the response.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, bearer string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

// register creates an account and returns its token and user id.
func (e *testEnv) register(t *testing.T, username, email, password string) (string, string) {
	t.Helper()
	resp := e.do(t, "POST", "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, resp, &result)
	require.NotEmpty(t, result.Token)
	require.NotEmpty(t, result.User.ID)
	return result.Token, result.User.ID
}

// createTask creates a task for the given token and returns its decoded body.
func (e *testEnv) createTask(t *testing.T, bearer string, body interface{}) map[string]interface{} {
	t.Helper()
	resp := e.do(t, "POST", "/api/tasks", body, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task map[string]interface{}
	decode(t, resp, &task)
	return task
}
