package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/vitaltrack/internal/config"
	"github.com/sakif/vitaltrack/internal/model"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWithOrigins(t, "*")
}

func newTestServerWithOrigins(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, CORSAllowedOrigins: origins},
		DBPath: ":memory:",
		Auth:   config.AuthConfig{JWTSecret: "test-secret-0123456789", TokenTTL: time.Hour},
	}
	srv, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))
}

func TestServer_CORSCredentials(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		allowOrigin string
		credentials string
	}{
		{
			name:        "wildcard never allows credentials",
			origins:     []string{"*"},
			origin:      "http://evil.example",
			allowOrigin: "*",
			credentials: "",
		},
		{
			name:        "explicit origin allows credentials",
			origins:     []string{"http://localhost:3000"},
			origin:      "http://localhost:3000",
			allowOrigin: "http://localhost:3000",
			credentials: "true",
		},
		{
			name:        "unlisted origin gets no headers",
			origins:     []string{"http://localhost:3000"},
			origin:      "http://evil.example",
			allowOrigin: "",
			credentials: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServerWithOrigins(t, tt.origins...)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.allowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.credentials, rr.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestServer_AccountFlow(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/register", `{"username":"ana","password":"secreto123"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/register", `{"username":"ana","password":"otra"}`, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/login", `{"username":"ana","password":"secreto123"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var login struct {
		Token string            `json:"token"`
		User  model.UserSummary `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "ana", login.User.Username)

	rr = do(t, h, http.MethodPost, "/api/log-food", `{"food_name":"Manzana","calories":52}`, login.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"success":true,"streak":1}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/me", "", login.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":`+jsonInt(login.User.ID)+`,"username":"ana","streak":1}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/daily-logs", "", login.Token)
	var logs []model.FoodLogEntry
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "Manzana", logs[0].FoodName)

	// The guest does not see the account's logs.
	rr = do(t, h, http.MethodGet, "/api/daily-logs", "", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestServer_MeRequiresToken(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/me", "", "forged").Code)
}

func TestServer_InvalidTokenActsAsGuest(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/api/profile", "", "forged")
	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, float64(2594), body["daily_target"])
}

func TestServer_SearchUsesSeededCatalog(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/api/search-food?q=manzana", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var results []model.FoodResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&results))
	assert.Contains(t, results, model.FoodResult{Name: "Manzana", Calories: 52, Source: model.SourceLocal})
}

func TestServer_MealPlanIsStable(t *testing.T) {
	h := newTestServer(t)

	first := do(t, h, http.MethodGet, "/api/meal-plan", "", "")
	require.Equal(t, http.StatusOK, first.Code)
	second := do(t, h, http.MethodGet, "/api/meal-plan", "", "")
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var plan model.MealPlan
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &plan))
	assert.Equal(t, 2594, plan.Target)
	require.NotEmpty(t, plan.Items)

	sum := 0
	for _, it := range plan.Items {
		sum += it.Calories
	}
	assert.LessOrEqual(t, sum, plan.Target)
}

func TestServer_HabitRoutes(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/habits", `{"habit_name":"Beber agua"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	rr = do(t, h, http.MethodPut, "/api/habits/"+jsonInt(created.ID), `{"completed":1}`, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/habits/9999", `{"completed":true}`, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/habits", "", "")
	var habits []model.Habit
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&habits))
	require.Len(t, habits, 1)
	assert.True(t, habits[0].Completed)
}

func TestServer_GitHubRoutesOnlyWhenConfigured(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/auth/github/login", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
