package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/vitaltrack/internal/model"
)

// echoUserID writes the resolved user id as the response body.
var echoUserID = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(strconv.FormatInt(UserIDFromContext(r.Context()), 10)))
})

func TestOptionalAuth(t *testing.T) {
	ts := newTestTokenService(t)
	valid, _ := ts.Generate(9)
	expired, _ := ts.GenerateWithDuration(9, -time.Minute)
	guestToken, _ := ts.Generate(model.GuestID)

	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer " + valid, "", "9"},
		{"lowercase scheme", "bearer " + valid, "", "9"},
		{"cookie", "", valid, "9"},
		{"no credentials", "", "", "0"},
		{"invalid token", "Bearer garbage", "", "0"},
		{"expired token", "Bearer " + expired, "", "0"},
		{"non-bearer scheme", "Basic " + valid, "", "0"},
		{"token for guest id", "Bearer " + guestToken, "", "0"},
		{"header wins over cookie", "Bearer garbage", valid, "0"},
	}

	h := OptionalAuth(ts)(echoUserID)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	ts := newTestTokenService(t)
	valid, _ := ts.Generate(9)
	h := RequireAuth(ts)(echoUserID)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"valid authentication required","code":"unauthorized"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", rec.Body.String())
}

func TestNewState_IsUnique(t *testing.T) {
	assert.NotEqual(t, NewState(), NewState())
}
