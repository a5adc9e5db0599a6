package strava

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStravaServer(t *testing.T, activities []Activity) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("refresh_token") != "refresh-me" || r.PostForm.Get("grant_type") != "refresh_token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "access-123", "expires_at": 1})
	})
	mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode(activities)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientActivities(t *testing.T) {
	srv := newStravaServer(t, []Activity{
		{ID: 1, Type: "Ride", StartDateLocal: "2025-03-03T07:30:00Z", ElapsedTime: 720},
		{ID: 2, Type: "Run", StartDateLocal: "2025-03-02T18:00:00Z", ElapsedTime: 1800},
	})
	c := NewClient(ClientConfig{BaseURL: srv.URL + "/", ClientID: "1", ClientSecret: "s", RefreshToken: "refresh-me"})

	activities, err := c.Activities(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Ride", activities[0].Type)
	assert.Equal(t, 720, activities[0].ElapsedTime)
}

func TestClientTokenRejected(t *testing.T) {
	srv := newStravaServer(t, nil)
	c := NewClient(ClientConfig{BaseURL: srv.URL, RefreshToken: "wrong"})

	_, err := c.Activities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestActivityStartIgnoresOffset(t *testing.T) {
	a := Activity{StartDateLocal: "2025-03-03T07:30:05Z", ElapsedTime: 65}

	start, err := a.Start()
	require.NoError(t, err)
	assert.Equal(t, "07:30:05", start.Format("15:04:05"))

	end, err := a.End()
	require.NoError(t, err)
	assert.Equal(t, "07:31:10", end.Format("15:04:05"))

	_, err = Activity{StartDateLocal: "yesterday"}.Start()
	require.Error(t, err)
}
