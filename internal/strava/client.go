// Package strava reads recent activities from the Strava API and turns the
// day's rides into the outdoor commute slots.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ClientConfig holds the OAuth application credentials
type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RefreshToken string
	PerPage      int
}

// Client talks to the Strava API
type Client struct {
	cfg    ClientConfig
	client *http.Client
}

// NewClient creates a new Strava client
func NewClient(cfg ClientConfig) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PerPage <= 0 {
		cfg.PerPage = 5
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Activity is the subset of a Strava summary activity the sync needs
type Activity struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	StartDateLocal string    `json:"start_date_local"`
	ElapsedTime    int       `json:"elapsed_time"` // seconds
	StartLatLng    []float64 `json:"start_latlng"`
	EndLatLng      []float64 `json:"end_latlng"`
}

// Start returns the local wall-clock start of the activity. Strava marks
// start_date_local with a Z suffix although it is not UTC, so the offset is
// ignored and the result is naive.
func (a Activity) Start() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, a.StartDateLocal)
	if err != nil {
		return time.Time{}, fmt.Errorf("activity %d: bad start_date_local %q: %w", a.ID, a.StartDateLocal, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// End returns Start plus the elapsed time
func (a Activity) End() (time.Time, error) {
	start, err := a.Start()
	if err != nil {
		return start, err
	}
	return start.Add(time.Duration(a.ElapsedTime) * time.Second), nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AccessToken exchanges the refresh token for a short-lived access token
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"refresh_token": {c.cfg.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token refresh failed: empty access token")
	}
	return tok.AccessToken, nil
}

// Activities lists the most recent activities of the athlete
func (c *Client) Activities(ctx context.Context) ([]Activity, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	u := c.cfg.BaseURL + "/api/v3/athlete/activities?per_page=" + strconv.Itoa(c.cfg.PerPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var activities []Activity
	if err := c.do(req, &activities); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	log.Printf("[Strava] Fetched %d activities", len(activities))
	return activities, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
