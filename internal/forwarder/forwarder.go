// Package forwarder posts ride-derived commute times to the tracker's
// external logging endpoint.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jengzang/commutetrackr-go/internal/auth"
	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/spatial"
	"github.com/jengzang/commutetrackr-go/internal/strava"
)

// Subject is the token subject the forwarder signs as
const Subject = "strava-sync"

// Result mirrors the tracker response to /api/log_external
type Result struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	Logged        []string `json:"logged"`
	AlreadyLogged []string `json:"already_logged"`
}

// Forwarder posts slot values to the tracker
type Forwarder struct {
	trackerURL string
	auth       auth.Config
	client     *http.Client
	now        func() time.Time
}

// New creates a forwarder for the tracker at trackerURL
func New(trackerURL string, cfg auth.Config) *Forwarder {
	return &Forwarder{
		trackerURL: strings.TrimRight(trackerURL, "/"),
		auth:       cfg,
		client:     &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Forward sends times to the tracker. A response where nothing was logged is
// not an error; the caller inspects Result.Success.
func (f *Forwarder) Forward(ctx context.Context, times map[models.Slot]string) (*Result, error) {
	payload := make(map[string]string, len(times))
	for slot, v := range times {
		payload[slot.String()] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	token, err := auth.Sign(f.auth, Subject, 5*time.Minute, f.now())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.trackerURL+"/api/log_external", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tracker returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return &res, nil
}

// ActivitySource lists recent activities
type ActivitySource interface {
	Activities(ctx context.Context) ([]strava.Activity, error)
}

// SyncOptions selects the rides of the day
type SyncOptions struct {
	ActivityType string
	Day          time.Time
	Home         *spatial.Geofence
}

// Sync fetches today's rides and forwards them. It returns (nil, nil) when
// there are not enough rides to produce any times.
func (f *Forwarder) Sync(ctx context.Context, src ActivitySource, opts SyncOptions) (*Result, error) {
	activities, err := src.Activities(ctx)
	if err != nil {
		return nil, err
	}

	times, err := strava.CommuteTimes(activities, strava.Filter{Type: opts.ActivityType, Day: opts.Day, Home: opts.Home})
	if errors.Is(err, strava.ErrNotEnoughRides) {
		log.Printf("[Forwarder] No commute rides found for %s: %v", opts.Day.Format(models.DateLayout), err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, slot := range models.ExternalSlots {
		log.Printf("[Forwarder]   %s: %s", slot, times[slot])
	}

	res, err := f.Forward(ctx, times)
	if err != nil {
		return nil, err
	}
	if res.Success {
		log.Printf("[Forwarder] Tracker logged %v", res.Logged)
	} else {
		log.Printf("[Forwarder] Tracker logged nothing: %s (already logged: %v)", res.Error, res.AlreadyLogged)
	}
	return res, nil
}
