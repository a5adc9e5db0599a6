// Command strava-sync forwards today's ride times from Strava to the tracker.
package main

import (
	"context"
	"log"
	"time"

	"github.com/jengzang/commutetrackr-go/internal/auth"
	"github.com/jengzang/commutetrackr-go/internal/config"
	"github.com/jengzang/commutetrackr-go/internal/forwarder"
	"github.com/jengzang/commutetrackr-go/internal/spatial"
	"github.com/jengzang/commutetrackr-go/internal/strava"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := strava.NewClient(strava.ClientConfig{
		BaseURL:      cfg.StravaBaseURL,
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		RefreshToken: cfg.StravaRefreshToken,
		PerPage:      cfg.StravaPerPage,
	})
	fwd := forwarder.New(cfg.TrackerURL, auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	res, err := fwd.Sync(ctx, client, forwarder.SyncOptions{
		ActivityType: cfg.StravaActivityType,
		Day:          time.Now().In(cfg.Location()),
		Home:         spatial.NewGeofence(cfg.HomeLat, cfg.HomeLon, cfg.HomeRadiusMeters),
	})
	if err != nil {
		log.Fatal("Sync failed:", err)
	}
	if res != nil && res.Success {
		log.Println("Successfully updated CommuteTrackr")
	}
}
