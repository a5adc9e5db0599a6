package strava

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/spatial"
)

// ErrNotEnoughRides is returned when fewer than two rides qualify for the day
var ErrNotEnoughRides = errors.New("fewer than two rides today")

// Filter selects the activities that count as commute rides
type Filter struct {
	Type string
	Day  time.Time // only the calendar date is used
	Home *spatial.Geofence
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (f Filter) qualifies(a Activity, start time.Time) bool {
	if !sameDay(start, f.Day) {
		return false
	}
	if f.Home == nil {
		return true
	}
	for _, p := range [][]float64{a.StartLatLng, a.EndLatLng} {
		if len(p) == 2 && f.Home.Contains(p[0], p[1]) {
			return true
		}
	}
	return false
}

// CommuteTimes maps the qualifying rides of the day onto the outdoor slots.
// The earliest two instants are the ride to the station, the latest two the
// ride home. Activities with an unreadable start are logged and skipped.
func CommuteTimes(activities []Activity, f Filter) (map[models.Slot]string, error) {
	var instants []time.Time
	rides := 0
	for _, a := range activities {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		start, err := a.Start()
		if err != nil {
			log.Printf("[Strava] Skipping activity: %v", err)
			continue
		}
		if !f.qualifies(a, start) {
			continue
		}
		end, _ := a.End()
		instants = append(instants, start, end)
		rides++
	}

	if rides < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughRides, rides)
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	n := len(instants)
	return map[models.Slot]string{
		models.LeftHome:         instants[0].Format(models.TimeLayout),
		models.ArrivedAtStation: instants[1].Format(models.TimeLayout),
		models.LeftStation:      instants[n-2].Format(models.TimeLayout),
		models.ArrivedAtHome:    instants[n-1].Format(models.TimeLayout),
	}, nil
}
