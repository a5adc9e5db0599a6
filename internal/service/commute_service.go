package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/observability"
	"github.com/jengzang/commutetrackr-go/internal/repository"
)

var (
	// ErrAlreadyLogged is returned when a slot already holds a value today
	ErrAlreadyLogged = errors.New("activity already logged today")
	// ErrInvalidTime is returned for external values that are not HH:MM:SS
	ErrInvalidTime = errors.New("invalid time format, use HH:MM:SS")
	// ErrNothingLogged is returned when an external payload wrote no slot
	ErrNothingLogged = errors.New("no activities were logged")
)

// CommuteService handles logging of commute events
type CommuteService struct {
	repo *repository.CommuteRepository
	loc  *time.Location
	now  func() time.Time
}

// NewCommuteService creates a new commute service. Days and times are
// taken in loc.
func NewCommuteService(repo *repository.CommuteRepository, loc *time.Location) *CommuteService {
	if loc == nil {
		loc = time.Local
	}
	return &CommuteService{repo: repo, loc: loc, now: time.Now}
}

// WithClock replaces the clock, for tests
func (s *CommuteService) WithClock(now func() time.Time) *CommuteService {
	s.now = now
	return s
}

func (s *CommuteService) today() (date, clock string) {
	now := s.now().In(s.loc)
	return now.Format(models.DateLayout), now.Format(models.TimeLayout)
}

// Today returns today's record, creating it if needed
func (s *CommuteService) Today(ctx context.Context) (*models.CommuteLog, error) {
	date, _ := s.today()
	return s.repo.GetOrCreate(ctx, date)
}

// LogButton stamps slot with the current time unless it is already set.
// Only the tracker page slots are accepted.
func (s *CommuteService) LogButton(ctx context.Context, slot models.Slot) (string, error) {
	if !models.ContainsSlot(models.ButtonSlots, slot) {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidSlot, slot)
	}

	date, clock := s.today()
	written, err := s.repo.SetSlotIfUnset(ctx, date, slot, clock)
	if err != nil {
		observability.RecordEvent(slot.String(), observability.SourceButton, observability.ResultError)
		return "", err
	}
	if !written {
		observability.RecordEvent(slot.String(), observability.SourceButton, observability.ResultAlreadyLogged)
		return "", ErrAlreadyLogged
	}

	observability.RecordEvent(slot.String(), observability.SourceButton, observability.ResultLogged)
	log.Printf("[CommuteService] Logged activity: %s at %s", slot, clock)
	return clock, nil
}

// ExternalResult lists the outcome of an external payload
type ExternalResult struct {
	Logged        []string `json:"logged"`
	AlreadyLogged []string `json:"already_logged,omitempty"`
}

// LogExternal writes ride-derived times for today. Keys outside the external
// slots and empty values are ignored; a malformed time rejects the payload.
func (s *CommuteService) LogExternal(ctx context.Context, payload map[string]string) (*ExternalResult, error) {
	values := make(map[models.Slot]string)
	for key, value := range payload {
		slot, err := models.ParseSlot(key)
		if err != nil || !models.ContainsSlot(models.ExternalSlots, slot) || value == "" {
			continue
		}
		if _, err := time.Parse(models.TimeLayout, value); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTime, key)
		}
		values[slot] = value
	}

	date, _ := s.today()
	written, skipped, err := s.repo.SetSlotsIfUnset(ctx, date, values)
	if err != nil {
		for slot := range values {
			observability.RecordEvent(slot.String(), observability.SourceExternal, observability.ResultError)
		}
		return nil, err
	}

	res := &ExternalResult{Logged: []string{}}
	for _, slot := range written {
		res.Logged = append(res.Logged, slot.String())
		observability.RecordEvent(slot.String(), observability.SourceExternal, observability.ResultLogged)
	}
	for _, slot := range skipped {
		res.AlreadyLogged = append(res.AlreadyLogged, slot.String())
		observability.RecordEvent(slot.String(), observability.SourceExternal, observability.ResultAlreadyLogged)
	}

	if len(res.Logged) == 0 {
		return res, ErrNothingLogged
	}
	log.Printf("[CommuteService] Logged external activities: %v", res.Logged)
	return res, nil
}
