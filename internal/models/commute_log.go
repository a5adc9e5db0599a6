package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Slot identifies one named event of the commute. Values follow the
// canonical chain order.
type Slot int

const (
	LeftHome Slot = iota
	BoardedTrainOut
	AlightedTrainOut
	BoardedTubeOut
	AlightedTubeOut
	ArrivedAtScaleSpace
	LeftScaleSpace
	BoardedTubeReturn
	AlightedTubeReturn
	BoardedTrainReturn
	AlightedTrainReturn
	ArrivedAtStation
	LeftStation
	ArrivedAtHome

	NumSlots int = iota
)

var slotNames = [NumSlots]string{
	"left_home",
	"boarded_train_out",
	"alighted_train_out",
	"boarded_tube_out",
	"alighted_tube_out",
	"arrived_at_scale_space",
	"left_scale_space",
	"boarded_tube_return",
	"alighted_tube_return",
	"boarded_train_return",
	"alighted_train_return",
	"arrived_at_station",
	"left_station",
	"arrived_at_home",
}

// ErrInvalidSlot is returned when a name does not match any event slot
var ErrInvalidSlot = errors.New("invalid event slot")

// String returns the column name of the slot
func (s Slot) String() string {
	if s < 0 || int(s) >= NumSlots {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// Valid reports whether s is one of the known slots
func (s Slot) Valid() bool {
	return s >= 0 && int(s) < NumSlots
}

// ParseSlot maps a column name to its slot
func ParseSlot(name string) (Slot, error) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, name)
}

// AllSlots returns every slot in chain order
func AllSlots() []Slot {
	out := make([]Slot, NumSlots)
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}

// ActivitySlots are the slots that mark a day as active. A record where all
// of them are unset is an inactive day.
var ActivitySlots = []Slot{
	LeftHome,
	BoardedTrainOut,
	AlightedTrainOut,
	BoardedTubeOut,
	AlightedTubeOut,
	ArrivedAtScaleSpace,
	LeftScaleSpace,
	BoardedTubeReturn,
}

// ButtonSlots can be logged from the tracker page
var ButtonSlots = []Slot{
	BoardedTrainOut,
	AlightedTrainOut,
	BoardedTubeOut,
	AlightedTubeOut,
	ArrivedAtScaleSpace,
	LeftScaleSpace,
	BoardedTubeReturn,
	AlightedTubeReturn,
	BoardedTrainReturn,
	AlightedTrainReturn,
}

// ExternalSlots are supplied by the ride forwarder
var ExternalSlots = []Slot{
	LeftHome,
	ArrivedAtStation,
	LeftStation,
	ArrivedAtHome,
}

// ContainsSlot reports whether slot is in set
func ContainsSlot(set []Slot, slot Slot) bool {
	for _, s := range set {
		if s == slot {
			return true
		}
	}
	return false
}

// TimeLayout is the time-of-day format stored in every slot
const TimeLayout = "15:04:05"

// DateLayout is the format of CommuteLog.Date
const DateLayout = "2006-01-02"

// CommuteLog is one day of logged commute events
type CommuteLog struct {
	ID     int64
	Date   string
	Events map[Slot]string
}

// NewCommuteLog creates an empty log for date
func NewCommuteLog(date string) *CommuteLog {
	return &CommuteLog{Date: date, Events: make(map[Slot]string)}
}

// Get returns the raw value of slot. Empty strings count as unset.
func (l *CommuteLog) Get(slot Slot) (string, bool) {
	if l == nil || l.Events == nil {
		return "", false
	}
	v, ok := l.Events[slot]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set stores value for slot
func (l *CommuteLog) Set(slot Slot, value string) {
	if l.Events == nil {
		l.Events = make(map[Slot]string)
	}
	l.Events[slot] = value
}

// IsActive reports whether any activity slot is set
func (l *CommuteLog) IsActive() bool {
	for _, s := range ActivitySlots {
		if _, ok := l.Get(s); ok {
			return true
		}
	}
	return false
}

// MarshalJSON renders the log as a flat object, one key per slot, with null
// for unset slots.
func (l CommuteLog) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, NumSlots+2)
	out["id"] = l.ID
	out["date"] = l.Date
	for _, s := range AllSlots() {
		if v, ok := l.Get(s); ok {
			out[s.String()] = v
		} else {
			out[s.String()] = nil
		}
	}
	return json.Marshal(out)
}

// LogFilter represents filter parameters for listing commute logs
type LogFilter struct {
	From string `form:"from"` // YYYY-MM-DD, inclusive
	To   string `form:"to"`   // YYYY-MM-DD, inclusive
}

// ErrInvalidDate is returned for filter bounds that are not YYYY-MM-DD
var ErrInvalidDate = errors.New("dates must be YYYY-MM-DD")

// Validate checks that the set bounds are dates
func (f LogFilter) Validate() error {
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, d)
		}
	}
	return nil
}
