package commute

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jengzang/commutetrackr-go/internal/models"
)

// Minutes is an optional duration in minutes. The zero value is absent.
type Minutes struct {
	Value float64
	Valid bool
}

// Some returns a present duration
func Some(v float64) Minutes {
	return Minutes{Value: v, Valid: true}
}

// MarshalJSON renders absent durations as null
func (m Minutes) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Instant is an optional point in time
type Instant struct {
	Time  time.Time
	Valid bool
}

// DerivedDay is the per-day result of a derivation run
type DerivedDay struct {
	Date         time.Time
	Instants     [models.NumSlots]Instant
	StraightHome bool
	Segments     map[string]Minutes
}

// DateString returns the day formatted as YYYY-MM-DD
func (d DerivedDay) DateString() string {
	return d.Date.Format(models.DateLayout)
}

// Segment returns the duration of the named segment
func (d DerivedDay) Segment(name string) Minutes {
	return d.Segments[name]
}

// Instant returns the parsed instant of slot
func (d DerivedDay) Instant(slot models.Slot) (time.Time, bool) {
	if !slot.Valid() {
		return time.Time{}, false
	}
	in := d.Instants[slot]
	return in.Time, in.Valid
}

// RecordError reports a value that could not be parsed. The rest of the
// record is still derived unless Slot is empty, which means the date itself
// was unusable and the record was skipped.
type RecordError struct {
	Date  string
	Slot  string
	Value string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("record %q: invalid date: %v", e.Date, e.Err)
	}
	return fmt.Sprintf("record %s: slot %s: invalid time %q: %v", e.Date, e.Slot, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Result is the output of Derive
type Result struct {
	Days   []DerivedDay
	Errors []*RecordError
}

// Deriver turns daily commute logs into segment durations
type Deriver struct {
	cfg Config
}

// NewDeriver validates cfg and returns a Deriver for it
func NewDeriver(cfg Config) (*Deriver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Deriver{cfg: cfg}, nil
}

// Config returns the configuration the deriver was built with
func (d *Deriver) Config() Config {
	return d.cfg
}

// Derive computes one DerivedDay per record, in input order. Records with an
// unusable date are skipped and reported; bad slot values are reported and
// treated as unset.
func (d *Deriver) Derive(records []models.CommuteLog) Result {
	res := Result{Days: make([]DerivedDay, 0, len(records))}
	for i := range records {
		day, errs, err := d.DeriveDay(&records[i])
		res.Errors = append(res.Errors, errs...)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Days = append(res.Days, day)
	}
	return res
}

// DeriveDay derives a single record
func (d *Deriver) DeriveDay(rec *models.CommuteLog) (DerivedDay, []*RecordError, *RecordError) {
	date, err := time.Parse(models.DateLayout, rec.Date)
	if err != nil {
		return DerivedDay{}, nil, &RecordError{Date: rec.Date, Err: err}
	}

	day := DerivedDay{
		Date:     date,
		Segments: make(map[string]Minutes, len(d.cfg.Segments)),
	}

	var slotErrs []*RecordError
	for _, slot := range models.AllSlots() {
		raw, ok := rec.Get(slot)
		if !ok {
			continue
		}
		t, err := parseTimeOfDay(date, raw)
		if err != nil {
			slotErrs = append(slotErrs, &RecordError{Date: rec.Date, Slot: slot.String(), Value: raw, Err: err})
			continue
		}
		day.Instants[slot] = Instant{Time: t, Valid: true}
	}

	day.StraightHome = len(d.cfg.StraightHomeSlots) > 0
	for _, slot := range d.cfg.StraightHomeSlots {
		if !day.Instants[slot].Valid {
			day.StraightHome = false
			break
		}
	}

	for _, seg := range d.cfg.Segments {
		start, end := day.Instants[seg.Start], day.Instants[seg.End]
		if !start.Valid || !end.Valid {
			day.Segments[seg.Name] = Minutes{}
			continue
		}
		day.Segments[seg.Name] = Some(end.Time.Sub(start.Time).Minutes())
	}

	// Coming home after a detour is not a commute.
	if d.cfg.DetourSegment != "" {
		if detour := day.Segments[d.cfg.DetourSegment]; detour.Valid && detour.Value > d.cfg.DetourThresholdMinutes {
			day.StraightHome = false
		}
	}

	return day, slotErrs, nil
}

// SeriesValue returns the value of series s for day, honouring the
// straight-home requirement.
func (d *Deriver) SeriesValue(day DerivedDay, s SeriesDefinition) Minutes {
	if s.RequiresStraightHome && !day.StraightHome {
		return Minutes{}
	}
	var total float64
	for _, part := range s.Parts {
		m := day.Segment(part)
		if !m.Valid {
			return Minutes{}
		}
		total += m.Value
	}
	return Some(total)
}

var timeLayouts = []string{models.TimeLayout, "15:04"}

// parseTimeOfDay attaches a time-of-day string to date. Instants are naive
// wall-clock values and carry no zone information.
func parseTimeOfDay(date time.Time, value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
