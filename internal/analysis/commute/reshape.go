package commute

import (
	"fmt"
	"math"
)

// Anomaly marks a duration that was passed through but looks implausible
type Anomaly string

const (
	AnomalyNone      Anomaly = ""
	AnomalyNegative  Anomaly = "negative"
	AnomalyExcessive Anomaly = "excessive"
)

// DurationRow is one row of the long-form duration table
type DurationRow struct {
	Date      string    `json:"date"`
	Series    string    `json:"series"`
	Duration  float64   `json:"duration"`
	Activity  Category  `json:"activity"`
	Direction Direction `json:"direction"`
	Anomaly   Anomaly   `json:"anomaly,omitempty"`
}

// Reshape flattens derived days into the long-form table. Rows are grouped by
// series in configuration order, and by day in input order within a series.
func (d *Deriver) Reshape(days []DerivedDay) []DurationRow {
	var rows []DurationRow
	for _, s := range d.cfg.Series {
		for _, day := range days {
			v := d.SeriesValue(day, s)
			if !v.Valid {
				continue
			}
			rows = append(rows, DurationRow{
				Date:      day.DateString(),
				Series:    s.Name,
				Duration:  v.Value,
				Activity:  s.Category,
				Direction: s.Direction,
				Anomaly:   d.classify(v.Value),
			})
		}
	}
	return rows
}

func (d *Deriver) classify(minutes float64) Anomaly {
	if minutes < 0 {
		return AnomalyNegative
	}
	if d.cfg.AnomalyCeilingMinutes > 0 && minutes > d.cfg.AnomalyCeilingMinutes {
		return AnomalyExcessive
	}
	return AnomalyNone
}

// CommuteTotal is the total time spent commuting
type CommuteTotal struct {
	Minutes float64 `json:"minutes"`
	Days    int     `json:"days"` // days contributing at least one leg
}

// Hours returns the whole hours of the total
func (t CommuteTotal) Hours() int {
	return int(math.Floor(t.Minutes / 60))
}

// RemainderMinutes returns the whole minutes left after Hours
func (t CommuteTotal) RemainderMinutes() int {
	return int(math.Floor(t.Minutes - float64(t.Hours())*60))
}

func (t CommuteTotal) String() string {
	return fmt.Sprintf("%dh %dm", t.Hours(), t.RemainderMinutes())
}

// TotalCommute sums the outbound door-to-door time of every day and the
// return door-to-door time of straight-home days.
func (d *Deriver) TotalCommute(days []DerivedDay) CommuteTotal {
	var total CommuteTotal
	for _, day := range days {
		counted := false
		if out := day.Segment(d.cfg.OutboundTotal); d.cfg.OutboundTotal != "" && out.Valid {
			total.Minutes += out.Value
			counted = true
		}
		if ret := day.Segment(d.cfg.ReturnTotal); d.cfg.ReturnTotal != "" && ret.Valid && day.StraightHome {
			total.Minutes += ret.Value
			counted = true
		}
		if counted {
			total.Days++
		}
	}
	return total
}
