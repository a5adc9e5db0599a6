package commute

import (
	"sort"

	"github.com/jengzang/commutetrackr-go/internal/stats"
)

// CategoryTotal is the summed duration of one activity category
type CategoryTotal struct {
	Activity Category `json:"activity"`
	Duration float64  `json:"duration"`
}

// CategoryTotals sums durations per activity, leaving out door-to-door rows
// since they overlap every other category. Results are sorted by activity.
func CategoryTotals(rows []DurationRow) []CategoryTotal {
	sums := make(map[Category]float64)
	for _, r := range rows {
		if r.Activity == DoorToDoor {
			continue
		}
		sums[r.Activity] += r.Duration
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for c, v := range sums {
		totals = append(totals, CategoryTotal{Activity: c, Duration: v})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Activity < totals[j].Activity
	})
	return totals
}

// Distribution holds the durations of one activity in one direction
type Distribution struct {
	Activity  Category      `json:"activity"`
	Direction Direction     `json:"direction"`
	Durations []float64     `json:"durations"`
	Summary   stats.Summary `json:"summary"`
}

// Distributions groups rows by (activity, direction). Activities appear in
// the order they first occur in rows, with out before return.
func Distributions(rows []DurationRow) []Distribution {
	var order []Category
	seen := make(map[Category]bool)
	values := make(map[Category]map[Direction][]float64)

	for _, r := range rows {
		if !seen[r.Activity] {
			seen[r.Activity] = true
			order = append(order, r.Activity)
			values[r.Activity] = make(map[Direction][]float64)
		}
		values[r.Activity][r.Direction] = append(values[r.Activity][r.Direction], r.Duration)
	}

	var out []Distribution
	for _, c := range order {
		for _, dir := range []Direction{Out, Return} {
			durations, ok := values[c][dir]
			if !ok {
				continue
			}
			out = append(out, Distribution{
				Activity:  c,
				Direction: dir,
				Durations: durations,
				Summary:   stats.Summarize(durations),
			})
		}
	}
	return out
}

// CalendarDay is one cell of the door-to-door calendar heatmaps
type CalendarDay struct {
	Date             string  `json:"date"`
	DoorToDoorOut    Minutes `json:"door_to_door_out"`
	DoorToDoorReturn Minutes `json:"door_to_door_return"`
}

// Calendar pivots the door-to-door times by date. The return value is only
// kept for straight-home days.
func (d *Deriver) Calendar(days []DerivedDay) []CalendarDay {
	out := make([]CalendarDay, 0, len(days))
	for _, day := range days {
		cell := CalendarDay{
			Date:          day.DateString(),
			DoorToDoorOut: day.Segment(d.cfg.OutboundTotal),
		}
		if day.StraightHome {
			cell.DoorToDoorReturn = day.Segment(d.cfg.ReturnTotal)
		}
		out = append(out, cell)
	}
	return out
}
