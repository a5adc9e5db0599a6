// Package export writes the derived duration tables as CSV files for the
// plotting scripts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jengzang/commutetrackr-go/internal/analysis/commute"
)

// File names written by WriteAll
const (
	DurationsFile     = "durations.csv"
	TotalsFile        = "activity_totals.csv"
	DistributionsFile = "distributions.csv"
	CalendarFile      = "calendar.csv"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMinutes(m commute.Minutes) string {
	if !m.Valid {
		return ""
	}
	return formatFloat(m.Value)
}

func writeRecords(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// WriteDurations writes the long-form table, one row per duration
func WriteDurations(w io.Writer, rows []commute.DurationRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Date, r.Series, formatFloat(r.Duration), string(r.Activity), string(r.Direction), string(r.Anomaly),
		})
	}
	return writeRecords(w, []string{"date", "series", "duration", "activity", "direction", "anomaly"}, records)
}

// WriteTotals writes the summed duration per activity
func WriteTotals(w io.Writer, totals []commute.CategoryTotal) error {
	records := make([][]string, 0, len(totals))
	for _, t := range totals {
		records = append(records, []string{string(t.Activity), formatFloat(t.Duration)})
	}
	return writeRecords(w, []string{"activity", "duration"}, records)
}

// WriteDistributions writes one summary row per activity and direction
func WriteDistributions(w io.Writer, dists []commute.Distribution) error {
	records := make([][]string, 0, len(dists))
	for _, d := range dists {
		s := d.Summary
		records = append(records, []string{
			string(d.Activity), string(d.Direction), strconv.Itoa(s.Count),
			formatFloat(s.Min), formatFloat(s.Q1), formatFloat(s.Median), formatFloat(s.Q3), formatFloat(s.Max),
			formatFloat(s.Mean), formatFloat(s.StdDev), strconv.Itoa(s.Outliers),
		})
	}
	header := []string{"activity", "direction", "count", "min", "q1", "median", "q3", "max", "mean", "stddev", "outliers"}
	return writeRecords(w, header, records)
}

// WriteCalendar writes the door-to-door times by date. Missing values are
// left empty.
func WriteCalendar(w io.Writer, days []commute.CalendarDay) error {
	records := make([][]string, 0, len(days))
	for _, d := range days {
		records = append(records, []string{d.Date, formatMinutes(d.DoorToDoorOut), formatMinutes(d.DoorToDoorReturn)})
	}
	return writeRecords(w, []string{"date", "door_to_door_out", "door_to_door_return"}, records)
}

// Tables groups everything WriteAll exports
type Tables struct {
	Rows          []commute.DurationRow
	Totals        []commute.CategoryTotal
	Distributions []commute.Distribution
	Calendar      []commute.CalendarDay
}

// WriteAll writes every table into dir, creating it if needed
func WriteAll(dir string, t Tables) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{DurationsFile, func(w io.Writer) error { return WriteDurations(w, t.Rows) }},
		{TotalsFile, func(w io.Writer) error { return WriteTotals(w, t.Totals) }},
		{DistributionsFile, func(w io.Writer) error { return WriteDistributions(w, t.Distributions) }},
		{CalendarFile, func(w io.Writer) error { return WriteCalendar(w, t.Calendar) }},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.write); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		log.Printf("[Export] Wrote %s", path)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
