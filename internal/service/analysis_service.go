package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jengzang/commutetrackr-go/internal/analysis/commute"
	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/observability"
	"github.com/jengzang/commutetrackr-go/internal/repository"
)

// AnalysisService derives journey durations from the stored commute logs
type AnalysisService struct {
	repo    *repository.CommuteRepository
	deriver *commute.Deriver
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(repo *repository.CommuteRepository, deriver *commute.Deriver) *AnalysisService {
	return &AnalysisService{repo: repo, deriver: deriver}
}

// Report is the result of one analysis run
type Report struct {
	Days      []commute.DerivedDay    `json:"-"`
	Rows      []commute.DurationRow   `json:"rows"`
	Totals    []commute.CategoryTotal `json:"totals"`
	Total     commute.CommuteTotal    `json:"total"`
	Errors    []string                `json:"errors,omitempty"`
	Anomalies map[string]int          `json:"anomalies,omitempty"`
}

// Run loads the active days in filter and derives every table from them
func (s *AnalysisService) Run(ctx context.Context, filter models.LogFilter) (*Report, error) {
	logs, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load commute logs: %w", err)
	}

	res := s.deriver.Derive(logs)
	report := &Report{
		Days:      res.Days,
		Rows:      s.deriver.Reshape(res.Days),
		Total:     s.deriver.TotalCommute(res.Days),
		Anomalies: make(map[string]int),
	}
	report.Totals = commute.CategoryTotals(report.Rows)

	for _, e := range res.Errors {
		log.Printf("[AnalysisService] Skipping bad value: %v", e)
		report.Errors = append(report.Errors, e.Error())
	}
	for _, row := range report.Rows {
		if row.Anomaly != commute.AnomalyNone {
			report.Anomalies[string(row.Anomaly)]++
		}
	}
	observability.RecordAnalysisRun(len(res.Errors), report.Anomalies)

	log.Printf("[AnalysisService] Derived %d days into %d rows, total commuting time %s", len(res.Days), len(report.Rows), report.Total)
	return report, nil
}

// Distributions groups the report rows by activity and direction
func (r *Report) Distributions() []commute.Distribution {
	return commute.Distributions(r.Rows)
}

// Calendar returns the door-to-door pivot for the report days
func (s *AnalysisService) Calendar(r *Report) []commute.CalendarDay {
	return s.deriver.Calendar(r.Days)
}
