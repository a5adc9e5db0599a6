package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commutetrackr",
		Subsystem: "events",
		Name:      "logged_total",
		Help:      "Event slot write attempts by slot, source and result.",
	}, []string{"slot", "source", "result"})
	analysisRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "commutetrackr",
		Subsystem: "analysis",
		Name:      "runs_total",
		Help:      "Number of derivation runs over the commute log.",
	})
	recordErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "commutetrackr",
		Subsystem: "analysis",
		Name:      "record_errors_total",
		Help:      "Unparseable values found while deriving durations.",
	})
	durationAnomalies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commutetrackr",
		Subsystem: "analysis",
		Name:      "duration_anomalies_total",
		Help:      "Derived durations flagged as implausible, by kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(eventsLogged, analysisRuns, recordErrors, durationAnomalies)
}

// Event write results
const (
	ResultLogged        = "logged"
	ResultAlreadyLogged = "already_logged"
	ResultError         = "error"
)

// Event sources
const (
	SourceButton   = "button"
	SourceExternal = "external"
)

// RecordEvent counts one slot write attempt
func RecordEvent(slot, source, result string) {
	eventsLogged.WithLabelValues(slot, source, result).Inc()
}

// RecordAnalysisRun counts a derivation run and the problems it found
func RecordAnalysisRun(recordErrs int, anomalies map[string]int) {
	analysisRuns.Inc()
	recordErrors.Add(float64(recordErrs))
	for kind, n := range anomalies {
		durationAnomalies.WithLabelValues(kind).Add(float64(n))
	}
}
