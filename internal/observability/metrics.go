package observability

import (
	"errors"

	"github.com/claude/fittracker/internal/training"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reportsComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittracker",
		Subsystem: "reports",
		Name:      "computed_total",
		Help:      "Training reports computed, by workout type code.",
	}, []string{"type"})
	reportErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittracker",
		Subsystem: "reports",
		Name:      "rejected_total",
		Help:      "Sensor packages rejected by the session factory, by reason.",
	}, []string{"reason"})
	caloriesBurned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittracker",
		Subsystem: "reports",
		Name:      "calories_total",
		Help:      "Sum of calories across computed reports, by workout type code.",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(reportsComputed, reportErrors, caloriesBurned)
}

// RecordReport counts a computed report.
func RecordReport(code string, calories float64) {
	reportsComputed.WithLabelValues(code).Inc()
	if calories > 0 {
		caloriesBurned.WithLabelValues(code).Add(calories)
	}
}

// RecordRejected counts a package the factory refused.
func RecordRejected(err error) {
	reportErrors.WithLabelValues(Reason(err)).Inc()
}

// Reason maps a factory error to a metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, training.ErrUnknownWorkoutType):
		return "unknown_type"
	case errors.Is(err, training.ErrArityMismatch):
		return "arity_mismatch"
	case errors.Is(err, training.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, training.ErrInvalidParameters):
		return "invalid_parameters"
	default:
		return "other"
	}
}
