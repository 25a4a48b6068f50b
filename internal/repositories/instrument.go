package repositories

import (
	"github.com/prometheus/client_golang/prometheus"

	"playapp/internal/utils"
)

// queryTimer observes query duration under the repository metrics vec. The
// status pointer is read at observation time so callers can flip it to
// "error" before the deferred ObserveDuration fires.
func queryTimer(queryType, repository string, status *string) *prometheus.Timer {
	return prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, *status).Observe(v)
	}))
}

func markError(queryType, repository string, status *string) {
	*status = "error"
	utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
}
