package client

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Operation counters
// --------------------------------------------------------------------------

// The bridge counts every operation per kind (connect, query, insert,
// update, remove, command). The counters are exported in Prometheus text
// format via metrics.WritePrometheus.

func countSubmitted(kind string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`mongobridge_ops_submitted_total{kind=%q}`, kind)).Inc()
}

func countSucceeded(kind string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`mongobridge_ops_succeeded_total{kind=%q}`, kind)).Inc()
}

func countFailed(kind string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`mongobridge_ops_failed_total{kind=%q}`, kind)).Inc()
}
