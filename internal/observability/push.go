package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job name used for batch runs.
const PushJob = "climax_batch"

// PushMetrics sends everything in gatherer to a Prometheus Pushgateway,
// grouped by run ID so concurrent runs do not overwrite each other.
func PushMetrics(ctx context.Context, url string, gatherer prometheus.Gatherer, runID string) error {
	err := push.New(url, PushJob).
		Gatherer(gatherer).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
