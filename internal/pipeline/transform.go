package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/couchcryptid/climax-batch/internal/observability"
	"github.com/pkg/errors"
)

// Stages a line can fail in.
const (
	StageParse   = "parse"
	StageClimate = "climate"
	StageFormat  = "format"
	StageUnknown = "unknown"
)

// StageError records which step of the line transform failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// ReportTransformer implements Transformer by parsing the line, asking the
// climate service for the trial's climate data and building the report row.
type ReportTransformer struct {
	service domain.ClimateService
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a ReportTransformer. A timeout of zero disables the
// per-call deadline.
func NewTransformer(service domain.ClimateService, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		service: service,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

func (t *ReportTransformer) Transform(ctx context.Context, line string) (domain.ReportRow, error) {
	params, err := domain.ParseParameterLine(line)
	if err != nil {
		return domain.ReportRow{}, &StageError{Stage: StageParse, Err: err}
	}

	data, err := t.climateData(ctx, params)
	if err != nil {
		return domain.ReportRow{}, &StageError{Stage: StageClimate, Err: err}
	}

	row, err := domain.BuildReportRow(params.CultureID, data)
	if err != nil {
		return domain.ReportRow{}, &StageError{Stage: StageFormat, Err: err}
	}
	row.ProcessedAt = domain.Now()

	t.logger.Debug("line transformed", "culture_id", params.CultureID, "irrigated", data.Irrigated)
	return row, nil
}

// climateData calls the service with the per-call timeout. A panicking
// service is turned into an error for this line only.
func (t *ReportTransformer) climateData(ctx context.Context, params domain.TrialParams) (data domain.ClimateData, err error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		t.metrics.ClimateDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			data = domain.ClimateData{}
			err = errors.Errorf("climate service panicked for culture %d: %v", params.CultureID, r)
		}
	}()

	data, err = t.service.ClimateData(ctx, params)
	if err != nil {
		return domain.ClimateData{}, errors.Wrapf(err, "climate data for culture %d", params.CultureID)
	}
	return data, nil
}
