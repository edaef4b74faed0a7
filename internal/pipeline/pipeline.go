package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climax-batch/internal/adapter/tsv"
	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/couchcryptid/climax-batch/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	pkgerrors "github.com/pkg/errors"
)

// Transformer converts one raw input line into a report row.
type Transformer interface {
	Transform(ctx context.Context, line string) (domain.ReportRow, error)
}

// ReportWriter receives the tab-separated report.
type ReportWriter interface {
	WriteHeader() error
	WriteRow(row domain.ReportRow) error
	Flush() error
}

// BatchLoader receives successfully built rows in batches.
type BatchLoader interface {
	LoadBatch(ctx context.Context, rows []domain.ReportRow) error
}

const (
	publishAttempts = 3
	initialBackoff  = 200 * time.Millisecond
	maxBackoff      = 5 * time.Second
)

// Pipeline runs the parse → climate service → format pass over an input file.
type Pipeline struct {
	transformer Transformer
	writer      ReportWriter
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int

	linesRead    atomic.Int64
	rowsWritten  atomic.Int64
	linesSkipped atomic.Int64
}

// Progress is a point-in-time view of a running batch.
type Progress struct {
	Lines   int64 `json:"lines"`
	Written int64 `json:"written"`
	Failed  int64 `json:"failed"`
}

// New creates a Pipeline. loader may be nil when rows are only written to
// the report.
func New(t Transformer, w ReportWriter, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Pipeline{
		transformer: t,
		writer:      w,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has written at least one row,
// or an error describing why it is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not written any rows yet")
	}
	return nil
}

// Progress reports how many lines the current run has handled so far.
func (p *Pipeline) Progress() Progress {
	return Progress{
		Lines:   p.linesRead.Load(),
		Written: p.rowsWritten.Load(),
		Failed:  p.linesSkipped.Load(),
	}
}

// Run writes the report header and then one row per valid input line. A line
// that fails is logged with its number and stack trace and skipped. Only
// read and write failures on the files themselves end the run early.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, inputName string) (Summary, error) {
	p.logger.Info("batch started", "input", inputName)
	p.metrics.BatchRunning.Set(1)
	defer p.metrics.BatchRunning.Set(0)

	var acc summaryAccumulator
	pending := make([]domain.ReportRow, 0, p.batchSize)

	if err := p.writer.WriteHeader(); err != nil {
		return acc.summary(), err
	}

	lines := tsv.NewLineReader(in)
	for lines.Next() {
		if ctx.Err() != nil {
			break
		}
		acc.lines++
		p.linesRead.Add(1)
		p.metrics.LinesRead.Inc()

		row, err := p.transformer.Transform(ctx, lines.Text())
		if err != nil {
			acc.failed++
			p.linesSkipped.Add(1)
			p.reportLineError(inputName, lines.Line(), lines.Text(), err)
			continue
		}

		if err := p.writer.WriteRow(row); err != nil {
			return acc.summary(), errors.Join(err, p.writer.Flush())
		}
		acc.add(row)
		p.rowsWritten.Add(1)
		p.metrics.RowsWritten.Inc()
		p.ready.Store(true)

		if p.loader != nil {
			pending = append(pending, row)
			if len(pending) >= p.batchSize {
				acc.published += p.publish(ctx, pending)
				pending = pending[:0]
			}
		}
	}

	if err := p.writer.Flush(); err != nil {
		return acc.summary(), err
	}
	if err := lines.Err(); err != nil {
		return acc.summary(), fmt.Errorf("read %s: %w", inputName, err)
	}
	if err := ctx.Err(); err != nil {
		if len(pending) > 0 {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("dropping unpublished rows", "error", err, "batch_size", len(pending))
		}
		p.logger.Warn("batch interrupted", "reason", err, "lines", acc.lines)
		return acc.summary(), err
	}

	if p.loader != nil && len(pending) > 0 {
		acc.published += p.publish(ctx, pending)
	}

	s := acc.summary()
	p.logger.Info("batch finished",
		"input", inputName,
		"lines", s.Lines,
		"written", s.Written,
		"failed", s.Failed,
		"published", s.Published,
		"mean_cold_before", s.MeanColdBefore,
		"mean_heat_before", s.MeanHeatBefore,
		"mean_light_before", s.MeanLightBefore,
	)
	return s, nil
}

// reportLineError logs a skipped line with everything needed to reproduce it.
func (p *Pipeline) reportLineError(inputName string, line int, text string, err error) {
	stage := StageUnknown
	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	p.metrics.LineErrors.WithLabelValues(stage).Inc()
	p.logger.Error("line caused trouble, skipping",
		"line", line,
		"file", inputName,
		"content", strings.TrimRight(text, "\r\n"),
		"stage", stage,
		"error", err,
		"trace", stackTrace(err),
	)
}

// publish hands rows to the loader, retrying with exponential backoff.
// Rows that still fail are dropped; the report is the source of truth.
// Returns the number of rows published.
func (p *Pipeline) publish(ctx context.Context, rows []domain.ReportRow) int {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if err = p.loader.LoadBatch(ctx, rows); err == nil {
			p.metrics.RowsPublished.Add(float64(len(rows)))
			return len(rows)
		}
		p.logger.Warn("publish batch failed", "error", err, "attempt", attempt, "batch_size", len(rows))
		if attempt == publishAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	p.metrics.PublishErrors.Inc()
	p.logger.Error("dropping unpublished rows", "error", err, "batch_size", len(rows))
	return 0
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// stackTrace renders the innermost stack trace recorded in err's chain.
func stackTrace(err error) string {
	var trace pkgerrors.StackTrace
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			trace = st.StackTrace()
		}
	}
	if trace == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%+v", trace), "\n")
}
