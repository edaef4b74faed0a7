package tsv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/couchcryptid/climax-batch/internal/domain"
)

// ReportWriter writes the climate-stress report.
type ReportWriter struct {
	w *bufio.Writer
}

// NewReportWriter buffers writes to w. Call Flush when done.
func NewReportWriter(w io.Writer) *ReportWriter {
	return &ReportWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the fixed report header line.
func (rw *ReportWriter) WriteHeader() error {
	if _, err := rw.w.WriteString(domain.HeaderTSV()); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	return nil
}

// WriteRow writes one report row.
func (rw *ReportWriter) WriteRow(row domain.ReportRow) error {
	if _, err := rw.w.WriteString(row.TSV()); err != nil {
		return fmt.Errorf("write report row for culture %d: %w", row.CultureID, err)
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (rw *ReportWriter) Flush() error {
	if err := rw.w.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
