package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// NotAvailable is written for report columns that do not apply to a trial.
const NotAvailable = "NA"

// ReportHeader lists the report columns in output order.
var ReportHeader = []string{
	"culture-id",
	"drought-before",
	"drought-after",
	"control-drought-before",
	"control-drought-after",
	"stress-drought-before",
	"stress-drought-after",
	"cold-before",
	"cold-after",
	"heat-before",
	"heat-after",
	"light-before",
	"light-after",
}

// irrigationExceptions are marked as irrigated in the trial database but only
// have plain drought stress days. See issue #6.
var irrigationExceptions = map[int]struct{}{
	47109: {},
	56879: {},
}

// IsIrrigationException reports whether cultureID is always reported with
// plain drought columns regardless of its irrigation flag.
func IsIrrigationException(cultureID int) bool {
	_, ok := irrigationExceptions[cultureID]
	return ok
}

// ReportRow is one line of the climate-stress report. Nil drought pairs are
// written as NA.
type ReportRow struct {
	CultureID      int         `json:"culture_id"`
	Drought        *StressPair `json:"drought"`
	ControlDrought *StressPair `json:"control_drought"`
	StressDrought  *StressPair `json:"stress_drought"`
	Cold           StressPair  `json:"cold"`
	Heat           StressPair  `json:"heat"`
	Light          LightSum    `json:"light"`
	ProcessedAt    time.Time   `json:"processed_at"`
}

// BuildReportRow selects the drought columns for a trial. Irrigated trials
// report control and stress DSDs, all other trials (and the irrigation
// exceptions) report plain DSDs.
func BuildReportRow(cultureID int, data ClimateData) (ReportRow, error) {
	row := ReportRow{
		CultureID: cultureID,
		Cold:      data.Cold,
		Heat:      data.Heat,
		Light:     data.Light,
	}

	if data.Irrigated && !IsIrrigationException(cultureID) {
		if data.ControlDrought == nil || data.StressDrought == nil {
			return ReportRow{}, errors.Errorf("irrigated culture %d lacks control or stress drought stress days", cultureID)
		}
		control, stress := *data.ControlDrought, *data.StressDrought
		row.ControlDrought = &control
		row.StressDrought = &stress
		return row, nil
	}

	if data.Drought == nil {
		return ReportRow{}, errors.Errorf("culture %d lacks drought stress days", cultureID)
	}
	drought := *data.Drought
	row.Drought = &drought
	return row, nil
}

// Fields returns the row's cells in ReportHeader order.
func (r ReportRow) Fields() []string {
	fields := make([]string, 0, len(ReportHeader))
	fields = append(fields, strconv.Itoa(r.CultureID))
	fields = appendPair(fields, r.Drought)
	fields = appendPair(fields, r.ControlDrought)
	fields = appendPair(fields, r.StressDrought)
	fields = append(fields,
		strconv.Itoa(r.Cold.Before), strconv.Itoa(r.Cold.After),
		strconv.Itoa(r.Heat.Before), strconv.Itoa(r.Heat.After),
		FormatLightSum(r.Light.Before), FormatLightSum(r.Light.After),
	)
	return fields
}

// TSV renders the row as a tab-separated, newline-terminated line.
func (r ReportRow) TSV() string {
	return strings.Join(r.Fields(), "\t") + "\n"
}

// HeaderTSV renders ReportHeader as a tab-separated, newline-terminated line.
func HeaderTSV() string {
	return strings.Join(ReportHeader, "\t") + "\n"
}

func appendPair(fields []string, p *StressPair) []string {
	if p == nil {
		return append(fields, NotAvailable, NotAvailable)
	}
	return append(fields, strconv.Itoa(p.Before), strconv.Itoa(p.After))
}

// FormatLightSum writes a light sum the way existing reports do: the
// shortest round-tripping decimal, ".0" kept on integral values, and
// exponent notation below 1e-4 or from 1e16 on (e.g. "1e-05", "1.5e+16").
func FormatLightSum(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if v != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
