package domain

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParameterColumns is the number of tab-separated fields per input line.
const ParameterColumns = 4

// TrialParams holds the parameters of one trial as read from an input line.
type TrialParams struct {
	CultureID     int     `json:"culture_id"`
	FloweringDate string  `json:"flowering_date"`
	SoilVolume    float64 `json:"soil_volume"`
	FieldCapacity float64 `json:"field_capacity"`
}

// ParseParameterLine parses one tab-separated input line into TrialParams.
// A single trailing line terminator is ignored. The flowering date is kept
// verbatim; the numeric columns tolerate surrounding whitespace.
func ParseParameterLine(line string) (TrialParams, error) {
	line = trimLineTerminator(line)

	columns := strings.Split(line, "\t")
	if len(columns) != ParameterColumns {
		return TrialParams{}, errors.Wrapf(ErrColumnCount, "line does not contain %d columns (got %d)", ParameterColumns, len(columns))
	}

	cultureID, err := strconv.Atoi(strings.TrimSpace(columns[0]))
	if err != nil {
		return TrialParams{}, errors.Wrap(err, "parse culture_id")
	}
	soilVolume, err := strconv.ParseFloat(strings.TrimSpace(columns[2]), 64)
	if err != nil {
		return TrialParams{}, errors.Wrap(err, "parse soil_volume")
	}
	fieldCapacity, err := strconv.ParseFloat(strings.TrimSpace(columns[3]), 64)
	if err != nil {
		return TrialParams{}, errors.Wrap(err, "parse field_capacity")
	}

	return TrialParams{
		CultureID:     cultureID,
		FloweringDate: columns[1],
		SoilVolume:    soilVolume,
		FieldCapacity: fieldCapacity,
	}, nil
}

func trimLineTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
