package domain

import "errors"

var (
	// ErrColumnCount is returned when an input line does not have exactly
	// ParameterColumns tab-separated fields.
	ErrColumnCount = errors.New("wrong number of columns")

	// ErrClimateDataNotFound is returned by a ClimateService that has no data
	// for the requested trial.
	ErrClimateDataNotFound = errors.New("climate data not found")
)
