package domain

import "context"

// StressPair counts stress days before and after flowering.
type StressPair struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// LightSum holds the accumulated light before and after flowering.
type LightSum struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// ClimateData is the result of the climate service for one trial.
type ClimateData struct {
	Irrigated bool `json:"irrigated"`

	// Drought is set for non-irrigated trials.
	Drought *StressPair `json:"drought,omitempty"`
	// ControlDrought and StressDrought are set for irrigated trials.
	ControlDrought *StressPair `json:"control_drought,omitempty"`
	StressDrought  *StressPair `json:"stress_drought,omitempty"`

	Cold  StressPair `json:"cold"`
	Heat  StressPair `json:"heat"`
	Light LightSum   `json:"light"`
}

// ClimateService derives climate data for a trial.
type ClimateService interface {
	ClimateData(ctx context.Context, params TrialParams) (ClimateData, error)
}
