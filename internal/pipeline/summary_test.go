package pipeline

import (
	"testing"

	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummaryAccumulator_Means(t *testing.T) {
	var acc summaryAccumulator
	assert.Equal(t, Summary{}, acc.summary(), "no rows gives zero means")

	acc.add(domain.ReportRow{
		Cold:  domain.StressPair{Before: 2, After: 0},
		Heat:  domain.StressPair{Before: 1, After: 5},
		Light: domain.LightSum{Before: 1000, After: 500.5},
	})
	acc.add(domain.ReportRow{
		Cold:  domain.StressPair{Before: 4, After: 1},
		Heat:  domain.StressPair{Before: 3, After: 7},
		Light: domain.LightSum{Before: 2000, After: 499.5},
	})

	s := acc.summary()
	assert.Equal(t, 2, s.Written)
	assert.InDelta(t, 3.0, s.MeanColdBefore, 1e-9)
	assert.InDelta(t, 0.5, s.MeanColdAfter, 1e-9)
	assert.InDelta(t, 2.0, s.MeanHeatBefore, 1e-9)
	assert.InDelta(t, 6.0, s.MeanHeatAfter, 1e-9)
	assert.InDelta(t, 1500.0, s.MeanLightBefore, 1e-9)
	assert.InDelta(t, 500.0, s.MeanLightAfter, 1e-9)
}

func TestSummaryAccumulator_ManyRows(t *testing.T) {
	var acc summaryAccumulator
	for i := range 10000 {
		acc.add(domain.ReportRow{Cold: domain.StressPair{Before: i % 3}})
	}
	assert.Equal(t, 10000, acc.summary().Written)
	assert.InDelta(t, 1.0, acc.summary().MeanColdBefore, 1e-3)
}
