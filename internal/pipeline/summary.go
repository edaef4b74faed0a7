package pipeline

import (
	"github.com/couchcryptid/climax-batch/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// Summary describes a finished batch run.
type Summary struct {
	Lines     int
	Written   int
	Failed    int
	Published int

	// Means over all written rows; zero when nothing was written.
	MeanColdBefore  float64
	MeanColdAfter   float64
	MeanHeatBefore  float64
	MeanHeatAfter   float64
	MeanLightBefore float64
	MeanLightAfter  float64
}

// Indexes into summaryAccumulator.sums.
const (
	coldBefore = iota
	coldAfter
	heatBefore
	heatAfter
	lightBefore
	lightAfter
	numSums
)

// summaryAccumulator keeps running sums so memory stays constant over the run.
type summaryAccumulator struct {
	lines     int
	written   int
	failed    int
	published int

	sums [numSums]float64
}

func (a *summaryAccumulator) add(row domain.ReportRow) {
	a.written++
	floats.Add(a.sums[:], []float64{
		coldBefore:  float64(row.Cold.Before),
		coldAfter:   float64(row.Cold.After),
		heatBefore:  float64(row.Heat.Before),
		heatAfter:   float64(row.Heat.After),
		lightBefore: row.Light.Before,
		lightAfter:  row.Light.After,
	})
}

func (a *summaryAccumulator) summary() Summary {
	var means [numSums]float64
	if a.written > 0 {
		floats.ScaleTo(means[:], 1/float64(a.written), a.sums[:])
	}
	return Summary{
		Lines:           a.lines,
		Written:         a.written,
		Failed:          a.failed,
		Published:       a.published,
		MeanColdBefore:  means[coldBefore],
		MeanColdAfter:   means[coldAfter],
		MeanHeatBefore:  means[heatBefore],
		MeanHeatAfter:   means[heatAfter],
		MeanLightBefore: means[lightBefore],
		MeanLightAfter:  means[lightAfter],
	}
}
