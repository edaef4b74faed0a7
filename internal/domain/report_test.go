package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func climateFixture(irrigated bool) ClimateData {
	return ClimateData{
		Irrigated:      irrigated,
		Drought:        &StressPair{Before: 3, After: 7},
		ControlDrought: &StressPair{Before: 1, After: 2},
		StressDrought:  &StressPair{Before: 11, After: 15},
		Cold:           StressPair{Before: 4, After: 0},
		Heat:           StressPair{Before: 2, After: 9},
		Light:          LightSum{Before: 1234.5, After: 987},
	}
}

func TestReportHeader(t *testing.T) {
	assert.Len(t, ReportHeader, 13)
	assert.Equal(t,
		"culture-id\tdrought-before\tdrought-after\tcontrol-drought-before"+
			"\tcontrol-drought-after\tstress-drought-before\tstress-drought-after"+
			"\tcold-before\tcold-after\theat-before\theat-after"+
			"\tlight-before\tlight-after\n",
		HeaderTSV())
}

func TestBuildReportRow_Formatting(t *testing.T) {
	tests := []struct {
		name      string
		cultureID int
		irrigated bool
		want      string
	}{
		{
			name:      "non-irrigated",
			cultureID: 48132,
			irrigated: false,
			want:      "48132\t3\t7\tNA\tNA\tNA\tNA\t4\t0\t2\t9\t1234.5\t987.0\n",
		},
		{
			name:      "irrigated",
			cultureID: 48132,
			irrigated: true,
			want:      "48132\tNA\tNA\t1\t2\t11\t15\t4\t0\t2\t9\t1234.5\t987.0\n",
		},
		{
			name:      "irrigated exception 47109",
			cultureID: 47109,
			irrigated: true,
			want:      "47109\t3\t7\tNA\tNA\tNA\tNA\t4\t0\t2\t9\t1234.5\t987.0\n",
		},
		{
			name:      "irrigated exception 56879",
			cultureID: 56879,
			irrigated: true,
			want:      "56879\t3\t7\tNA\tNA\tNA\tNA\t4\t0\t2\t9\t1234.5\t987.0\n",
		},
		{
			name:      "non-irrigated exception",
			cultureID: 56879,
			irrigated: false,
			want:      "56879\t3\t7\tNA\tNA\tNA\tNA\t4\t0\t2\t9\t1234.5\t987.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := BuildReportRow(tt.cultureID, climateFixture(tt.irrigated))
			require.NoError(t, err)
			assert.Equal(t, tt.want, row.TSV())
			assert.Len(t, row.Fields(), len(ReportHeader))
		})
	}
}

func TestBuildReportRow_MissingDrought(t *testing.T) {
	data := climateFixture(false)
	data.Drought = nil

	_, err := BuildReportRow(1, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lacks drought stress days")
}

func TestBuildReportRow_IrrigatedMissingPlots(t *testing.T) {
	data := climateFixture(true)
	data.StressDrought = nil

	_, err := BuildReportRow(1, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control or stress")
}

func TestBuildReportRow_ExceptionOnlyNeedsPlainDrought(t *testing.T) {
	data := ClimateData{
		Irrigated: true,
		Drought:   &StressPair{Before: 5, After: 6},
	}

	row, err := BuildReportRow(47109, data)
	require.NoError(t, err)
	assert.Equal(t, "47109\t5\t6\tNA\tNA\tNA\tNA\t0\t0\t0\t0\t0.0\t0.0\n", row.TSV())
}

func TestBuildReportRow_CopiesPairs(t *testing.T) {
	data := climateFixture(false)
	row, err := BuildReportRow(1, data)
	require.NoError(t, err)

	data.Drought.Before = 99
	assert.Equal(t, 3, row.Drought.Before)
}

func TestBuildReportRow_Fields(t *testing.T) {
	row, err := BuildReportRow(7, climateFixture(true))
	require.NoError(t, err)

	want := []string{"7", "NA", "NA", "1", "2", "11", "15", "4", "0", "2", "9", "1234.5", "987.0"}
	if diff := cmp.Diff(want, row.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatLightSum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{987, "987.0"},
		{1234.5, "1234.5"},
		{0.1, "0.1"},
		{-3, "-3.0"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{0.000012345, "1.2345e-05"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{1.5e16, "1.5e+16"},
		{-2.5e20, "-2.5e+20"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLightSum(tt.in))
		})
	}
}

func TestIsIrrigationException(t *testing.T) {
	assert.True(t, IsIrrigationException(47109))
	assert.True(t, IsIrrigationException(56879))
	assert.False(t, IsIrrigationException(47110))
	assert.False(t, IsIrrigationException(0))
}

func TestSetClock(t *testing.T) {
	frozen := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, frozen, Now())

	SetClock(nil)
	assert.False(t, Now().Equal(frozen))
}
