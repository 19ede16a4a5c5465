package nwb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTimeSeries_ValidationErrors(t *testing.T) {
	data := []float64{1, 2, 3}

	tests := []struct {
		name    string
		build   func() (*TimeSeries, error)
		wantErr string
	}{
		{
			name: "empty name",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("", data, "m", WithRate(0, 1))
			},
			wantErr: "name cannot be empty",
		},
		{
			name: "empty data",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("ts", nil, "m", WithRate(0, 1))
			},
			wantErr: "data cannot be empty",
		},
		{
			name: "empty unit",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("ts", data, "", WithRate(0, 1))
			},
			wantErr: "unit cannot be empty",
		},
		{
			name: "no time representation",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("ts", data, "m")
			},
			wantErr: "either timestamps or rate is required",
		},
		{
			name: "both timestamps and rate",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("ts", data, "m",
					WithTimestamps([]float64{0, 1, 2}), WithRate(0, 1))
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "negative rate",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("ts", data, "m", WithRate(0, -5))
			},
			wantErr: "rate must be positive",
		},
		{
			name: "timestamps length mismatch",
			build: func() (*TimeSeries, error) {
				return NewTimeSeries("ts", data, "m", WithTimestamps([]float64{0, 1}))
			},
			wantErr: "timestamps length 2 does not match 3 samples",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewTimeSeries_Defaults(t *testing.T) {
	ts, err := NewTimeSeries("ts", []float64{1, 2, 3}, "m", WithRate(0, 1))
	require.NoError(t, err)
	require.Equal(t, 3, ts.Rows())
	require.Equal(t, 1, ts.Columns())
	require.Equal(t, 1.0, ts.conversion)
	require.Equal(t, -1.0, ts.resolution)
	require.Equal(t, 0.0, ts.offset)
}

func TestNewSpatialSeries(t *testing.T) {
	data := [][]float64{{0, 0}, {1, 0}, {1, 1}}

	ss, err := NewSpatialSeries("SpatialSeries", data, "(0,0) is the corner",
		WithTimestamps([]float64{0, 0.1, 0.2}))
	require.NoError(t, err)
	require.Equal(t, 3, ss.Rows())
	require.Equal(t, 2, ss.Columns())
	require.Equal(t, "meters", ss.unit)
	require.Equal(t, "(0,0) is the corner", ss.ReferenceFrame())
}

func TestNewSpatialSeries_Errors(t *testing.T) {
	_, err := NewSpatialSeries("ss", [][]float64{{0, 0}}, "", WithRate(0, 1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reference frame cannot be empty")

	_, err = NewSpatialSeries("ss", [][]float64{{0, 0}, {1}}, "frame", WithRate(0, 1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 1 has 1 values, expected 2")

	_, err = NewSpatialSeries("ss", nil, "frame", WithRate(0, 1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "data cannot be empty")
}

func TestNewElectricalSeries(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	region := testRegion(t, f, 2)

	data := [][]float64{{1e-6, 2e-6}, {3e-6, 4e-6}}
	es, err := NewElectricalSeries("ElectricalSeries", data, region, WithRate(0, 250))
	require.NoError(t, err)
	require.Equal(t, 2, es.Rows())
	require.Equal(t, 2, es.Columns())
	require.Equal(t, "volts", es.unit)
	require.Equal(t, []int{0, 1}, es.Electrodes().Indices())
}

func TestNewElectricalSeries_Errors(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	region := testRegion(t, f, 2)

	_, err = NewElectricalSeries("es", [][]float64{{1, 2}}, nil, WithRate(0, 250))
	require.Error(t, err)
	require.Contains(t, err.Error(), "electrode region is required")

	_, err = NewElectricalSeries("es", [][]float64{{1, 2, 3}}, region, WithRate(0, 250))
	require.Error(t, err)
	require.Contains(t, err.Error(), "3 data columns but 2 electrodes in region")
}

func TestPosition_DuplicateSeries(t *testing.T) {
	pos := NewPosition()
	ss, err := NewSpatialSeries("SpatialSeries", [][]float64{{0, 0}}, "frame",
		WithTimestamps([]float64{0}))
	require.NoError(t, err)

	require.NoError(t, pos.AddSpatialSeries(ss))
	err = pos.AddSpatialSeries(ss)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

// testRegion registers a device, a group, and n electrodes on f, and
// returns a region covering all of them.
func testRegion(t *testing.T, f *File, n int) *ElectrodeRegion {
	t.Helper()
	device, err := f.CreateDevice("array")
	require.NoError(t, err)
	group, err := f.CreateElectrodeGroup("shank0", "first shank", "brain area", device)
	require.NoError(t, err)
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		require.NoError(t, f.AddElectrode(Electrode{Location: "brain area", Group: group}))
		indices[i] = i
	}
	region, err := f.CreateElectrodeTableRegion(indices, "all electrodes")
	require.NoError(t, err)
	return region
}
