package nwb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddUnitColumn(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)

	require.Error(t, f.AddUnitColumn("", "desc"))

	for _, reserved := range []string{"id", "spike_times", "spike_times_index"} {
		err := f.AddUnitColumn(reserved, "desc")
		require.Error(t, err)
		require.Contains(t, err.Error(), "reserved")
	}

	require.NoError(t, f.AddUnitColumn("quality", "sorting quality"))

	err = f.AddUnitColumn("quality", "again")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, f.AddUnit([]float64{0.1}, "good"))
	err = f.AddUnitColumn("late", "declared too late")
	require.Error(t, err)
	require.Contains(t, err.Error(), "after units exist")
}

func TestAddUnit(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	require.NoError(t, f.AddUnitColumn("quality", "sorting quality"))

	require.NoError(t, f.AddUnit([]float64{0.1, 0.5, 1.2}, "good"))
	require.NoError(t, f.AddUnit(nil, "noise")) // zero spikes is allowed
	require.Equal(t, 2, f.NumUnits())

	err = f.AddUnit([]float64{2.0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "0 values but table has 1 columns")

	err = f.AddUnit([]float64{2.0}, 3.5)
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "quality" holds strings, got float64`)
}

func TestAddUnit_RejectedRowLeavesTableUntouched(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	require.NoError(t, f.AddUnitColumn("quality", "sorting quality"))
	require.NoError(t, f.AddUnitColumn("amp", "mean spike amplitude"))
	require.NoError(t, f.AddUnit([]float64{0.1}, "good", 42.0))

	// The quality value fits, the amp value does not; neither may land.
	err = f.AddUnit([]float64{0.2}, "mua", "loud")
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "amp" holds floats`)

	require.Equal(t, 1, f.NumUnits())
	require.Equal(t, []string{"good"}, f.units.columns[0].strings)
	require.Equal(t, []float64{42}, f.units.columns[1].floats)

	require.NoError(t, f.AddUnit([]float64{0.2}, "mua", 17.0))
	require.Equal(t, []string{"good", "mua"}, f.units.columns[0].strings)
	require.Equal(t, []float64{42, 17}, f.units.columns[1].floats)
}

func TestAddUnit_CopiesSpikeTimes(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)

	spikes := []float64{0.1, 0.2}
	require.NoError(t, f.AddUnit(spikes))
	spikes[0] = 99

	require.Equal(t, []float64{0.1, 0.2}, f.units.spikeTimes[0])
}
