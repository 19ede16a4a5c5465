package nwb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddTrialColumn(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)

	require.Error(t, f.AddTrialColumn("", "desc"))

	for _, reserved := range []string{"id", "start_time", "stop_time"} {
		err := f.AddTrialColumn(reserved, "desc")
		require.Error(t, err)
		require.Contains(t, err.Error(), "reserved")
	}

	require.NoError(t, f.AddTrialColumn("correct", "whether the trial was correct"))

	err = f.AddTrialColumn("correct", "again")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, f.AddTrial(0, 1, 1.0))
	err = f.AddTrialColumn("late", "declared too late")
	require.Error(t, err)
	require.Contains(t, err.Error(), "after trials exist")
}

func TestAddTrial(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)

	err = f.AddTrial(2, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stop time 1 before start time 2")

	require.NoError(t, f.AddTrial(0, 1))
	require.NoError(t, f.AddTrial(1, 1)) // zero-length trial is allowed
	require.Equal(t, 2, f.NumTrials())

	err = f.AddTrial(2, 3, "extra")
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 values but table has 0 columns")
}

func TestAddTrial_ColumnValues(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	require.NoError(t, f.AddTrialColumn("correct", "whether the trial was correct"))
	require.NoError(t, f.AddTrialColumn("stimulus", "stimulus name"))

	require.NoError(t, f.AddTrial(0, 1, 1.0, "grating"))
	require.NoError(t, f.AddTrial(1, 2, 0, "blank")) // int coerces to float

	// Wrong arity.
	err = f.AddTrial(2, 3, 1.0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 values but table has 2 columns")

	// Column kind is locked by the first row.
	err = f.AddTrial(2, 3, "yes", "grating")
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "correct" holds floats, got string`)

	err = f.AddTrial(2, 3, 1.0, 4.0)
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "stimulus" holds strings, got float64`)

	err = f.AddTrial(2, 3, true, "grating")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported value type bool")
}

func TestAddTrial_RejectedRowLeavesTableUntouched(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	require.NoError(t, f.AddTrialColumn("correct", "whether the trial was correct"))
	require.NoError(t, f.AddTrialColumn("stimulus", "stimulus name"))
	require.NoError(t, f.AddTrial(0, 1, 1.0, "grating"))

	// The first value fits, the second does not; neither may land.
	err = f.AddTrial(1, 2, 1.0, 4.0)
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "stimulus" holds strings`)

	require.Equal(t, 1, f.NumTrials())
	require.Equal(t, []float64{1}, f.trials.columns[0].floats)
	require.Equal(t, []string{"grating"}, f.trials.columns[1].strings)

	require.NoError(t, f.AddTrial(2, 3, 0.0, "blank"))
	require.Equal(t, []float64{1, 0}, f.trials.columns[0].floats)
	require.Equal(t, []string{"grating", "blank"}, f.trials.columns[1].strings)
}
