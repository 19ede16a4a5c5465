package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSheet = `
session_description: mouse running on a wheel
identifier: M123-S5
session_start_time: 2026-04-03T11:00:00Z
session_id: LONELYMTN-007
lab: Bag End Laboratory
institution: University of My Institution
experimenter:
  - Baggins, Bilbo
keywords:
  - behavior
  - ecephys
subject:
  subject_id: "001"
  age: P90D
  species: Mus musculus
  sex: M
devices:
  - name: array
    description: the best array
    manufacturer: Probe Interface Unlimited
electrode_groups:
  - name: shank0
    description: first shank
    location: CA1
    device: array
    num_electrodes: 4
  - name: shank1
    description: second shank
    location: CA3
    device: array
    num_electrodes: 4
`

func writeSheet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSheet(t *testing.T) {
	sheet, err := loadSheet(writeSheet(t, testSheet))
	require.NoError(t, err)

	require.Equal(t, "mouse running on a wheel", sheet.SessionDescription)
	require.Equal(t, "M123-S5", sheet.Identifier)
	require.Equal(t, 2026, sheet.SessionStartTime.Year())
	require.Equal(t, []string{"Baggins, Bilbo"}, sheet.Experimenter)
	require.NotNil(t, sheet.Subject)
	require.Equal(t, "001", sheet.Subject.SubjectID)
	require.Len(t, sheet.Devices, 1)
	require.Len(t, sheet.ElectrodeGroups, 2)
}

func TestLoadSheet_Errors(t *testing.T) {
	_, err := loadSheet(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = loadSheet(writeSheet(t, "session_description: [unclosed"))
	require.Error(t, err)
}

func TestBuildFromSheet(t *testing.T) {
	sheet, err := loadSheet(writeSheet(t, testSheet))
	require.NoError(t, err)

	f, err := buildFromSheet(sheet)
	require.NoError(t, err)

	require.Equal(t, "M123-S5", f.Identifier())
	require.Equal(t, "001", f.Subject().SubjectID)
	require.Equal(t, 8, f.NumElectrodes())
}

func TestBuildFromSheet_UnknownDevice(t *testing.T) {
	sheet, err := loadSheet(writeSheet(t, `
session_description: session
identifier: id-1
session_start_time: 2026-04-03T11:00:00Z
electrode_groups:
  - name: shank0
    description: first shank
    location: CA1
    device: missing
    num_electrodes: 2
`))
	require.NoError(t, err)

	_, err = buildFromSheet(sheet)
	require.Error(t, err)
	require.Contains(t, err.Error(), `references unknown device "missing"`)
}
