package nwb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateDevice(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)

	_, err = f.CreateDevice("")
	require.Error(t, err)

	d, err := f.CreateDevice("array",
		WithDeviceDescription("the best array"),
		WithManufacturer("Probe Interface Unlimited"))
	require.NoError(t, err)
	require.Equal(t, "array", d.Name())
	require.Equal(t, "the best array", d.description)
	require.Equal(t, "Probe Interface Unlimited", d.manufacturer)

	_, err = f.CreateDevice("array")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestCreateElectrodeGroup(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	device, err := f.CreateDevice("array")
	require.NoError(t, err)

	_, err = f.CreateElectrodeGroup("", "desc", "brain area", device)
	require.Error(t, err)

	_, err = f.CreateElectrodeGroup("shank0", "desc", "brain area", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "device is required")

	other, err := NewFile("other session", "id-2", testStart)
	require.NoError(t, err)
	foreign, err := other.CreateDevice("foreign")
	require.NoError(t, err)
	_, err = f.CreateElectrodeGroup("shank0", "desc", "brain area", foreign)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not registered on this file")

	g, err := f.CreateElectrodeGroup("shank0", "first shank", "brain area", device)
	require.NoError(t, err)
	require.Equal(t, "shank0", g.Name())

	_, err = f.CreateElectrodeGroup("shank0", "again", "brain area", device)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestAddElectrode(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	device, err := f.CreateDevice("array")
	require.NoError(t, err)
	group, err := f.CreateElectrodeGroup("shank0", "first shank", "brain area", device)
	require.NoError(t, err)

	require.Error(t, f.AddElectrode(Electrode{Group: group}))
	require.Error(t, f.AddElectrode(Electrode{Location: "brain area"}))

	other, err := NewFile("other session", "id-2", testStart)
	require.NoError(t, err)
	foreignDevice, err := other.CreateDevice("array")
	require.NoError(t, err)
	foreignGroup, err := other.CreateElectrodeGroup("shank0", "desc", "area", foreignDevice)
	require.NoError(t, err)
	err = f.AddElectrode(Electrode{Location: "brain area", Group: foreignGroup})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not registered on this file")

	require.NoError(t, f.AddElectrode(Electrode{Location: "brain area", Group: group, X: 1.5, Imp: -1}))
	require.Equal(t, 1, f.NumElectrodes())
}

func TestCreateElectrodeTableRegion(t *testing.T) {
	f, err := NewFile("session", "id-1", testStart)
	require.NoError(t, err)
	device, err := f.CreateDevice("array")
	require.NoError(t, err)
	group, err := f.CreateElectrodeGroup("shank0", "first shank", "brain area", device)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, f.AddElectrode(Electrode{Location: "brain area", Group: group}))
	}

	_, err = f.CreateElectrodeTableRegion(nil, "empty")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot be empty")

	_, err = f.CreateElectrodeTableRegion([]int{0, 4}, "out of range")
	require.Error(t, err)
	require.Contains(t, err.Error(), "electrode index 4 out of range (table has 4 rows)")

	_, err = f.CreateElectrodeTableRegion([]int{-1}, "negative")
	require.Error(t, err)

	region, err := f.CreateElectrodeTableRegion([]int{3, 1}, "a subset")
	require.NoError(t, err)
	require.Equal(t, []int{3, 1}, region.Indices())

	// Indices returns a copy.
	region.Indices()[0] = 99
	require.Equal(t, []int{3, 1}, region.Indices())
}
