package nwb

import "fmt"

// Device describes a recording device.
type Device struct {
	name         string
	description  string
	manufacturer string
}

// DeviceOption configures optional device metadata.
type DeviceOption func(*Device)

// WithDeviceDescription sets the device description.
func WithDeviceDescription(desc string) DeviceOption {
	return func(d *Device) { d.description = desc }
}

// WithManufacturer sets the device manufacturer.
func WithManufacturer(m string) DeviceOption {
	return func(d *Device) { d.manufacturer = m }
}

// CreateDevice creates a device and registers it on the file. Device names
// must be unique.
func (f *File) CreateDevice(name string, opts ...DeviceOption) (*Device, error) {
	if name == "" {
		return nil, fmt.Errorf("device name cannot be empty")
	}
	for _, d := range f.devices {
		if d.name == name {
			return nil, fmt.Errorf("device %q already exists", name)
		}
	}
	d := &Device{name: name}
	for _, opt := range opts {
		opt(d)
	}
	f.devices = append(f.devices, d)
	return d, nil
}

// Name returns the device name.
func (d *Device) Name() string { return d.name }

// ElectrodeGroup describes a physical grouping of electrodes, e.g. one
// shank of a probe, recorded by a single device.
type ElectrodeGroup struct {
	name        string
	description string
	location    string
	device      *Device
}

// CreateElectrodeGroup creates an electrode group and registers it on the
// file. The device must have been created on the same file.
func (f *File) CreateElectrodeGroup(name, description, location string, device *Device) (*ElectrodeGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("electrode group name cannot be empty")
	}
	if device == nil {
		return nil, fmt.Errorf("electrode group %q: device is required", name)
	}
	registered := false
	for _, d := range f.devices {
		if d == device {
			registered = true
			break
		}
	}
	if !registered {
		return nil, fmt.Errorf("electrode group %q: device %q is not registered on this file", name, device.name)
	}
	for _, g := range f.electrodeGroups {
		if g.name == name {
			return nil, fmt.Errorf("electrode group %q already exists", name)
		}
	}
	g := &ElectrodeGroup{name: name, description: description, location: location, device: device}
	f.electrodeGroups = append(f.electrodeGroups, g)
	return g, nil
}

// Name returns the group name.
func (g *ElectrodeGroup) Name() string { return g.name }

// Electrode is one row of the electrode table. Location and Group are
// required; the coordinate, impedance, and filtering fields are optional.
type Electrode struct {
	Location  string
	Group     *ElectrodeGroup
	X, Y, Z   float64
	Imp       float64
	Filtering string
}

// AddElectrode appends a row to the electrode table. The electrode's group
// must have been created on the same file.
func (f *File) AddElectrode(e Electrode) error {
	if e.Location == "" {
		return fmt.Errorf("electrode location cannot be empty")
	}
	if e.Group == nil {
		return fmt.Errorf("electrode group is required")
	}
	registered := false
	for _, g := range f.electrodeGroups {
		if g == e.Group {
			registered = true
			break
		}
	}
	if !registered {
		return fmt.Errorf("electrode group %q is not registered on this file", e.Group.name)
	}
	f.electrodes = append(f.electrodes, e)
	return nil
}

// NumElectrodes returns the number of electrode table rows.
func (f *File) NumElectrodes() int { return len(f.electrodes) }

// ElectrodeRegion is an ordered selection of electrode table rows,
// referenced by electrical series to declare which electrodes they were
// recorded from.
type ElectrodeRegion struct {
	indices     []int
	description string
}

// CreateElectrodeTableRegion creates a region selecting the given electrode
// table rows. All indices must refer to existing rows.
func (f *File) CreateElectrodeTableRegion(indices []int, description string) (*ElectrodeRegion, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("electrode region cannot be empty")
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(f.electrodes) {
			return nil, fmt.Errorf("electrode index %d out of range (table has %d rows)", idx, len(f.electrodes))
		}
	}
	region := &ElectrodeRegion{
		indices:     append([]int(nil), indices...),
		description: description,
	}
	return region, nil
}

// Indices returns the selected electrode table row indices.
func (r *ElectrodeRegion) Indices() []int {
	return append([]int(nil), r.indices...)
}
