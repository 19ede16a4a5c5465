package nwb

import "fmt"

// unitsTable backs the /units table: ragged spike times plus user-declared
// per-unit columns. Spike times are stored flat with a cumulative index,
// one end offset per unit.
type unitsTable struct {
	columns    []*tableColumn
	spikeTimes [][]float64
}

// AddUnitColumn declares an extra per-unit column. Columns must be declared
// before the first unit is added; id, spike_times and spike_times_index are
// reserved.
func (f *File) AddUnitColumn(name, description string) error {
	if name == "" {
		return fmt.Errorf("unit column name cannot be empty")
	}
	switch name {
	case "id", "spike_times", "spike_times_index":
		return fmt.Errorf("unit column name %q is reserved", name)
	}
	if f.units == nil {
		f.units = &unitsTable{}
	}
	if len(f.units.spikeTimes) > 0 {
		return fmt.Errorf("cannot add unit column %q after units exist", name)
	}
	if findColumn(f.units.columns, name) != nil {
		return fmt.Errorf("unit column %q already exists", name)
	}
	f.units.columns = append(f.units.columns, &tableColumn{name: name, description: description})
	return nil
}

// AddUnit appends a unit with its spike times in seconds, followed by one
// value per declared column, in declaration order. A unit may have zero
// spikes.
func (f *File) AddUnit(spikeTimes []float64, values ...interface{}) error {
	if f.units == nil {
		f.units = &unitsTable{}
	}
	u := f.units
	if len(values) != len(u.columns) {
		return fmt.Errorf("unit has %d values but table has %d columns", len(values), len(u.columns))
	}
	if err := checkRow(u.columns, values); err != nil {
		return fmt.Errorf("unit %d: %w", len(u.spikeTimes), err)
	}
	for i, v := range values {
		if err := u.columns[i].append(v); err != nil {
			return fmt.Errorf("unit %d: %w", len(u.spikeTimes), err)
		}
	}
	u.spikeTimes = append(u.spikeTimes, append([]float64(nil), spikeTimes...))
	return nil
}

// NumUnits returns the number of units added so far.
func (f *File) NumUnits() int {
	if f.units == nil {
		return 0
	}
	return len(f.units.spikeTimes)
}
