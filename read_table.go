package nwb

import (
	"fmt"
	"strings"

	"github.com/scigolib/hdf5"

	"github.com/scigolib/nwb/internal/schema"
)

// TableReader provides access to a stored dynamic table (trials,
// electrodes). Columns are exposed as lazy Data handles.
type TableReader struct {
	g        *hdf5.Group
	colnames []string
}

func newTableReader(g *hdf5.Group) (*TableReader, error) {
	joined, err := groupAttrString(g, schema.AttrColnames)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", cleanName(g.Name()), err)
	}
	return &TableReader{
		g:        g,
		colnames: strings.Split(joined, schema.ColnamesSeparator),
	}, nil
}

// Trials returns a reader for the /intervals/trials table. Returns
// ErrNotFound if the file has no trials.
func (r *FileReader) Trials() (*TableReader, error) {
	g, err := r.groupAt(schema.PathTrials)
	if err != nil {
		return nil, err
	}
	return newTableReader(g)
}

// Electrodes returns a reader for the electrode table. Returns ErrNotFound
// if the file has no electrodes.
func (r *FileReader) Electrodes() (*TableReader, error) {
	g, err := r.groupAt(schema.PathElectrodes)
	if err != nil {
		return nil, err
	}
	return newTableReader(g)
}

// Colnames returns the table's column names in declaration order, excluding
// the id column.
func (t *TableReader) Colnames() []string {
	return append([]string(nil), t.colnames...)
}

// IDs reads the table's row identifiers.
func (t *TableReader) IDs() ([]int64, error) {
	ds, err := childDataset(t.g, "id")
	if err != nil {
		return nil, err
	}
	vals, err := ds.Read()
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out, nil
}

// NumRows returns the number of table rows.
func (t *TableReader) NumRows() (int, error) {
	ids, err := t.IDs()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Column returns a lazy handle on the named column.
func (t *TableReader) Column(name string) (*Data, error) {
	ds, err := childDataset(t.g, name)
	if err != nil {
		return nil, err
	}
	return &Data{ds: ds}, nil
}

// FloatColumn materializes a numeric column.
func (t *TableReader) FloatColumn(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return c.Read()
}

// StringColumn materializes a string column.
func (t *TableReader) StringColumn(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return c.Strings()
}

// UnitsReader provides access to the /units table. Per-unit spike times
// are reconstructed from the ragged index without materializing the full
// spike_times array.
type UnitsReader struct {
	table  *TableReader
	index  []int64
	spikes *Data
}

// Units returns a reader for the /units table. Returns ErrNotFound if the
// file has no units.
func (r *FileReader) Units() (*UnitsReader, error) {
	g, err := r.groupAt(schema.PathUnits)
	if err != nil {
		return nil, err
	}
	table, err := newTableReader(g)
	if err != nil {
		return nil, err
	}
	u := &UnitsReader{table: table}

	// spike_times and its index are absent when every unit is empty.
	spikes, err := table.Column(schema.DatasetSpikeTimes)
	switch {
	case err == nil:
		u.spikes = spikes
		idx, err := table.FloatColumn(schema.DatasetSpikeTimesIndex)
		if err != nil {
			return nil, fmt.Errorf("units: %w", err)
		}
		u.index = make([]int64, len(idx))
		prev := int64(0)
		for i, v := range idx {
			end := int64(v)
			if end < prev {
				return nil, fmt.Errorf("units: spike_times_index is not monotonic at entry %d (%d < %d)",
					i, end, prev)
			}
			u.index[i] = end
			prev = end
		}
	case isNotFound(err):
		// No spikes stored at all.
	default:
		return nil, err
	}
	return u, nil
}

// Table returns the underlying dynamic table reader, for access to id and
// user-declared columns.
func (u *UnitsReader) Table() *TableReader { return u.table }

// NumUnits returns the number of units.
func (u *UnitsReader) NumUnits() (int, error) {
	return u.table.NumRows()
}

// SpikeTimes lazily reads the spike times of a single unit, slicing only
// that unit's range from the flat spike_times array.
func (u *UnitsReader) SpikeTimes(i int) ([]float64, error) {
	n, err := u.NumUnits()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("unit index %d out of range (%d units)", i, n)
	}
	if u.spikes == nil {
		return nil, nil
	}
	if i >= len(u.index) {
		return nil, fmt.Errorf("spike_times_index has %d entries for %d units", len(u.index), n)
	}
	start := int64(0)
	if i > 0 {
		start = u.index[i-1]
	}
	count := u.index[i] - start
	if count == 0 {
		return nil, nil
	}
	return u.spikes.Slice([]uint64{uint64(start)}, []uint64{uint64(count)})
}
