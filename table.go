package nwb

import "fmt"

// Dynamic table columns hold either float64 or string values. The kind is
// fixed by the first row appended to the column.

type columnKind int

const (
	kindUnset columnKind = iota
	kindFloat
	kindString
)

type tableColumn struct {
	name        string
	description string
	kind        columnKind
	floats      []float64
	strings     []string
}

// canAppend reports whether v fits the column's kind without mutating it.
func (c *tableColumn) canAppend(v interface{}) error {
	switch v.(type) {
	case float64, int:
		if c.kind == kindString {
			return fmt.Errorf("column %q holds strings, got %T", c.name, v)
		}
	case string:
		if c.kind == kindFloat {
			return fmt.Errorf("column %q holds floats, got string", c.name)
		}
	default:
		return fmt.Errorf("column %q: unsupported value type %T", c.name, v)
	}
	return nil
}

func (c *tableColumn) append(v interface{}) error {
	if err := c.canAppend(v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		c.kind = kindFloat
		c.floats = append(c.floats, val)
	case int:
		c.kind = kindFloat
		c.floats = append(c.floats, float64(val))
	case string:
		c.kind = kindString
		c.strings = append(c.strings, val)
	}
	return nil
}

// checkRow verifies a whole row against the columns before anything is
// appended, so a rejected row leaves every column untouched.
func checkRow(columns []*tableColumn, values []interface{}) error {
	for i, v := range values {
		if err := columns[i].canAppend(v); err != nil {
			return err
		}
	}
	return nil
}

func findColumn(cols []*tableColumn, name string) *tableColumn {
	for _, c := range cols {
		if c.name == name {
			return c
		}
	}
	return nil
}

// trialsTable backs the /intervals/trials dynamic table: required
// start/stop times plus user-declared columns.
type trialsTable struct {
	columns []*tableColumn
	start   []float64
	stop    []float64
}

// AddTrialColumn declares an extra per-trial column. Columns must be
// declared before the first trial is added; start_time, stop_time and id
// are reserved.
func (f *File) AddTrialColumn(name, description string) error {
	if name == "" {
		return fmt.Errorf("trial column name cannot be empty")
	}
	switch name {
	case "id", "start_time", "stop_time":
		return fmt.Errorf("trial column name %q is reserved", name)
	}
	if f.trials == nil {
		f.trials = &trialsTable{}
	}
	if len(f.trials.start) > 0 {
		return fmt.Errorf("cannot add trial column %q after trials exist", name)
	}
	if findColumn(f.trials.columns, name) != nil {
		return fmt.Errorf("trial column %q already exists", name)
	}
	f.trials.columns = append(f.trials.columns, &tableColumn{name: name, description: description})
	return nil
}

// AddTrial appends a trial with its start and stop time in seconds,
// followed by one value per declared column, in declaration order.
func (f *File) AddTrial(start, stop float64, values ...interface{}) error {
	if stop < start {
		return fmt.Errorf("trial stop time %g before start time %g", stop, start)
	}
	if f.trials == nil {
		f.trials = &trialsTable{}
	}
	t := f.trials
	if len(values) != len(t.columns) {
		return fmt.Errorf("trial has %d values but table has %d columns", len(values), len(t.columns))
	}
	if err := checkRow(t.columns, values); err != nil {
		return fmt.Errorf("trial %d: %w", len(t.start), err)
	}
	for i, v := range values {
		if err := t.columns[i].append(v); err != nil {
			return fmt.Errorf("trial %d: %w", len(t.start), err)
		}
	}
	t.start = append(t.start, start)
	t.stop = append(t.stop, stop)
	return nil
}

// NumTrials returns the number of trials added so far.
func (f *File) NumTrials() int {
	if f.trials == nil {
		return 0
	}
	return len(f.trials.start)
}
