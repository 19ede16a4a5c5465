package nwb

import (
	"fmt"

	"github.com/scigolib/nwb/internal/schema"
)

// TimeSeries is the base container for sampled data. Samples are stored
// row-major; a series is either 1-D (one value per sample) or 2-D (a fixed
// number of columns per sample, e.g. channels). Time is represented either
// by explicit per-sample timestamps or by a starting time plus a fixed
// sampling rate, never both.
type TimeSeries struct {
	name        string
	data        []float64
	cols        int
	rank        int
	unit        string
	description string
	comments    string

	timestamps   []float64
	startingTime float64
	rate         float64

	conversion float64
	resolution float64
	offset     float64
}

// SeriesOption configures optional TimeSeries properties.
type SeriesOption func(*TimeSeries)

// WithTimestamps attaches explicit per-sample timestamps, in seconds
// relative to the file's timestamps reference time.
func WithTimestamps(ts []float64) SeriesOption {
	return func(s *TimeSeries) { s.timestamps = ts }
}

// WithRate declares regularly sampled data: a starting time in seconds and
// a sampling rate in Hz.
func WithRate(startingTime, rate float64) SeriesOption {
	return func(s *TimeSeries) {
		s.startingTime = startingTime
		s.rate = rate
	}
}

// WithSeriesDescription sets the series description.
func WithSeriesDescription(desc string) SeriesOption {
	return func(s *TimeSeries) { s.description = desc }
}

// WithComments sets free-form comments about the series.
func WithComments(comments string) SeriesOption {
	return func(s *TimeSeries) { s.comments = comments }
}

// WithConversion sets the multiplier that converts stored values to the
// series unit. Defaults to 1.0.
func WithConversion(c float64) SeriesOption {
	return func(s *TimeSeries) { s.conversion = c }
}

// WithResolution sets the smallest meaningful difference between stored
// values. Defaults to -1.0 (unknown).
func WithResolution(r float64) SeriesOption {
	return func(s *TimeSeries) { s.resolution = r }
}

// WithOffset sets the scalar added to stored values after conversion.
// Defaults to 0.
func WithOffset(o float64) SeriesOption {
	return func(s *TimeSeries) { s.offset = o }
}

// NewTimeSeries creates a 1-D time series.
//
// Exactly one time representation must be supplied via WithTimestamps or
// WithRate, and explicit timestamps must have one entry per sample.
func NewTimeSeries(name string, data []float64, unit string, opts ...SeriesOption) (*TimeSeries, error) {
	ts := &TimeSeries{
		name:       name,
		data:       data,
		cols:       1,
		rank:       1,
		unit:       unit,
		conversion: 1.0,
		resolution: -1.0,
	}
	for _, opt := range opts {
		opt(ts)
	}
	if err := ts.validate(); err != nil {
		return nil, fmt.Errorf("time series %q: %w", name, err)
	}
	return ts, nil
}

func (s *TimeSeries) validate() error {
	if s.name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(s.data) == 0 {
		return fmt.Errorf("data cannot be empty")
	}
	if s.unit == "" {
		return fmt.Errorf("unit cannot be empty")
	}
	hasTimestamps := s.timestamps != nil
	hasRate := s.rate != 0
	if hasTimestamps && hasRate {
		return fmt.Errorf("timestamps and rate are mutually exclusive")
	}
	if !hasTimestamps && !hasRate {
		return fmt.Errorf("either timestamps or rate is required")
	}
	if hasRate && s.rate < 0 {
		return fmt.Errorf("rate must be positive (got %g)", s.rate)
	}
	if hasTimestamps && len(s.timestamps) != s.Rows() {
		return fmt.Errorf("timestamps length %d does not match %d samples",
			len(s.timestamps), s.Rows())
	}
	return nil
}

// Name returns the series name.
func (s *TimeSeries) Name() string { return s.name }

// Rows returns the number of samples in the series.
func (s *TimeSeries) Rows() int { return len(s.data) / s.cols }

// Columns returns the number of values per sample (1 for 1-D series).
func (s *TimeSeries) Columns() int { return s.cols }

func (s *TimeSeries) base() *TimeSeries     { return s }
func (s *TimeSeries) neurodataType() string { return schema.TypeTimeSeries }

// Series is implemented by TimeSeries and its specializations
// (SpatialSeries, ElectricalSeries).
type Series interface {
	Name() string
	base() *TimeSeries
	neurodataType() string
}

// SpatialSeries records position data over time, with a reference frame
// describing the zero point of the coordinate system. Data is 2-D: one row
// per sample, one column per spatial dimension.
type SpatialSeries struct {
	TimeSeries
	referenceFrame string
}

// NewSpatialSeries creates a spatial series from row-per-sample data. All
// rows must have the same width.
func NewSpatialSeries(name string, data [][]float64, referenceFrame string, opts ...SeriesOption) (*SpatialSeries, error) {
	flat, cols, err := flattenRows(data)
	if err != nil {
		return nil, fmt.Errorf("spatial series %q: %w", name, err)
	}
	ss := &SpatialSeries{
		TimeSeries: TimeSeries{
			name:       name,
			data:       flat,
			cols:       cols,
			rank:       2,
			unit:       "meters",
			conversion: 1.0,
			resolution: -1.0,
		},
		referenceFrame: referenceFrame,
	}
	for _, opt := range opts {
		opt(&ss.TimeSeries)
	}
	if referenceFrame == "" {
		return nil, fmt.Errorf("spatial series %q: reference frame cannot be empty", name)
	}
	if err := ss.validate(); err != nil {
		return nil, fmt.Errorf("spatial series %q: %w", name, err)
	}
	return ss, nil
}

// ReferenceFrame returns the description of the coordinate zero point.
func (ss *SpatialSeries) ReferenceFrame() string { return ss.referenceFrame }

func (ss *SpatialSeries) neurodataType() string { return schema.TypeSpatialSeries }

// ElectricalSeries records voltage data from a set of electrodes. Data is
// 2-D: one row per sample, one column per electrode in the region. The
// unit is fixed to volts by the format.
type ElectricalSeries struct {
	TimeSeries
	electrodes *ElectrodeRegion
}

// NewElectricalSeries creates an electrical series from row-per-sample
// data. The number of columns must match the electrode region size.
func NewElectricalSeries(name string, data [][]float64, electrodes *ElectrodeRegion, opts ...SeriesOption) (*ElectricalSeries, error) {
	if electrodes == nil {
		return nil, fmt.Errorf("electrical series %q: electrode region is required", name)
	}
	flat, cols, err := flattenRows(data)
	if err != nil {
		return nil, fmt.Errorf("electrical series %q: %w", name, err)
	}
	if cols != len(electrodes.indices) {
		return nil, fmt.Errorf("electrical series %q: %d data columns but %d electrodes in region",
			name, cols, len(electrodes.indices))
	}
	es := &ElectricalSeries{
		TimeSeries: TimeSeries{
			name:       name,
			data:       flat,
			cols:       cols,
			rank:       2,
			unit:       "volts",
			conversion: 1.0,
			resolution: -1.0,
		},
		electrodes: electrodes,
	}
	for _, opt := range opts {
		opt(&es.TimeSeries)
	}
	if err := es.validate(); err != nil {
		return nil, fmt.Errorf("electrical series %q: %w", name, err)
	}
	return es, nil
}

// Electrodes returns the electrode region the series was recorded from.
func (es *ElectricalSeries) Electrodes() *ElectrodeRegion { return es.electrodes }

func (es *ElectricalSeries) neurodataType() string { return schema.TypeElectricalSeries }

func flattenRows(data [][]float64) ([]float64, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("data cannot be empty")
	}
	cols := len(data[0])
	if cols == 0 {
		return nil, 0, fmt.Errorf("data rows cannot be empty")
	}
	flat := make([]float64, 0, len(data)*cols)
	for i, row := range data {
		if len(row) != cols {
			return nil, 0, fmt.Errorf("row %d has %d values, expected %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return flat, cols, nil
}

// AddAcquisition attaches a series to the file's acquisition group. Series
// names must be unique within acquisition.
func (f *File) AddAcquisition(s Series) error {
	for _, existing := range f.acquisition {
		if existing.Name() == s.Name() {
			return fmt.Errorf("acquisition %q already exists", s.Name())
		}
	}
	f.acquisition = append(f.acquisition, s)
	return nil
}

// Container is a grouping of related series stored inside a processing
// module (Position, LFP).
type Container interface {
	Name() string
	neurodataType() string
	members() []Series
}

// Position groups spatial series describing the subject's position.
type Position struct {
	series []*SpatialSeries
}

// NewPosition creates an empty Position container.
func NewPosition() *Position { return &Position{} }

// AddSpatialSeries adds a spatial series to the container.
func (p *Position) AddSpatialSeries(ss *SpatialSeries) error {
	for _, existing := range p.series {
		if existing.Name() == ss.Name() {
			return fmt.Errorf("spatial series %q already exists in Position", ss.Name())
		}
	}
	p.series = append(p.series, ss)
	return nil
}

// Name returns the fixed container name "Position".
func (p *Position) Name() string { return "Position" }

func (p *Position) neurodataType() string { return schema.TypePosition }

func (p *Position) members() []Series {
	out := make([]Series, len(p.series))
	for i, s := range p.series {
		out[i] = s
	}
	return out
}

// LFP groups electrical series holding local field potential data.
type LFP struct {
	series []*ElectricalSeries
}

// NewLFP creates an empty LFP container.
func NewLFP() *LFP { return &LFP{} }

// AddElectricalSeries adds an electrical series to the container.
func (l *LFP) AddElectricalSeries(es *ElectricalSeries) error {
	for _, existing := range l.series {
		if existing.Name() == es.Name() {
			return fmt.Errorf("electrical series %q already exists in LFP", es.Name())
		}
	}
	l.series = append(l.series, es)
	return nil
}

// Name returns the fixed container name "LFP".
func (l *LFP) Name() string { return "LFP" }

func (l *LFP) neurodataType() string { return schema.TypeLFP }

func (l *LFP) members() []Series {
	out := make([]Series, len(l.series))
	for i, s := range l.series {
		out[i] = s
	}
	return out
}

// ProcessingModule holds intermediate analysis results grouped by theme,
// e.g. "behavior" or "ecephys".
type ProcessingModule struct {
	name        string
	description string
	containers  []Container
}

// CreateProcessingModule creates a processing module and registers it on
// the file. Module names must be unique.
func (f *File) CreateProcessingModule(name, description string) (*ProcessingModule, error) {
	if name == "" {
		return nil, fmt.Errorf("processing module name cannot be empty")
	}
	if description == "" {
		return nil, fmt.Errorf("processing module %q: description cannot be empty", name)
	}
	for _, m := range f.modules {
		if m.name == name {
			return nil, fmt.Errorf("processing module %q already exists", name)
		}
	}
	pm := &ProcessingModule{name: name, description: description}
	f.modules = append(f.modules, pm)
	return pm, nil
}

// Name returns the module name.
func (pm *ProcessingModule) Name() string { return pm.name }

// Add attaches a container to the module. Container names must be unique
// within the module.
func (pm *ProcessingModule) Add(c Container) error {
	for _, existing := range pm.containers {
		if existing.Name() == c.Name() {
			return fmt.Errorf("container %q already exists in module %q", c.Name(), pm.name)
		}
	}
	pm.containers = append(pm.containers, c)
	return nil
}
