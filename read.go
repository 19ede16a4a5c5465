package nwb

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scigolib/hdf5"

	"github.com/scigolib/nwb/internal/schema"
)

// FileReader provides read access to an NWB file. Session metadata is
// loaded when the file is opened; array-valued fields are returned as lazy
// Data handles that read from disk on demand.
type FileReader struct {
	h    *hdf5.File
	root *hdf5.Group

	sessionDescription      string
	identifier              string
	sessionStartTime        time.Time
	timestampsReferenceTime time.Time
	nwbVersion              string
}

// Open opens an NWB file for reading.
func Open(path string) (*FileReader, error) {
	h, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r := &FileReader{h: h, root: h.Root()}
	if err := r.loadHeader(); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, nil
}

// Close closes the underlying HDF5 file. Data handles obtained from the
// reader must not be used after Close.
func (r *FileReader) Close() error {
	return r.h.Close()
}

func (r *FileReader) loadHeader() error {
	var err error
	if r.sessionDescription, err = readScalarString(r.root, schema.DatasetSessionDescription); err != nil {
		return err
	}
	if r.identifier, err = readScalarString(r.root, schema.DatasetIdentifier); err != nil {
		return err
	}
	if r.nwbVersion, err = readScalarString(r.root, schema.DatasetNWBVersion); err != nil {
		return err
	}
	start, err := readScalarString(r.root, schema.DatasetSessionStartTime)
	if err != nil {
		return err
	}
	if r.sessionStartTime, err = time.Parse(time.RFC3339, start); err != nil {
		return fmt.Errorf("parse session start time %q: %w", start, err)
	}
	ref, err := readScalarString(r.root, schema.DatasetTimestampsReferenceTime)
	if err != nil {
		return err
	}
	if r.timestampsReferenceTime, err = time.Parse(time.RFC3339, ref); err != nil {
		return fmt.Errorf("parse timestamps reference time %q: %w", ref, err)
	}
	return nil
}

// SessionDescription returns the session description.
func (r *FileReader) SessionDescription() string { return r.sessionDescription }

// Identifier returns the file identifier.
func (r *FileReader) Identifier() string { return r.identifier }

// SessionStartTime returns the session start time.
func (r *FileReader) SessionStartTime() time.Time { return r.sessionStartTime }

// TimestampsReferenceTime returns the zero point for timestamps.
func (r *FileReader) TimestampsReferenceTime() time.Time { return r.timestampsReferenceTime }

// NWBVersion returns the NWB format version recorded in the file.
func (r *FileReader) NWBVersion() string { return r.nwbVersion }

// GeneralField reads an optional scalar string dataset from /general
// (e.g. "lab", "institution", "session_id"). Returns ErrNotFound if the
// field was not written.
func (r *FileReader) GeneralField(name string) (string, error) {
	g, err := r.groupAt(schema.PathGeneral)
	if err != nil {
		return "", err
	}
	return readScalarString(g, name)
}

// Experimenter reads the experimenter names, or ErrNotFound if none were
// recorded.
func (r *FileReader) Experimenter() ([]string, error) {
	g, err := r.groupAt(schema.PathGeneral)
	if err != nil {
		return nil, err
	}
	ds, err := childDataset(g, "experimenter")
	if err != nil {
		return nil, err
	}
	return readStringArray(ds)
}

// Keywords reads the session keywords, or ErrNotFound if none were
// recorded.
func (r *FileReader) Keywords() ([]string, error) {
	g, err := r.groupAt(schema.PathGeneral)
	if err != nil {
		return nil, err
	}
	ds, err := childDataset(g, "keywords")
	if err != nil {
		return nil, err
	}
	return readStringArray(ds)
}

// Subject reads the subject metadata. Returns ErrNotFound if the file has
// no subject group.
func (r *FileReader) Subject() (*Subject, error) {
	g, err := r.groupAt(schema.PathSubject)
	if err != nil {
		return nil, err
	}
	s := &Subject{}
	fields := []struct {
		name string
		dest *string
	}{
		{"subject_id", &s.SubjectID},
		{"age", &s.Age},
		{"description", &s.Description},
		{"species", &s.Species},
		{"sex", &s.Sex},
	}
	for _, f := range fields {
		v, err := readScalarString(g, f.name)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		*f.dest = v
	}
	return s, nil
}

// Acquisition returns a reader for the named series under /acquisition.
func (r *FileReader) Acquisition(name string) (*SeriesReader, error) {
	g, err := r.groupAt(schema.PathAcquisition + "/" + name)
	if err != nil {
		return nil, err
	}
	return newSeriesReader(g)
}

// AcquisitionNames lists the series stored under /acquisition.
func (r *FileReader) AcquisitionNames() ([]string, error) {
	g, err := r.groupAt(schema.PathAcquisition)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, child := range g.Children() {
		if sub, ok := child.(*hdf5.Group); ok {
			names = append(names, cleanName(sub.Name()))
		}
	}
	return names, nil
}

// ProcessingModule returns a reader for the named module under /processing.
func (r *FileReader) ProcessingModule(name string) (*ModuleReader, error) {
	g, err := r.groupAt(schema.PathProcessing + "/" + name)
	if err != nil {
		return nil, err
	}
	return &ModuleReader{g: g, name: name}, nil
}

// ModuleReader provides access to the containers of a processing module.
type ModuleReader struct {
	g    *hdf5.Group
	name string
}

// Name returns the module name.
func (m *ModuleReader) Name() string { return m.name }

// Description reads the module description attribute.
func (m *ModuleReader) Description() (string, error) {
	return groupAttrString(m.g, schema.AttrDescription)
}

// Series returns a reader for a series inside one of the module's
// containers, e.g. Series("Position", "SpatialSeries").
func (m *ModuleReader) Series(container, series string) (*SeriesReader, error) {
	c, err := childGroup(m.g, container)
	if err != nil {
		return nil, err
	}
	g, err := childGroup(c, series)
	if err != nil {
		return nil, err
	}
	return newSeriesReader(g)
}

// SeriesReader provides access to one stored time series. The data array
// is exposed as a lazy handle; timestamps are typically small and read
// eagerly on request.
type SeriesReader struct {
	g    *hdf5.Group
	name string
	data *Data
}

func newSeriesReader(g *hdf5.Group) (*SeriesReader, error) {
	ds, err := childDataset(g, "data")
	if err != nil {
		return nil, err
	}
	return &SeriesReader{g: g, name: cleanName(g.Name()), data: &Data{ds: ds}}, nil
}

// Name returns the series name.
func (sr *SeriesReader) Name() string { return sr.name }

// NeurodataType reads the series type attribute ("TimeSeries",
// "SpatialSeries", "ElectricalSeries").
func (sr *SeriesReader) NeurodataType() (string, error) {
	return groupAttrString(sr.g, schema.AttrNeurodataType)
}

// Data returns the lazy handle on the series data array.
func (sr *SeriesReader) Data() *Data { return sr.data }

// Unit reads the unit attribute of the data array.
func (sr *SeriesReader) Unit() (string, error) {
	v, err := sr.data.ds.ReadAttribute(schema.AttrUnit)
	if err != nil {
		return "", fmt.Errorf("series %s: %w", sr.name, err)
	}
	return attrString(v)
}

// Timestamps reads the explicit per-sample timestamps. Returns ErrNotFound
// for rate-based series.
func (sr *SeriesReader) Timestamps() ([]float64, error) {
	ds, err := childDataset(sr.g, "timestamps")
	if err != nil {
		return nil, err
	}
	return ds.Read()
}

// StartingTime reads the starting time and sampling rate of a rate-based
// series. Returns ErrNotFound for timestamp-based series.
func (sr *SeriesReader) StartingTime() (start, rate float64, err error) {
	ds, err := childDataset(sr.g, "starting_time")
	if err != nil {
		return 0, 0, err
	}
	vals, err := ds.Read()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) == 0 {
		return 0, 0, fmt.Errorf("series %s: empty starting_time", sr.name)
	}
	rv, err := ds.ReadAttribute(schema.AttrRate)
	if err != nil {
		return 0, 0, fmt.Errorf("series %s: %w", sr.name, err)
	}
	rate, err = attrFloat(rv)
	if err != nil {
		return 0, 0, fmt.Errorf("series %s rate: %w", sr.name, err)
	}
	return vals[0], rate, nil
}

// ReferenceFrame reads the reference frame of a spatial series.
func (sr *SeriesReader) ReferenceFrame() (string, error) {
	return readScalarString(sr.g, "reference_frame")
}

// ElectrodeIndices reads the electrode table rows an electrical series was
// recorded from.
func (sr *SeriesReader) ElectrodeIndices() ([]int64, error) {
	ds, err := childDataset(sr.g, "electrodes")
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

// Data is a lazily-backed handle on an array-valued dataset. Values stay on
// disk until Read, Strings, or Slice is called.
type Data struct {
	ds *hdf5.Dataset
}

// Read materializes the full array as float64 values.
func (d *Data) Read() ([]float64, error) {
	return d.ds.Read()
}

// Strings materializes the full array as strings.
func (d *Data) Strings() ([]string, error) {
	return readStringArray(d.ds)
}

// Slice reads a rectangular block without materializing the rest of the
// array. start and count must have one entry per dataset dimension.
//
// Example (first two rows of a 2-D position series):
//
//	rows, err := sr.Data().Slice([]uint64{0, 0}, []uint64{2, 2})
func (d *Data) Slice(start, count []uint64) ([]float64, error) {
	raw, err := d.ds.ReadSlice(start, count)
	if err != nil {
		return nil, err
	}
	return toFloat64(raw)
}

func toFloat64(v interface{}) ([]float64, error) {
	switch vals := v.(type) {
	case []float64:
		return vals, nil
	case []float32:
		out := make([]float64, len(vals))
		for i, x := range vals {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(vals))
		for i, x := range vals {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(vals))
		for i, x := range vals {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported slice element type %T", v)
	}
}

// Navigation helpers. Object names read from symbol tables may carry
// trailing NUL or space padding; trim before comparing. Stored string
// values only ever carry the fixed-size writer's NUL padding, so cleanValue
// keeps legitimate trailing spaces intact.

func cleanName(name string) string {
	return strings.TrimRight(name, "\x00 ")
}

func cleanValue(s string) string {
	return strings.TrimRight(s, "\x00")
}

func childGroup(g *hdf5.Group, name string) (*hdf5.Group, error) {
	for _, child := range g.Children() {
		if sub, ok := child.(*hdf5.Group); ok && cleanName(sub.Name()) == name {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
}

func childDataset(g *hdf5.Group, name string) (*hdf5.Dataset, error) {
	for _, child := range g.Children() {
		if ds, ok := child.(*hdf5.Dataset); ok && cleanName(ds.Name()) == name {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
}

// groupAt resolves an absolute slash-separated path to a group.
func (r *FileReader) groupAt(path string) (*hdf5.Group, error) {
	g := r.root
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		sub, err := childGroup(g, part)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", path, err)
		}
		g = sub
	}
	return g, nil
}

// DatasetAt resolves an absolute slash-separated path to a lazy data
// handle. The final path segment must name a dataset.
func (r *FileReader) DatasetAt(path string) (*Data, error) {
	trimmed := strings.Trim(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	parent := r.root
	name := trimmed
	if idx >= 0 {
		var err error
		parent, err = r.groupAt(trimmed[:idx])
		if err != nil {
			return nil, err
		}
		name = trimmed[idx+1:]
	}
	ds, err := childDataset(parent, name)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", path, err)
	}
	return &Data{ds: ds}, nil
}

// readStringArray reads a string dataset and strips the fixed-size padding
// the storage layer leaves on each element.
func readStringArray(ds *hdf5.Dataset) ([]string, error) {
	vals, err := ds.ReadStrings()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		vals[i] = cleanValue(v)
	}
	return vals, nil
}

func readScalarString(g *hdf5.Group, name string) (string, error) {
	ds, err := childDataset(g, name)
	if err != nil {
		return "", err
	}
	vals, err := ds.ReadStrings()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(vals) == 0 {
		return "", fmt.Errorf("dataset %s is empty", name)
	}
	return cleanValue(vals[0]), nil
}

func groupAttr(g *hdf5.Group, name string) (interface{}, error) {
	list, err := g.Attributes()
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.Name == name {
			return a.ReadValue()
		}
	}
	return nil, fmt.Errorf("attribute %q: %w", name, ErrNotFound)
}

func groupAttrString(g *hdf5.Group, name string) (string, error) {
	v, err := groupAttr(g, name)
	if err != nil {
		return "", err
	}
	return attrString(v)
}

func attrString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("attribute value is %T, not string", v)
	}
	return cleanValue(s), nil
}

func attrFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("attribute value is %T, not numeric", v)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
