package nwb

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scigolib/hdf5"

	"github.com/scigolib/nwb/internal/schema"
)

// Series data at or above this element count is stored chunked with
// shuffle+gzip; smaller data stays contiguous.
const chunkThreshold = 4096

// Maximum rows per chunk for chunked series data.
const chunkRows = 256

// Write serializes the file graph to an NWB/HDF5 file at path, overwriting
// any existing file. The graph is validated as it is written; on error the
// partially written file is left on disk in an undefined state.
func Write(f *File, path string) error {
	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := &fileWriter{fw: fw, f: f}
	if err := w.writeAll(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// fileWriter walks the file graph and emits the NWB 2.x HDF5 layout.
type fileWriter struct {
	fw *hdf5.FileWriter
	f  *File
}

func (w *fileWriter) writeAll() error {
	steps := []func() error{
		w.writeRoot,
		w.writeGeneral,
		w.writeAcquisition,
		w.writeProcessing,
		w.writeTrials,
		w.writeUnits,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// attrs is an attribute set written in sorted key order so that repeated
// writes of the same graph produce identical files.
type attrs map[string]interface{}

func writeAttrs(target interface {
	WriteAttribute(name string, value interface{}) error
}, path string, a attrs) error {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := target.WriteAttribute(k, a[k]); err != nil {
			return fmt.Errorf("attribute %s on %s: %w", k, path, err)
		}
	}
	return nil
}

// typedAttrs returns the attribute set every typed NWB object carries.
func (w *fileWriter) typedAttrs(neurodataType, namespace string) attrs {
	return attrs{
		schema.AttrNeurodataType: neurodataType,
		schema.AttrNamespace:     namespace,
		schema.AttrObjectID:      w.f.newID(),
	}
}

func (w *fileWriter) group(path string, a attrs) error {
	g, err := w.fw.CreateGroup(path)
	if err != nil {
		return fmt.Errorf("create group %s: %w", path, err)
	}
	return writeAttrs(g, path, a)
}

func (w *fileWriter) stringDataset(path string, values []string, a attrs) error {
	size := uint32(1)
	for _, s := range values {
		if len(s)+1 > int(size) {
			size = uint32(len(s) + 1)
		}
	}
	ds, err := w.fw.CreateDataset(path, hdf5.String, []uint64{uint64(len(values))},
		hdf5.WithStringSize(size))
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	if err := ds.Write(values); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return writeAttrs(ds, path, a)
}

func (w *fileWriter) scalarStringDataset(path, value string, a attrs) error {
	return w.stringDataset(path, []string{value}, a)
}

func (w *fileWriter) floatDataset(path string, values []float64, dims []uint64, a attrs) error {
	var opts []hdf5.DatasetOption
	if len(values) >= chunkThreshold {
		chunk := make([]uint64, len(dims))
		copy(chunk, dims)
		chunk[0] = min(dims[0], chunkRows)
		opts = append(opts,
			hdf5.WithChunkDims(chunk),
			hdf5.WithShuffle(),
			hdf5.WithGZIPCompression(4))
	}
	ds, err := w.fw.CreateDataset(path, hdf5.Float64, dims, opts...)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	if err := ds.Write(values); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return writeAttrs(ds, path, a)
}

func (w *fileWriter) intDataset(path string, values []int64, a attrs) error {
	ds, err := w.fw.CreateDataset(path, hdf5.Int64, []uint64{uint64(len(values))})
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	if err := ds.Write(values); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return writeAttrs(ds, path, a)
}

func (w *fileWriter) writeRoot() error {
	f := w.f
	rootSets := []struct {
		name  string
		value string
	}{
		{schema.DatasetSessionDescription, f.sessionDescription},
		{schema.DatasetIdentifier, f.identifier},
		{schema.DatasetSessionStartTime, f.sessionStartTime.Format(time.RFC3339)},
		{schema.DatasetTimestampsReferenceTime, f.timestampsReferenceTime.Format(time.RFC3339)},
		{schema.DatasetNWBVersion, schema.Version},
	}
	for _, d := range rootSets {
		if err := w.scalarStringDataset("/"+d.name, d.value, nil); err != nil {
			return err
		}
	}
	createDate := []string{time.Now().Format(time.RFC3339)}
	return w.stringDataset("/"+schema.DatasetFileCreateDate, createDate, nil)
}

func (w *fileWriter) writeGeneral() error {
	f := w.f
	if err := w.group(schema.PathGeneral, nil); err != nil {
		return err
	}

	optional := []struct {
		name  string
		value string
	}{
		{"lab", f.lab},
		{"institution", f.institution},
		{"experiment_description", f.experimentDescription},
		{"session_id", f.sessionID},
	}
	for _, d := range optional {
		if d.value == "" {
			continue
		}
		if err := w.scalarStringDataset(schema.PathGeneral+"/"+d.name, d.value, nil); err != nil {
			return err
		}
	}
	if len(f.experimenter) > 0 {
		if err := w.stringDataset(schema.PathGeneral+"/experimenter", f.experimenter, nil); err != nil {
			return err
		}
	}
	if len(f.keywords) > 0 {
		if err := w.stringDataset(schema.PathGeneral+"/keywords", f.keywords, nil); err != nil {
			return err
		}
	}

	if f.subject != nil {
		if err := w.writeSubject(); err != nil {
			return err
		}
	}
	return w.writeExtracellularEphys()
}

func (w *fileWriter) writeSubject() error {
	s := w.f.subject
	if err := w.group(schema.PathSubject, w.typedAttrs(schema.TypeSubject, schema.NamespaceCore)); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value string
	}{
		{"subject_id", s.SubjectID},
		{"age", s.Age},
		{"description", s.Description},
		{"species", s.Species},
		{"sex", s.Sex},
	}
	for _, d := range fields {
		if d.value == "" {
			continue
		}
		if err := w.scalarStringDataset(schema.PathSubject+"/"+d.name, d.value, nil); err != nil {
			return err
		}
	}
	return nil
}

func (w *fileWriter) writeExtracellularEphys() error {
	f := w.f
	if len(f.devices) == 0 && len(f.electrodeGroups) == 0 && len(f.electrodes) == 0 {
		return nil
	}

	if len(f.devices) > 0 {
		if err := w.group(schema.PathDevices, nil); err != nil {
			return err
		}
		for _, d := range f.devices {
			a := w.typedAttrs(schema.TypeDevice, schema.NamespaceCore)
			if d.description != "" {
				a[schema.AttrDescription] = d.description
			}
			if d.manufacturer != "" {
				a[schema.AttrManufacturer] = d.manufacturer
			}
			if err := w.group(schema.PathDevices+"/"+d.name, a); err != nil {
				return err
			}
		}
	}

	if err := w.group(schema.PathExtraEphys, nil); err != nil {
		return err
	}
	for _, g := range f.electrodeGroups {
		a := w.typedAttrs(schema.TypeElectrodeGroup, schema.NamespaceCore)
		a[schema.AttrDescription] = g.description
		a[schema.AttrLocation] = g.location
		groupPath := schema.PathExtraEphys + "/" + g.name
		if err := w.group(groupPath, a); err != nil {
			return err
		}
		// The group's device is a soft link into /general/devices.
		devicePath := schema.PathDevices + "/" + g.device.name
		if err := w.fw.CreateSoftLink(groupPath+"/device", devicePath); err != nil {
			return fmt.Errorf("link %s/device: %w", groupPath, err)
		}
	}

	if len(f.electrodes) > 0 {
		if err := w.writeElectrodeTable(); err != nil {
			return err
		}
	}
	return nil
}

// electrodeColnames is the fixed column order of the electrode table.
var electrodeColnames = []string{"x", "y", "z", "imp", "location", "filtering", "group_name"}

func (w *fileWriter) writeElectrodeTable() error {
	f := w.f
	a := w.typedAttrs(schema.TypeDynamicTable, schema.NamespaceHDMF)
	a[schema.AttrDescription] = "metadata about extracellular electrodes"
	a[schema.AttrColnames] = joinColnames(electrodeColnames)
	if err := w.group(schema.PathElectrodes, a); err != nil {
		return err
	}

	n := len(f.electrodes)
	ids := make([]int64, n)
	x := make([]float64, n)
	y := make([]float64, n)
	z := make([]float64, n)
	imp := make([]float64, n)
	location := make([]string, n)
	filtering := make([]string, n)
	groupName := make([]string, n)
	for i, e := range f.electrodes {
		ids[i] = int64(i)
		x[i], y[i], z[i], imp[i] = e.X, e.Y, e.Z, e.Imp
		location[i] = e.Location
		filtering[i] = e.Filtering
		groupName[i] = e.Group.name
	}

	if err := w.intDataset(schema.PathElectrodes+"/id",
		ids, w.columnAttrs(schema.TypeElementIdentifiers, "")); err != nil {
		return err
	}
	floatCols := map[string][]float64{"x": x, "y": y, "z": z, "imp": imp}
	for _, name := range []string{"x", "y", "z", "imp"} {
		err := w.floatDataset(schema.PathElectrodes+"/"+name, floatCols[name],
			[]uint64{uint64(n)}, w.columnAttrs(schema.TypeVectorData, name))
		if err != nil {
			return err
		}
	}
	stringCols := map[string][]string{
		"location":   location,
		"filtering":  filtering,
		"group_name": groupName,
	}
	for _, name := range []string{"location", "filtering", "group_name"} {
		err := w.stringDataset(schema.PathElectrodes+"/"+name, stringCols[name],
			w.columnAttrs(schema.TypeVectorData, name))
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *fileWriter) columnAttrs(neurodataType, description string) attrs {
	a := w.typedAttrs(neurodataType, schema.NamespaceHDMF)
	if description != "" {
		a[schema.AttrDescription] = description
	}
	return a
}

func (w *fileWriter) writeAcquisition() error {
	if err := w.group(schema.PathAcquisition, nil); err != nil {
		return err
	}
	for _, s := range w.f.acquisition {
		if err := w.writeSeries(schema.PathAcquisition, s); err != nil {
			return err
		}
	}
	return nil
}

func (w *fileWriter) writeProcessing() error {
	if err := w.group(schema.PathProcessing, nil); err != nil {
		return err
	}
	for _, m := range w.f.modules {
		modPath := schema.PathProcessing + "/" + m.name
		a := w.typedAttrs(schema.TypeProcessingModule, schema.NamespaceCore)
		a[schema.AttrDescription] = m.description
		if err := w.group(modPath, a); err != nil {
			return err
		}
		for _, c := range m.containers {
			cPath := modPath + "/" + c.Name()
			if err := w.group(cPath, w.typedAttrs(c.neurodataType(), schema.NamespaceCore)); err != nil {
				return err
			}
			for _, s := range c.members() {
				if err := w.writeSeries(cPath, s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *fileWriter) writeSeries(parent string, s Series) error {
	ts := s.base()
	path := parent + "/" + ts.name

	a := w.typedAttrs(s.neurodataType(), schema.NamespaceCore)
	if ts.description != "" {
		a[schema.AttrDescription] = ts.description
	}
	if ts.comments != "" {
		a[schema.AttrComments] = ts.comments
	}
	if err := w.group(path, a); err != nil {
		return err
	}

	dims := []uint64{uint64(ts.Rows())}
	if ts.rank == 2 {
		dims = append(dims, uint64(ts.cols))
	}
	dataAttrs := attrs{
		schema.AttrUnit:       ts.unit,
		schema.AttrConversion: ts.conversion,
		schema.AttrResolution: ts.resolution,
		schema.AttrOffset:     ts.offset,
	}
	if err := w.floatDataset(path+"/data", ts.data, dims, dataAttrs); err != nil {
		return err
	}

	if ts.timestamps != nil {
		tsAttrs := attrs{
			schema.AttrInterval: int64(1),
			schema.AttrUnit:     "seconds",
		}
		if err := w.floatDataset(path+"/timestamps", ts.timestamps,
			[]uint64{uint64(len(ts.timestamps))}, tsAttrs); err != nil {
			return err
		}
	} else {
		stAttrs := attrs{
			schema.AttrRate: ts.rate,
			schema.AttrUnit: "seconds",
		}
		if err := w.floatDataset(path+"/starting_time",
			[]float64{ts.startingTime}, []uint64{1}, stAttrs); err != nil {
			return err
		}
	}

	switch v := s.(type) {
	case *SpatialSeries:
		if err := w.scalarStringDataset(path+"/reference_frame", v.referenceFrame, nil); err != nil {
			return err
		}
	case *ElectricalSeries:
		if err := w.writeElectrodeRegion(path, v.electrodes); err != nil {
			return err
		}
	}
	return nil
}

// writeElectrodeRegion emits the electrodes region dataset of an electrical
// series. The referenced table is recorded as a path attribute; the HDF5
// layer has no attribute-level object references.
func (w *fileWriter) writeElectrodeRegion(seriesPath string, r *ElectrodeRegion) error {
	indices := make([]int64, len(r.indices))
	for i, idx := range r.indices {
		indices[i] = int64(idx)
	}
	a := w.typedAttrs(schema.TypeDynamicTableRegion, schema.NamespaceHDMF)
	a[schema.AttrDescription] = r.description
	a[schema.AttrTableRef] = schema.PathElectrodes
	return w.intDataset(seriesPath+"/electrodes", indices, a)
}

func (w *fileWriter) writeTrials() error {
	t := w.f.trials
	if t == nil || len(t.start) == 0 {
		return nil
	}
	if err := w.group(schema.PathIntervals, nil); err != nil {
		return err
	}

	colnames := []string{"start_time", "stop_time"}
	for _, c := range t.columns {
		colnames = append(colnames, c.name)
	}
	a := w.typedAttrs(schema.TypeTimeIntervals, schema.NamespaceCore)
	a[schema.AttrDescription] = "experimental trials"
	a[schema.AttrColnames] = joinColnames(colnames)
	if err := w.group(schema.PathTrials, a); err != nil {
		return err
	}

	n := len(t.start)
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}
	if err := w.intDataset(schema.PathTrials+"/id",
		ids, w.columnAttrs(schema.TypeElementIdentifiers, "")); err != nil {
		return err
	}
	err := w.floatDataset(schema.PathTrials+"/start_time", t.start,
		[]uint64{uint64(n)}, w.columnAttrs(schema.TypeVectorData, "start time of trial in seconds"))
	if err != nil {
		return err
	}
	err = w.floatDataset(schema.PathTrials+"/stop_time", t.stop,
		[]uint64{uint64(n)}, w.columnAttrs(schema.TypeVectorData, "stop time of trial in seconds"))
	if err != nil {
		return err
	}
	return w.writeUserColumns(schema.PathTrials, t.columns)
}

func (w *fileWriter) writeUserColumns(tablePath string, columns []*tableColumn) error {
	for _, c := range columns {
		path := tablePath + "/" + c.name
		a := w.columnAttrs(schema.TypeVectorData, c.description)
		var err error
		switch c.kind {
		case kindString:
			err = w.stringDataset(path, c.strings, a)
		default:
			err = w.floatDataset(path, c.floats, []uint64{uint64(len(c.floats))}, a)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *fileWriter) writeUnits() error {
	u := w.f.units
	if u == nil || len(u.spikeTimes) == 0 {
		return nil
	}

	colnames := []string{"spike_times"}
	for _, c := range u.columns {
		colnames = append(colnames, c.name)
	}
	a := w.typedAttrs(schema.TypeUnits, schema.NamespaceCore)
	a[schema.AttrDescription] = "spike-sorted units"
	a[schema.AttrColnames] = joinColnames(colnames)
	if err := w.group(schema.PathUnits, a); err != nil {
		return err
	}

	n := len(u.spikeTimes)
	ids := make([]int64, n)
	index := make([]int64, n)
	var flat []float64
	for i, times := range u.spikeTimes {
		ids[i] = int64(i)
		flat = append(flat, times...)
		index[i] = int64(len(flat))
	}

	if err := w.intDataset(schema.PathUnits+"/id",
		ids, w.columnAttrs(schema.TypeElementIdentifiers, "")); err != nil {
		return err
	}
	if len(flat) > 0 {
		err := w.floatDataset(schema.PathUnits+"/"+schema.DatasetSpikeTimes, flat,
			[]uint64{uint64(len(flat))}, w.columnAttrs(schema.TypeVectorData, "observed spike times in seconds"))
		if err != nil {
			return err
		}
		idxAttrs := w.columnAttrs(schema.TypeVectorIndex, "")
		idxAttrs["target"] = schema.PathUnits + "/" + schema.DatasetSpikeTimes
		err = w.intDataset(schema.PathUnits+"/"+schema.DatasetSpikeTimesIndex, index, idxAttrs)
		if err != nil {
			return err
		}
	}
	return w.writeUserColumns(schema.PathUnits, u.columns)
}

func joinColnames(names []string) string {
	return strings.Join(names, schema.ColnamesSeparator)
}
