// Package schema defines the NWB 2.x on-disk naming conventions used by the
// writer and reader: group paths, neurodata_type names, namespaces, and
// attribute keys. Keeping these in one place ensures both sides of the
// round-trip agree on the layout.
package schema

// Version is the NWB format version recorded in every file this library
// produces.
const Version = "2.6.0"

// Namespaces for typed objects.
const (
	NamespaceCore = "core"
	NamespaceHDMF = "hdmf-common"
)

// Root-level dataset names.
const (
	DatasetSessionDescription      = "session_description"
	DatasetIdentifier              = "identifier"
	DatasetSessionStartTime        = "session_start_time"
	DatasetTimestampsReferenceTime = "timestamps_reference_time"
	DatasetFileCreateDate          = "file_create_date"
	DatasetNWBVersion              = "nwb_version"
)

// Top-level group paths.
const (
	PathGeneral     = "/general"
	PathAcquisition = "/acquisition"
	PathProcessing  = "/processing"
	PathIntervals   = "/intervals"
	PathUnits       = "/units"

	PathDevices    = "/general/devices"
	PathExtraEphys = "/general/extracellular_ephys"
	PathElectrodes = "/general/extracellular_ephys/electrodes"
	PathSubject    = "/general/subject"
	PathTrials     = "/intervals/trials"
)

// Attribute keys shared by typed objects.
const (
	AttrNeurodataType  = "neurodata_type"
	AttrNamespace      = "namespace"
	AttrObjectID       = "object_id"
	AttrDescription    = "description"
	AttrColnames       = "colnames"
	AttrComments       = "comments"
	AttrUnit           = "unit"
	AttrConversion     = "conversion"
	AttrResolution     = "resolution"
	AttrOffset         = "offset"
	AttrInterval       = "interval"
	AttrRate           = "rate"
	AttrLocation       = "location"
	AttrManufacturer   = "manufacturer"
	AttrTableRef       = "table"
)

// neurodata_type values.
const (
	TypeSubject            = "Subject"
	TypeTimeSeries         = "TimeSeries"
	TypeSpatialSeries      = "SpatialSeries"
	TypeElectricalSeries   = "ElectricalSeries"
	TypeProcessingModule   = "ProcessingModule"
	TypePosition           = "Position"
	TypeLFP                = "LFP"
	TypeDevice             = "Device"
	TypeElectrodeGroup     = "ElectrodeGroup"
	TypeDynamicTable       = "DynamicTable"
	TypeTimeIntervals      = "TimeIntervals"
	TypeUnits              = "Units"
	TypeVectorData         = "VectorData"
	TypeVectorIndex        = "VectorIndex"
	TypeElementIdentifiers = "ElementIdentifiers"
	TypeDynamicTableRegion = "DynamicTableRegion"
)

// Units table dataset names. Spike times are stored ragged: a flat values
// dataset plus a cumulative end-offset index, one entry per unit.
const (
	DatasetSpikeTimes      = "spike_times"
	DatasetSpikeTimesIndex = "spike_times_index"
)

// ColnamesSeparator joins column names into the colnames attribute. The
// underlying HDF5 layer has no string-array attributes, so the writer joins
// and the reader splits on this separator.
const ColnamesSeparator = ","
