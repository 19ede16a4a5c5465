// Package nwb provides a pure Go implementation for creating, writing, and
// reading NWB (Neurodata Without Borders) neurophysiology files. The
// in-memory object graph (session metadata, subject, time series, interval
// tables, electrode tables, spike-time units) is serialized to the NWB 2.x
// HDF5 layout through github.com/scigolib/hdf5, and read back with lazy,
// slice-indexed access to array data.
package nwb

import (
	"fmt"
	"time"

	"github.com/scigolib/nwb/internal/ident"
)

// File is the in-memory NWB file container. Populate it with session
// metadata and data containers, then persist it with Write. A File is not
// safe for concurrent mutation.
type File struct {
	sessionDescription      string
	identifier              string
	sessionStartTime        time.Time
	timestampsReferenceTime time.Time

	experimenter          []string
	lab                   string
	institution           string
	experimentDescription string
	sessionID             string
	keywords              []string

	subject *Subject

	acquisition []Series
	modules     []*ProcessingModule

	trials *trialsTable

	devices         []*Device
	electrodeGroups []*ElectrodeGroup
	electrodes      []Electrode

	units *unitsTable

	newID ident.Source
}

// FileOption configures optional session metadata on NewFile.
type FileOption func(*File)

// WithExperimenter records one or more experimenter names.
func WithExperimenter(names ...string) FileOption {
	return func(f *File) { f.experimenter = append(f.experimenter, names...) }
}

// WithLab records the lab the session was collected in.
func WithLab(lab string) FileOption {
	return func(f *File) { f.lab = lab }
}

// WithInstitution records the institution the session was collected at.
func WithInstitution(institution string) FileOption {
	return func(f *File) { f.institution = institution }
}

// WithExperimentDescription records a free-form experiment description.
func WithExperimentDescription(desc string) FileOption {
	return func(f *File) { f.experimentDescription = desc }
}

// WithSessionID records the lab-specific session identifier.
func WithSessionID(id string) FileOption {
	return func(f *File) { f.sessionID = id }
}

// WithKeywords records search keywords for the session.
func WithKeywords(keywords ...string) FileOption {
	return func(f *File) { f.keywords = append(f.keywords, keywords...) }
}

// WithTimestampsReferenceTime overrides the zero point for all timestamps
// in the file. Defaults to the session start time.
func WithTimestampsReferenceTime(t time.Time) FileOption {
	return func(f *File) { f.timestampsReferenceTime = t }
}

// NewFile creates an NWB file container.
//
// The session description, identifier, and session start time are required
// by the format. The identifier should be unique across files; callers that
// have no natural identifier can use a UUID.
//
// Example:
//
//	f, err := nwb.NewFile("mouse running on a wheel", "M123-S5",
//	    time.Date(2026, 4, 3, 11, 0, 0, 0, time.UTC),
//	    nwb.WithLab("Bag End Laboratory"),
//	    nwb.WithExperimenter("Baggins, Bilbo"))
func NewFile(sessionDescription, identifier string, sessionStartTime time.Time, opts ...FileOption) (*File, error) {
	if sessionDescription == "" {
		return nil, fmt.Errorf("session description cannot be empty")
	}
	if identifier == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}
	if sessionStartTime.IsZero() {
		return nil, fmt.Errorf("session start time cannot be zero")
	}

	f := &File{
		sessionDescription: sessionDescription,
		identifier:         identifier,
		sessionStartTime:   sessionStartTime,
		newID:              ident.New,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.timestampsReferenceTime.IsZero() {
		f.timestampsReferenceTime = f.sessionStartTime
	}

	return f, nil
}

// Identifier returns the file identifier.
func (f *File) Identifier() string { return f.identifier }

// SessionDescription returns the session description.
func (f *File) SessionDescription() string { return f.sessionDescription }

// SessionStartTime returns the session start time.
func (f *File) SessionStartTime() time.Time { return f.sessionStartTime }
