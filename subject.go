package nwb

import "fmt"

// Subject holds metadata about the experimental subject. All fields except
// SubjectID are optional; Age uses ISO 8601 duration notation (e.g. "P90D"
// for 90 days).
type Subject struct {
	SubjectID   string
	Age         string
	Description string
	Species     string
	Sex         string
}

// SetSubject attaches subject metadata to the file. It replaces any
// previously set subject.
func (f *File) SetSubject(s *Subject) error {
	if s == nil {
		return fmt.Errorf("subject cannot be nil")
	}
	if s.SubjectID == "" {
		return fmt.Errorf("subject ID cannot be empty")
	}
	f.subject = s
	return nil
}

// Subject returns the subject metadata, or nil if none was set.
func (f *File) Subject() *Subject { return f.subject }
