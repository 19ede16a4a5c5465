package nwb

import "errors"

// ErrNotFound is returned by reader lookups when a named container, series,
// or table is absent from the file. Use errors.Is to test for it.
var ErrNotFound = errors.New("not found")
