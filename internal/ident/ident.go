// Package ident generates object IDs for typed NWB containers. Every typed
// group or dataset in a file carries an object_id attribute so containers
// can be referenced stably across copies of the file.
package ident

import "github.com/google/uuid"

// Source produces object IDs. The default source generates random UUID v4
// strings; tests substitute a deterministic source.
type Source func() string

// New returns a random UUID v4 object ID.
func New() string {
	return uuid.NewString()
}

// Sequential returns a Source that yields deterministic IDs derived from a
// fixed UUID namespace and an incrementing counter. Intended for tests.
func Sequential() Source {
	ns := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	n := 0
	return func() string {
		n++
		return uuid.NewSHA1(ns, []byte{byte(n >> 8), byte(n)}).String()
	}
}
