package ident

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_UniqueValidUUIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
	}
}

func TestSequential_Deterministic(t *testing.T) {
	a := Sequential()
	b := Sequential()
	for i := 0; i < 10; i++ {
		require.Equal(t, a(), b())
	}
}

func TestSequential_DistinctWithinSource(t *testing.T) {
	src := Sequential()
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		id := src()
		require.False(t, seen[id], "duplicate ID %s at call %d", id, i)
		seen[id] = true
	}
}
