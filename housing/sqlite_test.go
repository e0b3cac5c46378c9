package housing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "properties.db")

	s, err := Open(path)
	require.NoError(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	records := []Record{
		{TotalUnits: 100, SubsidyCount: 99, OwnerType: "B"},
		{TotalUnits: 1, SubsidyCount: 1, OwnerType: "A"},
		{TotalUnits: 2, SubsidyCount: 2, OwnerType: "A"},
	}
	written, err := s.Import(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	got, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got, "records come back in insertion order")

	more := []Record{{TotalUnits: 7, SubsidyCount: 0, OwnerType: "C"}}
	_, err = s.Import(ctx, more)
	require.NoError(t, err)
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, s.Close())

	// reopening keeps the data
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err = s.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, append(records, more...), got)
}

func TestStore_ImportRejectsNegative(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "properties.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Import(ctx, []Record{
		{TotalUnits: 1, SubsidyCount: 1, OwnerType: "A"},
		{TotalUnits: -1, SubsidyCount: 1, OwnerType: "A"},
	})
	assert.Error(t, err)

	// the whole batch is rolled back
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "properties.db"))
	require.NoError(t, err)
	defer s.Close()

	records := []Record{
		{TotalUnits: 1, SubsidyCount: 1, OwnerType: "A"},
		{TotalUnits: 2, SubsidyCount: 2, OwnerType: "B"},
	}
	for range 2 {
		written, err := s.Replace(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 2, written)
	}
	got, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	// a failed replace keeps the previous records
	_, err = s.Replace(ctx, []Record{{TotalUnits: -1, SubsidyCount: 1, OwnerType: "A"}})
	assert.Error(t, err)
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
