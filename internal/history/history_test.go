// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cpic-data/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), types.HistoryEntry{FileName: "publications.json", Action: types.ActionFetch, Location: "/tmp/out/publications.json"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "publications.json", entries[0].FileName)
}

func TestRecord_AssignsIDAndTime(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	e, err := s.Record(context.Background(), types.HistoryEntry{
		FileName: "publications.json",
		Action:   types.ActionUpload,
		Location: "http://files.example.org/data/publications.json",
		Bytes:    42,
	})
	require.NoError(t, err)

	assert.Positive(t, e.ID)
	assert.Equal(t, fixed, e.RecordedAt)

	entries, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e, entries[0])
}

func TestRecord_Validation(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Record(context.Background(), types.HistoryEntry{Action: types.ActionFetch})
	assert.Error(t, err)

	_, err = s.Record(context.Background(), types.HistoryEntry{FileName: "publications.json"})
	assert.Error(t, err)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, loc := range []string{"a", "b", "c"} {
		_, err := s.Record(ctx, types.HistoryEntry{FileName: "publications.json", Action: types.ActionFetch, Location: loc})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Location)
	assert.Equal(t, "b", entries[1].Location)
}

func TestList_Empty(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
