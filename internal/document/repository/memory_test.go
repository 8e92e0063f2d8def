package repository

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRecords(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.ErrorIs(t, m.WriteFile(ctx, "a", "x", []byte("1")), fs.ErrNotExist)

	require.NoError(t, m.CreateRecord(ctx, "b"))
	require.NoError(t, m.CreateRecord(ctx, "a"))
	require.NoError(t, m.CreateRecord(ctx, "b"))

	ok, err := m.RecordExists(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.RecordExists(ctx, "c")
	require.NoError(t, err)
	require.False(t, ok)

	data := []byte("payload")
	require.NoError(t, m.WriteFile(ctx, "a", "x", data))
	data[0] = 'P'
	got, err := m.ReadFile(ctx, "a", "x")
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))

	_, err = m.ReadFile(ctx, "a", "y")
	require.ErrorIs(t, err, fs.ErrNotExist)

	ids, err := m.ListRecords(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, ids)
}
