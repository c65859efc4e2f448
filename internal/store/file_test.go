package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	ctx := context.Background()

	_, err = st.Get(ctx, KeySubjects)
	require.ErrorIs(t, err, ErrNotFound)

	payload := []byte(`[{"id":"s1","name":"Math"}]`)
	require.NoError(t, st.Set(ctx, KeySubjects, payload))

	got, err := st.Get(ctx, KeySubjects)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, st.Set(ctx, KeyAttendance, []byte(`[]`)))
	require.NoError(t, st.Set(ctx, KeyAttendance, []byte(`[{"id":"r1"}]`)))

	got, err := st.Get(ctx, KeyAttendance)
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"id":"r1"}]`), got)
}

func TestFileStoreKeysAreIndependent(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, st.Set(ctx, KeySubjects, []byte(`[]`)))

	_, err = st.Get(ctx, KeySchedule)
	require.ErrorIs(t, err, ErrNotFound)
}
