package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreSaveAndGet(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "run-1", "series.csv", []byte("a,b,c")))

	data, err := s.Get(ctx, "run-1", "series.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b,c"), data)
}

func TestInMemoryStoreCopiesOnSaveAndGet(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	in := []byte("original")
	require.NoError(t, s.Save(ctx, "run-1", "r", in))
	in[0] = 'X'

	out, err := s.Get(ctx, "run-1", "r")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), out)

	out[0] = 'Y'
	again, err := s.Get(ctx, "run-1", "r")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestInMemoryStoreOverwrite(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "run-1", "r", []byte("v1")))
	require.NoError(t, s.Save(ctx, "run-1", "r", []byte("v2")))

	data, err := s.Get(ctx, "run-1", "r")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "run-1", "r")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "run-1", "other", nil))
	_, err = s.Get(ctx, "run-1", "r")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreList(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	names, err := s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Save(ctx, "run-1", "summary.json", []byte("{}")))
	require.NoError(t, s.Save(ctx, "run-1", "series.csv", []byte("x")))

	names, err = s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"series.csv", "summary.json"}, names)
}

func TestInMemoryStoreDelete(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "run-1", "r", []byte("v")))
	require.NoError(t, s.Delete(ctx, "run-1", "r"))

	_, err := s.Get(ctx, "run-1", "r")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "run-1", "r"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "other", "r"), ErrNotFound)
}
