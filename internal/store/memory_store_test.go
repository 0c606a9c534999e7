package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStore_Revisions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, _, err := s.Get(ctx, KeyTasks)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetIfRevision(ctx, KeyTasks, Document(`[]`), 0))
	require.ErrorIs(t, s.SetIfRevision(ctx, KeyTasks, Document(`[1]`), 0), ErrConflict)

	doc, rev, err := s.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	assert.JSONEq(t, `[]`, string(doc))

	require.NoError(t, s.Set(ctx, KeyTasks, Document(`[2]`)))
	require.ErrorIs(t, s.SetIfRevision(ctx, KeyTasks, Document(`[3]`), 1), ErrConflict)
	require.NoError(t, s.SetIfRevision(ctx, KeyTasks, Document(`[3]`), 2))

	require.NoError(t, s.Delete(ctx, KeyTasks))
	require.NoError(t, s.Delete(ctx, KeyTasks))
	_, _, err = s.Get(ctx, KeyTasks)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyTasks, Document(`[1]`)))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx Store) error {
		require.NoError(t, tx.Set(ctx, KeyTasks, Document(`[]`)))
		require.NoError(t, tx.Set(ctx, KeyComments, Document(`[]`)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	doc, _, err := s.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(doc))
	_, _, err = s.Get(ctx, KeyComments)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TransactionDetectsConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyTasks, Document(`[1]`)))

	err := s.Transaction(ctx, func(tx Store) error {
		require.NoError(t, s.Set(ctx, KeyTasks, Document(`[2]`)))
		return tx.Set(ctx, KeyTasks, Document(`[3]`))
	})
	require.ErrorIs(t, err, ErrConflict)

	doc, _, err := s.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.JSONEq(t, `[2]`, string(doc))
}

func TestPrefixed(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	scoped := Prefixed(base, "client:a:")

	require.NoError(t, scoped.Set(ctx, KeyLoggedInUser, Document(`{"userId":1}`)))

	_, _, err := base.Get(ctx, KeyLoggedInUser)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = base.Get(ctx, "client:a:"+KeyLoggedInUser)
	assert.NoError(t, err)

	err = scoped.Transaction(ctx, func(tx Store) error {
		return tx.Delete(ctx, KeyLoggedInUser)
	})
	require.NoError(t, err)
	_, _, err = base.Get(ctx, "client:a:"+KeyLoggedInUser)
	assert.ErrorIs(t, err, ErrNotFound)
}
