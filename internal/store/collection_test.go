package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID int `json:"id"`
}

func TestCollection_LoadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := NewCollection[item](KeyTasks, discardLogger())

	t.Run("absent key", func(t *testing.T) {
		items, rev, err := c.Load(ctx, s)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
		assert.Zero(t, rev)
	})

	t.Run("corrupt document", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyTasks, Document(`{not json`)))
		items, rev, err := c.Load(ctx, s)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, int64(1), rev)
	})

	t.Run("null document", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyTasks, Document(`null`)))
		items, _, err := c.Load(ctx, s)
		require.NoError(t, err)
		assert.NotNil(t, items)
	})
}

func TestCollection_MutateOverwritesCorruptDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := NewCollection[item](KeyTasks, discardLogger())
	require.NoError(t, s.Set(ctx, KeyTasks, Document(`"garbage"`)))

	out, err := c.Mutate(ctx, s, func(items []item) ([]item, error) {
		return append(items, item{ID: 1}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1}}, out)

	loaded, _, err := c.Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1}}, loaded)
}

func TestCollection_MutateWritesNothingOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := NewCollection[item](KeyTasks, discardLogger())
	require.NoError(t, s.Set(ctx, KeyTasks, Document(`[{"id":1}]`)))

	boom := errors.New("boom")
	_, err := c.Mutate(ctx, s, func(items []item) ([]item, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, rev, err := s.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
}

func TestCollection_MalformedElements(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := NewCollection[item](KeyTasks, discardLogger())
	stored := `[{"id":1},{"id":"2"},{"id":3}]`
	require.NoError(t, s.Set(ctx, KeyTasks, Document(stored)))

	t.Run("load skips only the bad element", func(t *testing.T) {
		items, rev, err := c.Load(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, []item{{ID: 1}, {ID: 3}}, items)
		assert.Equal(t, int64(1), rev)
	})

	t.Run("mutate refuses to drop it", func(t *testing.T) {
		called := false
		_, err := c.Mutate(ctx, s, func(items []item) ([]item, error) {
			called = true
			return append(items, item{ID: 4}), nil
		})
		require.ErrorIs(t, err, ErrMalformedItems)
		assert.False(t, called)

		doc, rev, err := s.Get(ctx, KeyTasks)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rev)
		assert.JSONEq(t, stored, string(doc))
	})
}

func TestCollection_MutateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	c := NewCollection[item](KeyTasks, discardLogger())

	calls := 0
	out, err := c.Mutate(ctx, s, func(items []item) ([]item, error) {
		calls++
		if calls == 1 {
			// Another writer lands between our read and our write.
			require.NoError(t, s.Set(ctx, KeyTasks, Document(`[{"id":7}]`)))
		}
		return append(items, item{ID: 8}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []item{{ID: 7}, {ID: 8}}, out)
}

func TestValue_LoadSaveClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := NewValue[item](KeyLoggedInUser, discardLogger())

	_, ok, err := v.Load(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.Save(ctx, s, item{ID: 3}))
	got, ok, err := v.Load(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, got.ID)

	require.NoError(t, s.Set(ctx, KeyLoggedInUser, Document(`[`)))
	_, ok, err = v.Load(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.Clear(ctx, s))
	_, ok, err = v.Load(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)
}
