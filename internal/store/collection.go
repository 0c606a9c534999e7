package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// MaxMutateAttempts bounds the optimistic retry loop of Collection.Mutate.
const MaxMutateAttempts = 5

// Collection is a typed view of a key holding a JSON array.
type Collection[T any] struct {
	Key    string
	Logger *slog.Logger
}

// NewCollection returns a typed collection for key.
func NewCollection[T any](key string, logger *slog.Logger) Collection[T] {
	return Collection[T]{Key: key, Logger: logger.With("collection", key)}
}

// ErrMalformedItems is returned by Mutate when some elements of the stored
// array could not be decoded. Writing would silently drop them.
var ErrMalformedItems = errors.New("collection has undecodable elements")

// Load returns the items and the revision they were read at. Elements that do
// not decode are logged and skipped. An absent key or a document that is not
// a JSON array decodes to an empty collection.
func (c Collection[T]) Load(ctx context.Context, s Store) ([]T, int64, error) {
	items, _, rev, err := c.load(ctx, s)
	return items, rev, err
}

func (c Collection[T]) load(ctx context.Context, s Store) ([]T, int, int64, error) {
	doc, rev, err := s.Get(ctx, c.Key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, 0, 0, nil
	}
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to load %s: %w", c.Key, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		c.Logger.Warn("discarding malformed collection", "error", err)
		return []T{}, 0, rev, nil
	}

	items := make([]T, 0, len(raw))
	skipped := 0
	for i, elem := range raw {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			c.Logger.Warn("skipping malformed element", "index", i, "error", err)
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped, rev, nil
}

// Mutate loads the collection, applies fn and writes the result back if the
// key was not modified in between, retrying on conflicts. Nothing is written
// when fn fails; its error is returned as is. Nothing is written either while
// the stored array holds elements that do not decode.
func (c Collection[T]) Mutate(ctx context.Context, s Store, fn func(items []T) ([]T, error)) ([]T, error) {
	for attempt := 1; ; attempt++ {
		items, skipped, rev, err := c.load(ctx, s)
		if err != nil {
			return nil, err
		}
		if skipped > 0 {
			return nil, fmt.Errorf("refusing to save %s with %d unreadable elements: %w", c.Key, skipped, ErrMalformedItems)
		}

		next, err := fn(items)
		if err != nil {
			return nil, err
		}

		doc, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", c.Key, err)
		}

		err = s.SetIfRevision(ctx, c.Key, doc, rev)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrConflict) || attempt >= MaxMutateAttempts {
			return nil, fmt.Errorf("failed to save %s: %w", c.Key, err)
		}
		c.Logger.Debug("retrying after revision conflict", "attempt", attempt)
	}
}

// Value is a typed view of a key holding a single JSON document.
type Value[T any] struct {
	Key    string
	Logger *slog.Logger
}

func NewValue[T any](key string, logger *slog.Logger) Value[T] {
	return Value[T]{Key: key, Logger: logger.With("document", key)}
}

// Load returns the value and whether it was present. A malformed document is
// reported as absent.
func (v Value[T]) Load(ctx context.Context, s Store) (T, bool, error) {
	var zero T

	doc, _, err := s.Get(ctx, v.Key)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("failed to load %s: %w", v.Key, err)
	}

	if bytes.Equal(bytes.TrimSpace(doc), []byte("null")) {
		return zero, false, nil
	}

	var out T
	if err := json.Unmarshal(doc, &out); err != nil {
		v.Logger.Warn("discarding malformed document", "error", err)
		return zero, false, nil
	}
	return out, true, nil
}

func (v Value[T]) Save(ctx context.Context, s Store, value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", v.Key, err)
	}
	return s.Set(ctx, v.Key, doc)
}

func (v Value[T]) Clear(ctx context.Context, s Store) error {
	return s.Delete(ctx, v.Key)
}
