// Package store persists JSON documents under string keys. Every logical
// collection (users, tasks, comments, the current session) is one key.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Keys of the persisted documents.
const (
	KeyUsers           = "users"
	KeyUsersSeq        = "usersSeq"
	KeyTasks           = "tasks"
	KeyComments        = "comments"
	KeyLoggedInUser    = "loggedInUser"
	KeyTaskPerformance = "taskPerformance"
)

var (
	ErrNotFound = errors.New("store: key not found")
	ErrConflict = errors.New("store: revision conflict")
)

// Document is a raw JSON value.
type Document = json.RawMessage

// Store is a key-value map of JSON documents. Each key carries a revision that
// increases on every write, so concurrent writers can detect lost updates.
type Store interface {
	// Get returns the document and its revision, or ErrNotFound.
	Get(ctx context.Context, key string) (Document, int64, error)

	// Set writes the document unconditionally.
	Set(ctx context.Context, key string, doc Document) error

	// SetIfRevision writes the document only if the stored revision still
	// equals revision. Revision 0 means the key must not exist yet.
	SetIfRevision(ctx context.Context, key string, doc Document, revision int64) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Transaction runs fn against a store whose writes are committed together.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
