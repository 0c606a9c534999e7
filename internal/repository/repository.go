package repository

import (
	"context"
	"errors"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique attribute is already taken.
	ErrDuplicate = errors.New("repository: duplicate record")
	// ErrReferenceNotFound is returned when a foreign key points at nothing.
	ErrReferenceNotFound = errors.New("repository: referenced record not found")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create stores a new task, assigning a unique ID if task.ID is taken
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id int64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update applies fn to the stored task and saves the result
	Update(ctx context.Context, id int64, fn func(task *models.Task) error) (*models.Task, error)

	// UpdateAll applies fn to the whole collection and saves the result
	UpdateAll(ctx context.Context, fn func(tasks []models.Task) ([]models.Task, error)) ([]models.Task, error)

	// Delete removes a task together with its comments
	Delete(ctx context.Context, id int64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssignedTo *models.ID
	Status     *models.TaskStatus
	Page       int
	PageSize   int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create stores a new user and assigns its UserID
	Create(ctx context.Context, user *models.User) error

	// Seed stores users as given when no users have been stored yet
	Seed(ctx context.Context, users []models.User) (bool, error)

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id int64) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns every user in insertion order
	List(ctx context.Context) ([]models.User, error)

	// Update applies fn to the stored user and saves the result
	Update(ctx context.Context, id int64, fn func(user *models.User) error) (*models.User, error)

	// Delete removes a user
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create stores a comment on an existing task
	Create(ctx context.Context, comment *models.Comment) error

	// List returns every comment in insertion order
	List(ctx context.Context) ([]models.Comment, error)

	// ListByTask returns the comments of one task
	ListByTask(ctx context.Context, taskID models.ID) ([]models.Comment, error)

	// ListByTasks returns the comments of any of the given tasks
	ListByTasks(ctx context.Context, taskIDs []models.ID) ([]models.Comment, error)
}

// SessionRepository defines the interface for the current session document
type SessionRepository interface {
	Get(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Delete(ctx context.Context) error
}

// PerformanceFeedRepository gives access to the externally written progress feed
type PerformanceFeedRepository interface {
	Load(ctx context.Context) ([]models.PerformanceRecord, error)
	Save(ctx context.Context, records []models.PerformanceRecord) error
}

// transact runs fn in a store transaction, retrying when a concurrent writer
// changed one of the touched keys.
func transact(ctx context.Context, s store.Store, fn func(tx store.Store) error) error {
	for attempt := 1; ; attempt++ {
		err := s.Transaction(ctx, fn)
		if !errors.Is(err, store.ErrConflict) || attempt >= store.MaxMutateAttempts {
			return err
		}
	}
}
