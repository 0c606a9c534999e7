package repository

import (
	"context"
	"log/slog"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

// StoreTaskRepository keeps tasks in the "tasks" document.
type StoreTaskRepository struct {
	store    store.Store
	tasks    store.Collection[models.Task]
	comments store.Collection[models.Comment]
	logger   *slog.Logger
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(s store.Store, logger *slog.Logger) TaskRepository {
	logger = logger.With("repository", "tasks")
	return &StoreTaskRepository{
		store:    s,
		tasks:    store.NewCollection[models.Task](store.KeyTasks, logger),
		comments: store.NewCollection[models.Comment](store.KeyComments, logger),
		logger:   logger,
	}
}

// Create appends the task. When task.ID is already used the task gets the
// next ID above the current maximum.
func (r *StoreTaskRepository) Create(ctx context.Context, task *models.Task) error {
	var created models.Task

	_, err := r.tasks.Mutate(ctx, r.store, func(tasks []models.Task) ([]models.Task, error) {
		created = *task

		var highest int64
		taken := false
		for _, t := range tasks {
			if t.ID == created.ID {
				taken = true
			}
			if t.ID > highest {
				highest = t.ID
			}
		}
		if taken || created.ID <= 0 {
			created.ID = highest + 1
		}

		return append(tasks, created), nil
	})
	if err != nil {
		return err
	}

	*task = created
	r.logger.Info("task created", "task_id", created.ID, "assigned_to", created.AssignedTo)
	return nil
}

// FindByID finds a task by ID
func (r *StoreTaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	tasks, _, err := r.tasks.Load(ctx, r.store)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// List retrieves tasks in insertion order with filtering and pagination
func (r *StoreTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	tasks, _, err := r.tasks.Load(ctx, r.store)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.AssignedTo != nil && !t.IsAssignedTo(*filter.AssignedTo) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		matched = append(matched, t)
	}

	total := int64(len(matched))
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset >= len(matched) {
			return []models.Task{}, total, nil
		}
		end := min(offset+filter.PageSize, len(matched))
		matched = matched[offset:end]
	}

	return matched, total, nil
}

// Update applies fn to a copy of the task and stores it
func (r *StoreTaskRepository) Update(ctx context.Context, id int64, fn func(task *models.Task) error) (*models.Task, error) {
	var updated models.Task

	_, err := r.tasks.Mutate(ctx, r.store, func(tasks []models.Task) ([]models.Task, error) {
		for i, t := range tasks {
			if t.ID != id {
				continue
			}

			updated = t
			if err := fn(&updated); err != nil {
				return nil, err
			}
			updated.ID = id

			next := append([]models.Task(nil), tasks...)
			next[i] = updated
			return next, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// UpdateAll hands the whole collection to fn and stores what it returns
func (r *StoreTaskRepository) UpdateAll(ctx context.Context, fn func(tasks []models.Task) ([]models.Task, error)) ([]models.Task, error) {
	return r.tasks.Mutate(ctx, r.store, fn)
}

// Delete removes the task and its comments in one transaction
func (r *StoreTaskRepository) Delete(ctx context.Context, id int64) error {
	taskID := models.NewID(id)

	err := transact(ctx, r.store, func(tx store.Store) error {
		if _, err := r.tasks.Mutate(ctx, tx, func(tasks []models.Task) ([]models.Task, error) {
			next := make([]models.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.ID != id {
					next = append(next, t)
				}
			}
			if len(next) == len(tasks) {
				return nil, ErrNotFound
			}
			return next, nil
		}); err != nil {
			return err
		}

		_, err := r.comments.Mutate(ctx, tx, func(comments []models.Comment) ([]models.Comment, error) {
			return withoutTask(comments, taskID), nil
		})
		return err
	})
	if err != nil {
		return err
	}

	r.logger.Info("task deleted", "task_id", id)
	return nil
}

func withoutTask(comments []models.Comment, taskID models.ID) []models.Comment {
	kept := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if !c.TaskID.Equal(taskID) {
			kept = append(kept, c)
		}
	}
	return kept
}
