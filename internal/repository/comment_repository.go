package repository

import (
	"context"
	"log/slog"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

// StoreCommentRepository keeps comments in the "comments" document.
type StoreCommentRepository struct {
	store    store.Store
	comments store.Collection[models.Comment]
	tasks    store.Collection[models.Task]
	logger   *slog.Logger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(s store.Store, logger *slog.Logger) CommentRepository {
	logger = logger.With("repository", "comments")
	return &StoreCommentRepository{
		store:    s,
		comments: store.NewCollection[models.Comment](store.KeyComments, logger),
		tasks:    store.NewCollection[models.Task](store.KeyTasks, logger),
		logger:   logger,
	}
}

// Create appends the comment after checking, in the same transaction, that
// its task exists. Colliding IDs are bumped past the current maximum.
func (r *StoreCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	var created models.Comment

	err := transact(ctx, r.store, func(tx store.Store) error {
		tasks, _, err := r.tasks.Load(ctx, tx)
		if err != nil {
			return err
		}
		exists := false
		for _, t := range tasks {
			if comment.TaskID.Is(t.ID) {
				exists = true
				break
			}
		}
		if !exists {
			return ErrReferenceNotFound
		}

		_, err = r.comments.Mutate(ctx, tx, func(comments []models.Comment) ([]models.Comment, error) {
			created = *comment

			var highest int64
			taken := false
			for _, c := range comments {
				if c.ID == created.ID {
					taken = true
				}
				if c.ID > highest {
					highest = c.ID
				}
			}
			if taken || created.ID <= 0 {
				created.ID = highest + 1
			}

			return append(comments, created), nil
		})
		return err
	})
	if err != nil {
		return err
	}

	*comment = created
	return nil
}

func (r *StoreCommentRepository) List(ctx context.Context) ([]models.Comment, error) {
	comments, _, err := r.comments.Load(ctx, r.store)
	return comments, err
}

func (r *StoreCommentRepository) ListByTask(ctx context.Context, taskID models.ID) ([]models.Comment, error) {
	return r.ListByTasks(ctx, []models.ID{taskID})
}

func (r *StoreCommentRepository) ListByTasks(ctx context.Context, taskIDs []models.ID) ([]models.Comment, error) {
	comments, _, err := r.comments.Load(ctx, r.store)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Comment, 0)
	for _, c := range comments {
		for _, id := range taskIDs {
			if c.TaskID.Equal(id) {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched, nil
}
