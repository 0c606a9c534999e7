package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/repository"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
)

// CommentThread owns the comments collection.
type CommentThread struct {
	comments repository.CommentRepository
	tasks    *TaskBoard
	logger   *slog.Logger
}

// NewCommentThread creates a new CommentThread. Comment IDs come from the
// task board's clock.
func NewCommentThread(comments repository.CommentRepository, tasks *TaskBoard, logger *slog.Logger) *CommentThread {
	return &CommentThread{
		comments: comments,
		tasks:    tasks,
		logger:   logger.With("service", "comments"),
	}
}

// Add stores a comment on an existing task.
func (t *CommentThread) Add(ctx context.Context, taskID, authorID models.ID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)

	fe := validation.FieldErrors{}
	fe.Check(!taskID.IsZero(), "taskId", "cannot be empty")
	fe.Check(text != "", "text", "cannot be empty")
	if err := fe.Err(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:     t.tasks.now().UnixMilli(),
		TaskID: taskID,
		UserID: authorID,
		Text:   text,
	}
	if err := t.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil, validation.FieldErrors{"taskId": "task does not exist"}
		}
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	t.logger.InfoContext(ctx, "comment added", "comment_id", comment.ID, "task_id", taskID)
	return comment, nil
}

// List returns every comment.
func (t *CommentThread) List(ctx context.Context) ([]models.Comment, error) {
	comments, err := t.comments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListForTask returns the comments of one task in the order they were added.
func (t *CommentThread) ListForTask(ctx context.Context, taskID models.ID) ([]models.Comment, error) {
	comments, err := t.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListVisibleTo returns the comments on tasks assigned to userID.
func (t *CommentThread) ListVisibleTo(ctx context.Context, userID models.ID) ([]models.Comment, error) {
	tasks, err := t.tasks.ListAssignedTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []models.Comment{}, nil
	}

	ids := make([]models.ID, len(tasks))
	for i, task := range tasks {
		ids[i] = models.NewID(task.ID)
	}

	comments, err := t.comments.ListByTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
