package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Kavas-89/Task-Management-System/internal/constants"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/notify"
	"github.com/Kavas-89/Task-Management-System/internal/repository"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be drafted from AI output")
)

// TaskBoard owns the tasks collection.
type TaskBoard struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	feed     repository.PerformanceFeedRepository
	notifier notify.Notifier
	drafter  TaskDrafter
	now      func() time.Time
	logger   *slog.Logger
}

// TaskBoardOption configures a TaskBoard.
type TaskBoardOption func(*TaskBoard)

// WithClock replaces time.Now, which decides "today" for due dates and
// stamps new IDs and timestamps.
func WithClock(now func() time.Time) TaskBoardOption {
	return func(b *TaskBoard) {
		b.now = now
	}
}

func WithNotifier(n notify.Notifier) TaskBoardOption {
	return func(b *TaskBoard) {
		b.notifier = n
	}
}

// WithAIService enables DraftFromText.
func WithAIService(d TaskDrafter) TaskBoardOption {
	return func(b *TaskBoard) {
		b.drafter = d
	}
}

// NewTaskBoard creates a new TaskBoard.
func NewTaskBoard(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	feed repository.PerformanceFeedRepository,
	logger *slog.Logger,
	opts ...TaskBoardOption,
) *TaskBoard {
	b := &TaskBoard{
		tasks:  tasks,
		users:  users,
		feed:   feed,
		now:    time.Now,
		logger: logger.With("service", "tasks"),
	}
	b.notifier = notify.NewLogNotifier(b.logger)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"dueDate"`
	AssignedTo  models.ID `json:"assignedTo"`
	Status      string    `json:"status"`
}

// TaskPatch holds the fields a manager may edit. Nil fields are kept.
type TaskPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *string    `json:"dueDate"`
	AssignedTo  *models.ID `json:"assignedTo"`
}

// PerformInput is the assignee's progress update.
type PerformInput struct {
	Status   string `json:"status"`
	Notes    string `json:"notes"`
	Progress *int   `json:"progress"`
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	AssignedTo *models.ID
	Status     *models.TaskStatus
	Page       int
	PageSize   int
}

// Create validates the input and stores a new task. Roles that cannot assign
// tasks always create them for themselves.
func (b *TaskBoard) Create(ctx context.Context, actor models.Session, input CreateTaskInput) (*models.Task, error) {
	if !actor.Role.Can(models.CapCreateTask) {
		return nil, ErrForbidden
	}
	status := models.TaskStatusNotStarted
	if !actor.Role.Can(models.CapAssignTasks) {
		input.AssignedTo = actor.UserID
		status = models.TaskStatusPending
	}

	now := b.now()
	fe := validation.FieldErrors{}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	fe.Check(title != "", "title", "cannot be empty")
	fe.Check(description != "", "description", "cannot be empty")

	dueDate := b.checkDueDate(fe, input.DueDate, now)
	assignee := b.checkAssignee(ctx, fe, input.AssignedTo)

	priority := models.PriorityMedium
	if strings.TrimSpace(input.Priority) != "" {
		p, ok := models.ParsePriority(input.Priority)
		fe.Check(ok, "priority", "must be one of low, medium, high")
		priority = p
	}

	if strings.TrimSpace(input.Status) != "" {
		s, ok := models.ParseTaskStatus(input.Status)
		fe.Check(ok, "status", statusMessage())
		status = s
	}

	if err := fe.Err(); err != nil {
		return nil, err
	}

	progress := 0
	task := &models.Task{
		ID:          now.UnixMilli(),
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
		AssignedTo:  models.NewID(assignee.UserID),
		Status:      status,
		Progress:    &progress,
		CreatedBy:   actor.UserID,
		CreatedAt:   &now,
		LastUpdated: &now,
	}
	if err := b.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	b.notifier.TaskAssigned(ctx, *task, *assignee)
	return task, nil
}

// checkDueDate validates a YYYY-MM-DD date that is today or later.
func (b *TaskBoard) checkDueDate(fe validation.FieldErrors, raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fe.Add("dueDate", "cannot be empty")
		return ""
	}
	date, ok := validation.ParseDate(raw, now.Location())
	if !ok {
		fe.Add("dueDate", validation.MsgDateFormat)
		return ""
	}
	fe.Check(validation.NotBeforeDay(date, now), "dueDate", validation.MsgDateInPast)
	return date.Format(models.DateLayout)
}

// checkAssignee validates that id is numeric and names an existing user.
func (b *TaskBoard) checkAssignee(ctx context.Context, fe validation.FieldErrors, id models.ID) *models.User {
	if id.IsZero() {
		fe.Add("assignedTo", "cannot be empty")
		return nil
	}
	n, ok := id.Int64()
	if !ok {
		fe.Add("assignedTo", "must be a numeric user ID")
		return nil
	}
	user, err := b.users.FindByID(ctx, n)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			b.logger.WarnContext(ctx, "failed to look up assignee", "user_id", n, "error", err)
		}
		fe.Add("assignedTo", "user does not exist")
		return nil
	}
	return user
}

func statusMessage() string {
	names := make([]string, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		names[i] = string(s)
	}
	return "must be one of " + strings.Join(names, ", ")
}

// Get returns a task by ID.
func (b *TaskBoard) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := b.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// List returns tasks in insertion order.
func (b *TaskBoard) List(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := b.tasks.List(ctx, repository.TaskFilter{
		AssignedTo: input.AssignedTo,
		Status:     input.Status,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListAssignedTo returns the tasks of one user, whichever form the stored
// assignee ID takes.
func (b *TaskBoard) ListAssignedTo(ctx context.Context, userID models.ID) ([]models.Task, error) {
	tasks, _, err := b.List(ctx, ListTasksInput{AssignedTo: &userID})
	return tasks, err
}

// UpdateStatus sets the status of a task. lastUpdated is stamped even when
// the status does not change.
func (b *TaskBoard) UpdateStatus(ctx context.Context, actor models.Session, id int64, status string) (*models.Task, error) {
	parsed, ok := models.ParseTaskStatus(status)
	if !ok {
		return nil, validation.FieldErrors{"status": statusMessage()}
	}

	return b.update(ctx, id, func(task *models.Task) error {
		if err := authorizeTaskUpdate(actor, task); err != nil {
			return err
		}
		now := b.now()
		task.Status = parsed
		task.LastUpdated = &now
		return nil
	})
}

// Perform records the assignee's status, notes and optional progress.
func (b *TaskBoard) Perform(ctx context.Context, actor models.Session, id int64, input PerformInput) (*models.Task, error) {
	fe := validation.FieldErrors{}
	parsed, ok := models.ParseTaskStatus(input.Status)
	fe.Check(ok, "status", statusMessage())
	if input.Progress != nil {
		fe.Check(*input.Progress >= 0 && *input.Progress <= 100, "progress", "must be between 0 and 100")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	return b.update(ctx, id, func(task *models.Task) error {
		if err := authorizeTaskUpdate(actor, task); err != nil {
			return err
		}
		now := b.now()
		task.Status = parsed
		task.Notes = strings.TrimSpace(input.Notes)
		if input.Progress != nil {
			progress := *input.Progress
			task.Progress = &progress
		}
		task.LastUpdated = &now
		return nil
	})
}

// authorizeTaskUpdate lets editors update any task and everyone else only
// the tasks assigned to them.
func authorizeTaskUpdate(actor models.Session, task *models.Task) error {
	if actor.Role.Can(models.CapEditTasks) {
		return nil
	}
	if actor.Role.Can(models.CapUpdateOwnTasks) && task.IsAssignedTo(actor.UserID) {
		return nil
	}
	return ErrForbidden
}

// Update edits a task with the same rules as Create.
func (b *TaskBoard) Update(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error) {
	now := b.now()
	fe := validation.FieldErrors{}

	if patch.Title != nil {
		fe.Check(validation.NotBlank(*patch.Title), "title", "cannot be empty")
	}
	if patch.Description != nil {
		fe.Check(validation.NotBlank(*patch.Description), "description", "cannot be empty")
	}

	var dueDate string
	if patch.DueDate != nil {
		dueDate = b.checkDueDate(fe, *patch.DueDate, now)
	}

	var priority models.Priority
	if patch.Priority != nil {
		p, ok := models.ParsePriority(*patch.Priority)
		fe.Check(ok, "priority", "must be one of low, medium, high")
		priority = p
	}

	var assignee *models.User
	if patch.AssignedTo != nil {
		assignee = b.checkAssignee(ctx, fe, *patch.AssignedTo)
	}

	if err := fe.Err(); err != nil {
		return nil, err
	}

	reassigned := false
	task, err := b.update(ctx, id, func(task *models.Task) error {
		if patch.Title != nil {
			task.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			task.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.DueDate != nil {
			task.DueDate = dueDate
		}
		if patch.Priority != nil {
			task.Priority = priority
		}
		reassigned = false
		if assignee != nil {
			next := models.NewID(assignee.UserID)
			reassigned = !task.AssignedTo.Equal(next)
			task.AssignedTo = next
		}
		task.LastUpdated = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reassigned {
		b.notifier.TaskAssigned(ctx, *task, *assignee)
	}
	return task, nil
}

func (b *TaskBoard) update(ctx context.Context, id int64, fn func(task *models.Task) error) (*models.Task, error) {
	task, err := b.tasks.Update(ctx, id, fn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTaskNotFound
		case errors.Is(err, ErrForbidden):
			return nil, err
		default:
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}
	return task, nil
}

// Delete removes a task and its comments.
func (b *TaskBoard) Delete(ctx context.Context, id int64) error {
	if err := b.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// SyncPerformanceFeed applies the externally written "taskPerformance"
// document to the tasks.
func (b *TaskBoard) SyncPerformanceFeed(ctx context.Context) (*ReconcileReport, error) {
	records, err := b.feed.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read performance feed: %w", err)
	}
	return b.ApplyExternalProgress(ctx, records)
}

// ImportPerformanceFeed replaces the "taskPerformance" document.
func (b *TaskBoard) ImportPerformanceFeed(ctx context.Context, records []models.PerformanceRecord) error {
	if err := b.feed.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to write performance feed: %w", err)
	}
	return nil
}

// DraftFromText asks the AI service for task drafts. Drafts are not stored.
func (b *TaskBoard) DraftFromText(ctx context.Context, text string) ([]TaskDraft, error) {
	if b.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, validation.FieldErrors{"text": "cannot be empty"}
	}

	drafts, err := b.drafter.DraftTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	now := b.now()
	valid := make([]TaskDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" {
			continue
		}
		if d.DueDate != "" {
			date, ok := validation.ParseDate(d.DueDate, now.Location())
			if !ok || !validation.NotBeforeDay(date, now) {
				d.DueDate = ""
			}
		}
		valid = append(valid, d)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}
