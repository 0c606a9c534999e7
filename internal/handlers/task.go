package handlers

import (
	"net/http"

	"github.com/Kavas-89/Task-Management-System/internal/dto"
	apierrors "github.com/Kavas-89/Task-Management-System/internal/errors"
	"github.com/Kavas-89/Task-Management-System/internal/middleware"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/Kavas-89/Task-Management-System/internal/utils"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks *services.TaskBoard
}

func NewTaskHandler(tasks *services.TaskBoard) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListTasks returns one page of all tasks.
// Can filter by assigned_to and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if assignee := c.Query("assigned_to"); assignee != "" {
		id := models.ID(assignee)
		input.AssignedTo = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseTaskStatus(raw)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// ListAssignedTasks returns the tasks assigned to the current user
func (h *TaskHandler) ListAssignedTasks(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.tasks.ListAssignedTo(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": nonNil(tasks)})
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req services.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask edits the task fields
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req services.TaskPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.tasks.Update(c.Request.Context(), task.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateStatus changes the status of a task
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	session, task, ok := sessionAndTask(c)
	if !ok {
		return
	}

	type StatusRequest struct {
		Status string `json:"status"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.tasks.UpdateStatus(c.Request.Context(), session, task.ID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// PerformTask records the assignee's progress
func (h *TaskHandler) PerformTask(c *gin.Context) {
	session, task, ok := sessionAndTask(c)
	if !ok {
		return
	}

	var req services.PerformInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.tasks.Perform(c.Request.Context(), session, task.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTask deletes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), task.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SyncProgress applies the external progress feed to the tasks. When the
// body carries records, they replace the feed first.
func (h *TaskHandler) SyncProgress(c *gin.Context) {
	type SyncRequest struct {
		Records []models.PerformanceRecord `json:"records"`
	}

	var req SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	ctx := c.Request.Context()
	if req.Records != nil {
		if err := h.tasks.ImportPerformanceFeed(ctx, req.Records); err != nil {
			respondError(c, err)
			return
		}
	}

	report, err := h.tasks.SyncPerformanceFeed(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GenerateTasks drafts task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.tasks.DraftFromText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}

func sessionAndTask(c *gin.Context) (models.Session, models.Task, bool) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return models.Session{}, models.Task{}, false
	}
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return models.Session{}, models.Task{}, false
	}
	return session, task, true
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
