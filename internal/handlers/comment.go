package handlers

import (
	"net/http"

	apierrors "github.com/Kavas-89/Task-Management-System/internal/errors"
	"github.com/Kavas-89/Task-Management-System/internal/middleware"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentThread
}

func NewCommentHandler(comments *services.CommentThread) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// AddComment appends a comment to the task loaded by RequireTaskAccess
func (h *CommentHandler) AddComment(c *gin.Context) {
	session, task, ok := sessionAndTask(c)
	if !ok {
		return
	}

	type CommentRequest struct {
		Text string `json:"text"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), models.NewID(task.ID), session.UserID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListTaskComments(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	comments, err := h.comments.ListForTask(c.Request.Context(), models.NewID(task.ID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": nonNil(comments)})
}

// ListVisibleComments returns every comment for roles that see all tasks and
// the comments on their own tasks for everyone else
func (h *CommentHandler) ListVisibleComments(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var (
		comments []models.Comment
		err      error
	)
	if session.Role.Can(models.CapViewAllTasks) {
		comments, err = h.comments.List(c.Request.Context())
	} else {
		comments, err = h.comments.ListVisibleTo(c.Request.Context(), session.UserID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": nonNil(comments)})
}
