package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusBlocked    TaskStatus = "Blocked"
)

var TaskStatuses = []TaskStatus{
	TaskStatusNotStarted,
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusBlocked,
}

// ParseTaskStatus matches a status name case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	s = strings.TrimSpace(s)
	for _, status := range TaskStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, true
		}
	}
	return "", false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// DateLayout is the format of Task.DueDate.
const DateLayout = "2006-01-02"

// Task is stored in the "tasks" collection.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     string     `json:"dueDate"`
	AssignedTo  ID         `json:"assignedTo"`
	Status      TaskStatus `json:"status"`
	Progress    *int       `json:"progress,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedBy   ID         `json:"createdBy,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// IsAssignedTo compares the assignee with coercing equality.
func (t Task) IsAssignedTo(userID ID) bool {
	return !t.AssignedTo.IsZero() && t.AssignedTo.Equal(userID)
}

// PerformanceRecord is one entry of the external "taskPerformance" feed.
type PerformanceRecord struct {
	TaskID   ID      `json:"taskId,omitempty"`
	Title    string  `json:"title,omitempty"`
	Status   string  `json:"status,omitempty"`
	Progress *int    `json:"progress,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}
