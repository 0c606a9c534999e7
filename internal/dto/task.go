package dto

import (
	"github.com/Kavas-89/Task-Management-System/internal/models"
)

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []models.Task `json:"tasks"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}

// ToTaskListResponse wraps a page of tasks with its pagination metadata
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	if tasks == nil {
		tasks = []models.Task{}
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      tasks,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// StatusCount is the number of tasks in one status.
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// TaskSummary counts tasks per status, in the order of models.TaskStatuses.
type TaskSummary struct {
	Total    int           `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
}

// SummarizeTasks builds a TaskSummary
func SummarizeTasks(tasks []models.Task) TaskSummary {
	counts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, t := range tasks {
		counts[t.Status]++
	}

	summary := TaskSummary{Total: len(tasks), ByStatus: make([]StatusCount, 0, len(models.TaskStatuses))}
	for _, s := range models.TaskStatuses {
		summary.ByStatus = append(summary.ByStatus, StatusCount{Status: s, Count: counts[s]})
	}
	return summary
}
