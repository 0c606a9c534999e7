package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/models"
)

type ReconcileOutcome string

const (
	OutcomeApplied   ReconcileOutcome = "applied"
	OutcomeAmbiguous ReconcileOutcome = "ambiguous"
	OutcomeUnmatched ReconcileOutcome = "unmatched"
	OutcomeInvalid   ReconcileOutcome = "invalid"
)

// ReconcileResult describes what happened to one performance record.
type ReconcileResult struct {
	Index   int              `json:"index"`
	TaskID  int64            `json:"taskId,omitempty"`
	Title   string           `json:"title,omitempty"`
	Outcome ReconcileOutcome `json:"outcome"`
	Reason  string           `json:"reason,omitempty"`
}

// ReconcileReport summarizes ApplyExternalProgress.
type ReconcileReport struct {
	Results []ReconcileResult `json:"results"`
	Applied int               `json:"applied"`
	Skipped int               `json:"skipped"`
}

func (r *ReconcileReport) add(res ReconcileResult) {
	r.Results = append(r.Results, res)
	if res.Outcome == OutcomeApplied {
		r.Applied++
	} else {
		r.Skipped++
	}
}

var errNothingApplied = errors.New("no performance record applied")

// ApplyExternalProgress merges progress records into the tasks. A record is
// matched by task ID first and otherwise by title, but only when exactly one
// task carries that title; ambiguous and unmatched records are reported and
// left alone.
func (b *TaskBoard) ApplyExternalProgress(ctx context.Context, records []models.PerformanceRecord) (*ReconcileReport, error) {
	var report ReconcileReport

	_, err := b.tasks.UpdateAll(ctx, func(tasks []models.Task) ([]models.Task, error) {
		report = ReconcileReport{Results: make([]ReconcileResult, 0, len(records))}
		now := b.now()
		next := append([]models.Task(nil), tasks...)

		for i, rec := range records {
			idx, res := matchRecord(next, rec)
			res.Index = i
			if idx < 0 {
				report.add(res)
				continue
			}

			task := next[idx]
			res.TaskID = task.ID
			res.Title = task.Title

			if reason := applyRecord(&task, rec); reason != "" {
				res.Outcome = OutcomeInvalid
				res.Reason = reason
				report.add(res)
				continue
			}

			task.LastUpdated = &now
			next[idx] = task
			res.Outcome = OutcomeApplied
			report.add(res)
		}

		if report.Applied == 0 {
			return nil, errNothingApplied
		}
		return next, nil
	})
	if err != nil && !errors.Is(err, errNothingApplied) {
		return nil, fmt.Errorf("failed to apply performance records: %w", err)
	}

	b.logger.InfoContext(ctx, "applied performance records", "applied", report.Applied, "skipped", report.Skipped)
	return &report, nil
}

func matchRecord(tasks []models.Task, rec models.PerformanceRecord) (int, ReconcileResult) {
	if !rec.TaskID.IsZero() {
		for i, t := range tasks {
			if rec.TaskID.Is(t.ID) {
				return i, ReconcileResult{}
			}
		}
	}

	title := normalizeTitle(rec.Title)
	if title == "" {
		return -1, ReconcileResult{Outcome: OutcomeUnmatched, Reason: "no task with this id"}
	}

	found := -1
	for i, t := range tasks {
		if normalizeTitle(t.Title) != title {
			continue
		}
		if found >= 0 {
			return -1, ReconcileResult{
				Title:   rec.Title,
				Outcome: OutcomeAmbiguous,
				Reason:  "several tasks share this title",
			}
		}
		found = i
	}
	if found < 0 {
		return -1, ReconcileResult{Title: rec.Title, Outcome: OutcomeUnmatched, Reason: "no task with this id or title"}
	}
	return found, ReconcileResult{}
}

// applyRecord copies the record fields onto task, or returns why it cannot.
func applyRecord(task *models.Task, rec models.PerformanceRecord) string {
	var status models.TaskStatus
	if strings.TrimSpace(rec.Status) != "" {
		s, ok := models.ParseTaskStatus(rec.Status)
		if !ok {
			return "unknown status " + rec.Status
		}
		status = s
	}
	if rec.Progress != nil && (*rec.Progress < 0 || *rec.Progress > 100) {
		return "progress out of range"
	}

	if status != "" {
		task.Status = status
	}
	if rec.Progress != nil {
		progress := *rec.Progress
		task.Progress = &progress
	}
	if rec.Notes != nil {
		task.Notes = *rec.Notes
	}
	return ""
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
