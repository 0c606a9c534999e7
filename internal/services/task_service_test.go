package services

import (
	"context"
	"errors"
	"time"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

func (suite *ServicesTestSuite) TestCreateTask_Defaults() {
	task, err := suite.tasks.Create(suite.ctx, managerSession, suite.validTaskInput(" Report ", models.ID("3")))
	suite.Require().NoError(err)

	suite.Equal(suite.now.UnixMilli(), task.ID)
	suite.Equal("Report", task.Title)
	suite.Equal(models.PriorityMedium, task.Priority)
	suite.Equal(models.TaskStatusNotStarted, task.Status)
	suite.Equal(0, *task.Progress)
	suite.True(task.AssignedTo.Is(3))
	suite.True(task.CreatedBy.Is(2))
	suite.Equal(suite.now, *task.CreatedAt)
	suite.Equal([]string{"Report->Employee#12"}, suite.notifier.assigned)
}

func (suite *ServicesTestSuite) TestCreateTask_Validation() {
	_, err := suite.tasks.Create(suite.ctx, managerSession, CreateTaskInput{
		Title:      "  ",
		DueDate:    "2026-03-09",
		AssignedTo: models.ID("abc"),
		Priority:   "urgent",
		Status:     "Done",
	})

	fe := fieldErrors(suite, err)
	suite.Equal("cannot be empty", fe["title"])
	suite.Equal("cannot be empty", fe["description"])
	suite.Equal("cannot be in the past", fe["dueDate"])
	suite.Equal("must be a numeric user ID", fe["assignedTo"])
	suite.Contains(fe["priority"], "low, medium, high")
	suite.Contains(fe["status"], "Not Started")
	suite.Empty(suite.notifier.assigned)

	tasks, _, err := suite.tasks.List(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *ServicesTestSuite) TestCreateTask_DueToday() {
	input := suite.validTaskInput("Today", models.NewID(3))
	input.DueDate = "2026-03-10"

	_, err := suite.tasks.Create(suite.ctx, managerSession, input)
	suite.NoError(err)

	input.DueDate = "10-03-2026"
	_, err = suite.tasks.Create(suite.ctx, managerSession, input)
	suite.Equal("must be a date in YYYY-MM-DD format", fieldErrors(suite, err)["dueDate"])
}

func (suite *ServicesTestSuite) TestCreateTask_UnknownAssignee() {
	_, err := suite.tasks.Create(suite.ctx, managerSession, suite.validTaskInput("x", models.NewID(42)))
	suite.Equal("user does not exist", fieldErrors(suite, err)["assignedTo"])
}

func (suite *ServicesTestSuite) TestCreateTask_EmployeeAssignsSelf() {
	task, err := suite.tasks.Create(suite.ctx, employeeSession, suite.validTaskInput("Mine", models.NewID(2)))
	suite.Require().NoError(err)
	suite.True(task.AssignedTo.Is(3))
	suite.Equal(models.TaskStatusPending, task.Status)

	input := suite.validTaskInput("Started", models.NewID(3))
	input.Status = string(models.TaskStatusInProgress)
	task, err = suite.tasks.Create(suite.ctx, employeeSession, input)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, task.Status)

	_, err = suite.tasks.Create(suite.ctx, adminSession, suite.validTaskInput("Nope", models.NewID(3)))
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *ServicesTestSuite) TestCreateTask_KeepsUnreadableTasks() {
	stored := `[{"id":1,"title":"kept","assignedTo":3,"status":"Pending"},` +
		`{"id":2,"title":"bad progress","assignedTo":3,"status":"Pending","progress":"50"},` +
		`{"id":3,"title":"bad date","assignedTo":3,"status":"Pending","lastUpdated":"3/10/2026, 9:00:00 AM"}]`
	suite.Require().NoError(suite.store.Set(suite.ctx, store.KeyTasks, store.Document(stored)))

	_, err := suite.tasks.Create(suite.ctx, managerSession, suite.validTaskInput("new", models.NewID(3)))
	suite.ErrorIs(err, store.ErrMalformedItems)
	suite.Empty(suite.notifier.assigned)

	doc, _, err := suite.store.Get(suite.ctx, store.KeyTasks)
	suite.Require().NoError(err)
	suite.JSONEq(stored, string(doc))

	tasks, total, err := suite.tasks.List(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal("kept", tasks[0].Title)
}

func (suite *ServicesTestSuite) TestCreateTask_SameMillisecondGetsDistinctIDs() {
	first, err := suite.tasks.Create(suite.ctx, managerSession, suite.validTaskInput("a", models.NewID(3)))
	suite.Require().NoError(err)
	second, err := suite.tasks.Create(suite.ctx, managerSession, suite.validTaskInput("b", models.NewID(3)))
	suite.Require().NoError(err)

	suite.NotEqual(first.ID, second.ID)
}

func (suite *ServicesTestSuite) TestListAssignedTo_CoercesIDs() {
	suite.createTask("numeric", models.NewID(3))
	suite.Require().NoError(suite.store.Set(suite.ctx, store.KeyTasks, mustAppendTask(suite, models.Task{
		ID: 5, Title: "string", AssignedTo: models.ID(" 3 "), Status: models.TaskStatusPending,
	})))

	tasks, err := suite.tasks.ListAssignedTo(suite.ctx, models.ID("3"))
	suite.Require().NoError(err)
	suite.Len(tasks, 2)
}

func mustAppendTask(suite *ServicesTestSuite, task models.Task) store.Document {
	doc, _, err := suite.store.Get(suite.ctx, store.KeyTasks)
	suite.Require().NoError(err)
	// Rewrite the assignee as a JSON string the way older pages stored it.
	raw := string(doc[:len(doc)-1]) + `,{"id":` + models.NewID(task.ID).String() +
		`,"title":"` + task.Title + `","assignedTo":"` + string(task.AssignedTo) +
		`","status":"` + string(task.Status) + `"}]`
	return store.Document(raw)
}

func (suite *ServicesTestSuite) TestUpdateStatus() {
	task := suite.createTask("a", models.NewID(3))
	suite.now = suite.now.Add(time.Hour)

	updated, err := suite.tasks.UpdateStatus(suite.ctx, employeeSession, task.ID, "in progress")
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Equal(suite.now, *updated.LastUpdated)

	suite.now = suite.now.Add(time.Hour)
	again, err := suite.tasks.UpdateStatus(suite.ctx, employeeSession, task.ID, "In Progress")
	suite.Require().NoError(err)
	suite.Equal(suite.now, *again.LastUpdated)

	_, err = suite.tasks.UpdateStatus(suite.ctx, employeeSession, task.ID, "Done")
	suite.Contains(fieldErrors(suite, err)["status"], "Blocked")

	_, err = suite.tasks.UpdateStatus(suite.ctx, employeeSession, 404, "Pending")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServicesTestSuite) TestUpdateStatus_OnlyOwnTasksForEmployees() {
	task := suite.createTask("managers", models.NewID(2))

	_, err := suite.tasks.UpdateStatus(suite.ctx, employeeSession, task.ID, "Completed")
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.tasks.UpdateStatus(suite.ctx, managerSession, task.ID, "Completed")
	suite.NoError(err)
}

func (suite *ServicesTestSuite) TestPerform() {
	task := suite.createTask("a", models.NewID(3))
	progress := 60

	updated, err := suite.tasks.Perform(suite.ctx, employeeSession, task.ID, PerformInput{
		Status:   "In Progress",
		Notes:    " halfway ",
		Progress: &progress,
	})
	suite.Require().NoError(err)
	suite.Equal("halfway", updated.Notes)
	suite.Equal(60, *updated.Progress)

	bad := 101
	_, err = suite.tasks.Perform(suite.ctx, employeeSession, task.ID, PerformInput{Status: "Pending", Progress: &bad})
	suite.Contains(fieldErrors(suite, err), "progress")
}

func (suite *ServicesTestSuite) TestUpdateTask_Reassigns() {
	task := suite.createTask("a", models.NewID(3))
	suite.notifier.assigned = nil

	title := "b"
	priority := "HIGH"
	assignee := models.NewID(2)
	updated, err := suite.tasks.Update(suite.ctx, task.ID, TaskPatch{Title: &title, Priority: &priority, AssignedTo: &assignee})
	suite.Require().NoError(err)
	suite.Equal("b", updated.Title)
	suite.Equal(models.PriorityHigh, updated.Priority)
	suite.True(updated.AssignedTo.Is(2))
	suite.Equal([]string{"b->Manager#12"}, suite.notifier.assigned)

	past := "2020-01-01"
	_, err = suite.tasks.Update(suite.ctx, task.ID, TaskPatch{DueDate: &past})
	suite.Contains(fieldErrors(suite, err), "dueDate")
}

func (suite *ServicesTestSuite) TestDeleteTask_CascadesComments() {
	keep := suite.createTask("keep", models.NewID(3))
	drop := suite.createTask("drop", models.NewID(3))

	_, err := suite.comments.Add(suite.ctx, models.NewID(drop.ID), employeeSession.UserID, "first")
	suite.Require().NoError(err)
	suite.now = suite.now.Add(time.Millisecond)
	_, err = suite.comments.Add(suite.ctx, models.NewID(keep.ID), employeeSession.UserID, "second")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, drop.ID))
	suite.ErrorIs(suite.tasks.Delete(suite.ctx, drop.ID), ErrTaskNotFound)

	all, err := suite.comments.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(all, 1)
	suite.Equal("second", all[0].Text)
}

func (suite *ServicesTestSuite) TestApplyExternalProgress() {
	byID := suite.createTask("Alpha", models.NewID(3))
	suite.createTask("Beta", models.NewID(3))
	suite.createTask("Gamma", models.NewID(3))
	suite.createTask(" gamma", models.NewID(2))

	done := 100
	over := 150
	notes := "from tracker"
	report, err := suite.tasks.ApplyExternalProgress(suite.ctx, []models.PerformanceRecord{
		{TaskID: models.NewID(byID.ID), Status: "Completed", Progress: &done},
		{Title: "  BETA ", Notes: &notes},
		{Title: "gamma", Status: "Blocked"},
		{Title: "delta"},
		{Title: "Alpha", Progress: &over},
	})
	suite.Require().NoError(err)

	outcomes := make([]ReconcileOutcome, len(report.Results))
	for i, r := range report.Results {
		outcomes[i] = r.Outcome
	}
	suite.Equal([]ReconcileOutcome{OutcomeApplied, OutcomeApplied, OutcomeAmbiguous, OutcomeUnmatched, OutcomeInvalid}, outcomes)
	suite.Equal(2, report.Applied)
	suite.Equal(3, report.Skipped)

	alpha, err := suite.tasks.Get(suite.ctx, byID.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, alpha.Status)
	suite.Equal(100, *alpha.Progress)

	gammas, _, err := suite.tasks.List(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	for _, t := range gammas {
		if normalizeTitle(t.Title) == "gamma" {
			suite.Equal(models.TaskStatusNotStarted, t.Status)
		}
		if t.Title == "Beta" {
			suite.Equal("from tracker", t.Notes)
		}
	}
}

func (suite *ServicesTestSuite) TestSyncPerformanceFeed() {
	task := suite.createTask("Alpha", models.NewID(3))

	suite.Require().NoError(suite.store.Set(suite.ctx, store.KeyTaskPerformance, store.Document(`not json`)))
	report, err := suite.tasks.SyncPerformanceFeed(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(report.Results)

	progress := 30
	suite.Require().NoError(suite.tasks.ImportPerformanceFeed(suite.ctx, []models.PerformanceRecord{
		{TaskID: models.NewID(task.ID), Status: "in progress", Progress: &progress},
	}))
	report, err = suite.tasks.SyncPerformanceFeed(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(1, report.Applied)

	updated, err := suite.tasks.Get(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Equal(30, *updated.Progress)
}

type fakeDrafter struct {
	drafts []TaskDraft
	err    error
}

func (f fakeDrafter) DraftTasks(context.Context, string) ([]TaskDraft, error) {
	return f.drafts, f.err
}

func (suite *ServicesTestSuite) TestDraftFromText() {
	_, err := suite.tasks.DraftFromText(suite.ctx, "call the vendor")
	suite.ErrorIs(err, ErrAIServiceNotConfigured)

	WithAIService(fakeDrafter{drafts: []TaskDraft{
		{Title: " Call vendor ", DueDate: "2026-03-11"},
		{Title: "", Description: "dropped"},
		{Title: "Old", DueDate: "2020-01-01"},
	}})(suite.tasks)

	drafts, err := suite.tasks.DraftFromText(suite.ctx, "call the vendor")
	suite.Require().NoError(err)
	suite.Equal([]TaskDraft{{Title: "Call vendor", DueDate: "2026-03-11"}, {Title: "Old"}}, drafts)

	tasks, _, err := suite.tasks.List(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Empty(tasks)

	WithAIService(fakeDrafter{})(suite.tasks)
	_, err = suite.tasks.DraftFromText(suite.ctx, "nothing")
	suite.ErrorIs(err, ErrAINoTasksGenerated)

	upstream := errors.New("rate limited")
	WithAIService(fakeDrafter{err: upstream})(suite.tasks)
	_, err = suite.tasks.DraftFromText(suite.ctx, "x")
	suite.ErrorIs(err, upstream)
}
