package views

import (
	"context"
	"fmt"

	"github.com/Kavas-89/Task-Management-System/internal/dto"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/services"
)

// Section IDs.
const (
	SectionDashboard     = "dashboard"
	SectionViewUsers     = "viewUsers"
	SectionViewTasks     = "viewTasks"
	SectionAssignedTasks = "assignedTasks"
	SectionAllTasks      = "allTasks"
	SectionViewComments  = "viewComments"
	SectionPerformTask   = "performTask"
	SectionProfile       = "profile"
)

// Services are the readers the sections refresh from.
type Services struct {
	Users    *services.UserDirectory
	Tasks    *services.TaskBoard
	Comments *services.CommentThread
}

// Overview is the data of the dashboard section.
type Overview struct {
	Users int             `json:"users,omitempty"`
	Tasks dto.TaskSummary `json:"tasks"`
}

// Dashboard builds the router for role.
func Dashboard(role models.Role, svc Services) (*Router, error) {
	switch role {
	case models.RoleAdmin:
		return NewRouter(
			Section{SectionDashboard, "Dashboard", svc.overview(true, false)},
			Section{SectionViewUsers, "Users", svc.users},
			Section{SectionViewTasks, "Tasks", svc.allTasks},
			Section{SectionProfile, "Profile", svc.profile},
		), nil
	case models.RoleManager:
		return NewRouter(
			Section{SectionDashboard, "Dashboard", svc.overview(false, false)},
			Section{SectionAssignedTasks, "My Tasks", svc.ownTasks},
			Section{SectionAllTasks, "All Tasks", svc.allTasks},
			Section{SectionViewComments, "Comments", svc.allComments},
			Section{SectionProfile, "Profile", svc.profile},
		), nil
	case models.RoleEmployee:
		return NewRouter(
			Section{SectionDashboard, "Dashboard", svc.overview(false, true)},
			Section{SectionViewTasks, "My Tasks", svc.ownTasks},
			Section{SectionViewComments, "Comments", svc.visibleComments},
			Section{SectionPerformTask, "Perform Task", svc.openTasks},
			Section{SectionProfile, "Profile", svc.profile},
		), nil
	default:
		return nil, fmt.Errorf("no dashboard for role %q", role)
	}
}

func (svc Services) overview(withUsers, ownOnly bool) RefreshFunc {
	return func(ctx context.Context, session models.Session) (any, error) {
		var (
			tasks []models.Task
			err   error
		)
		if ownOnly {
			tasks, err = svc.Tasks.ListAssignedTo(ctx, session.UserID)
		} else {
			tasks, _, err = svc.Tasks.List(ctx, services.ListTasksInput{})
		}
		if err != nil {
			return nil, err
		}

		out := Overview{Tasks: dto.SummarizeTasks(tasks)}
		if withUsers {
			users, err := svc.Users.List(ctx)
			if err != nil {
				return nil, err
			}
			out.Users = len(users)
		}
		return out, nil
	}
}

func (svc Services) users(ctx context.Context, _ models.Session) (any, error) {
	users, err := svc.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToUserDTOs(users), nil
}

func (svc Services) allTasks(ctx context.Context, _ models.Session) (any, error) {
	tasks, _, err := svc.Tasks.List(ctx, services.ListTasksInput{})
	return tasks, err
}

func (svc Services) ownTasks(ctx context.Context, session models.Session) (any, error) {
	return svc.Tasks.ListAssignedTo(ctx, session.UserID)
}

// openTasks lists the caller's tasks that are not completed yet.
func (svc Services) openTasks(ctx context.Context, session models.Session) (any, error) {
	tasks, err := svc.Tasks.ListAssignedTo(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	open := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != models.TaskStatusCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}

func (svc Services) allComments(ctx context.Context, _ models.Session) (any, error) {
	return svc.Comments.List(ctx)
}

func (svc Services) visibleComments(ctx context.Context, session models.Session) (any, error) {
	return svc.Comments.ListVisibleTo(ctx, session.UserID)
}

func (svc Services) profile(ctx context.Context, session models.Session) (any, error) {
	out := dto.ProfileDTO{Session: session}
	if id, ok := session.UserID.Int64(); ok {
		if user, err := svc.Users.FindByID(ctx, id); err == nil {
			u := dto.ToUserDTO(*user)
			out.User = &u
		}
	}
	return out, nil
}
