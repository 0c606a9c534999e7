package models

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

// ParseRole normalizes a role name; matching is case-insensitive.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Role(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// Capability names an action a role may perform.
type Capability string

const (
	CapManageUsers    Capability = "manage_users"
	CapViewAllTasks   Capability = "view_all_tasks"
	CapCreateTask     Capability = "create_task"
	CapAssignTasks    Capability = "assign_tasks"
	CapEditTasks      Capability = "edit_tasks"
	CapDeleteTasks    Capability = "delete_tasks"
	CapUpdateOwnTasks Capability = "update_own_tasks"
	CapComment        Capability = "comment"
	CapViewComments   Capability = "view_comments"
	CapSyncProgress   Capability = "sync_progress"
)

var capabilities = map[Role][]Capability{
	RoleAdmin: {
		CapManageUsers,
		CapViewAllTasks,
		CapViewComments,
	},
	RoleManager: {
		CapViewAllTasks,
		CapCreateTask,
		CapAssignTasks,
		CapEditTasks,
		CapDeleteTasks,
		CapUpdateOwnTasks,
		CapComment,
		CapViewComments,
		CapSyncProgress,
	},
	// Employees may create tasks, but only for themselves.
	RoleEmployee: {
		CapCreateTask,
		CapUpdateOwnTasks,
		CapComment,
		CapViewComments,
	},
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range capabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
