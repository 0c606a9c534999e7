package dto

import (
	"encoding/json"
	"testing"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUserDTO_OmitsPassword(t *testing.T) {
	out, err := json.Marshal(ToUserDTO(models.User{UserID: 1, Username: "Admin#12", Password: "secret", Role: models.RoleAdmin}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":1,"username":"Admin#12","role":"admin"}`, string(out))
}

func TestToTaskListResponse(t *testing.T) {
	resp := ToTaskListResponse(nil, 2, 20, 41)
	assert.Equal(t, 3, resp.TotalPages)
	assert.NotNil(t, resp.Tasks)
}

func TestSummarizeTasks(t *testing.T) {
	summary := SummarizeTasks([]models.Task{
		{Status: models.TaskStatusPending},
		{Status: models.TaskStatusPending},
		{Status: models.TaskStatusCompleted},
	})

	assert.Equal(t, 3, summary.Total)
	require.Len(t, summary.ByStatus, len(models.TaskStatuses))
	assert.Equal(t, StatusCount{Status: models.TaskStatusPending, Count: 2}, summary.ByStatus[1])
}
