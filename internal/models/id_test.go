package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Equal(t *testing.T) {
	assert.True(t, ID("5").Equal(NewID(5)))
	assert.True(t, ID(" 5 ").Equal(ID("5")))
	assert.True(t, ID("05").Equal(NewID(5)))
	assert.False(t, ID("5").Equal(ID("6")))
	assert.True(t, ID("N/A").Equal(ID("N/A")))
	assert.False(t, ID("").Is(0))
}

func TestID_UnmarshalJSON(t *testing.T) {
	var doc struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
		D ID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":5,"b":"5","c":null,"d":5.0}`), &doc))

	assert.Equal(t, ID("5"), doc.A)
	assert.Equal(t, ID("5"), doc.B)
	assert.True(t, doc.C.IsZero())
	assert.Equal(t, ID("5"), doc.D)
}

func TestID_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c,omitempty"`
	}{A: "7", B: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":"abc"}`, string(out))
}

func TestTask_IsAssignedTo(t *testing.T) {
	numeric := Task{AssignedTo: NewID(5)}
	textual := Task{AssignedTo: ID("5")}
	unassigned := Task{}

	assert.True(t, numeric.IsAssignedTo(NewID(5)))
	assert.True(t, textual.IsAssignedTo(NewID(5)))
	assert.False(t, unassigned.IsAssignedTo(ID("")))
}

func TestRole_Can(t *testing.T) {
	assert.True(t, RoleAdmin.Can(CapManageUsers))
	assert.False(t, RoleAdmin.Can(CapCreateTask))
	assert.True(t, RoleManager.Can(CapDeleteTasks))
	assert.False(t, RoleEmployee.Can(CapAssignTasks))
	assert.False(t, Role("guest").Can(CapComment))
}

func TestRole_UnmarshalLowercases(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"userId":1,"username":"Admin#12","password":"x","role":"Admin"}`), &u))
	assert.Equal(t, RoleAdmin, u.Role)
}
