package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"taskflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() model.Task {
	return model.Task{
		Title:       "  Write report ",
		Description: "Quarterly numbers",
		DueDate:     model.NewDate(2024, time.March, 1),
		ClientName:  "ACME",
		ProjectName: "Reporting",
		CreatedBy:   "admin",
	}
}

func TestStatus_Next(t *testing.T) {
	next, ok := model.StatusUnassigned.Next()
	assert.True(t, ok)
	assert.Equal(t, model.StatusAssigned, next)

	next, ok = model.StatusAssigned.Next()
	assert.True(t, ok)
	assert.Equal(t, model.StatusInProgress, next)

	next, ok = model.StatusInProgress.Next()
	assert.True(t, ok)
	assert.Equal(t, model.StatusClosed, next)

	_, ok = model.StatusClosed.Next()
	assert.False(t, ok)

	_, ok = model.Status("Bogus").Next()
	assert.False(t, ok)
}

func TestTask_ApplyDefaults(t *testing.T) {
	task := validTask()

	task.ApplyDefaults()

	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.StatusUnassigned, task.Status)
	assert.Equal(t, "Write report", task.Title)
	assert.NotNil(t, task.Attachments)
	assert.Empty(t, task.AssignedTo)
	assert.NoError(t, task.Validate())
}

func TestTask_Validate_MissingRequired(t *testing.T) {
	task := model.Task{Priority: model.PriorityLow, Status: model.StatusClosed}

	err := task.Validate()

	require.Error(t, err)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)

	var fields []string
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"task_title", "task_description", "client_name", "project_name", "created_by", "due_date",
	}, fields)
	assert.Contains(t, err.Error(), "task validation failed")
}

func TestTask_Validate_Enums(t *testing.T) {
	task := validTask()
	task.ApplyDefaults()
	task.Status = "Done"
	task.Priority = "Urgent"

	err := task.Validate()

	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Contains(t, err.Error(), `status: "Done" is not a valid status`)
	assert.Contains(t, err.Error(), `priority: "Urgent" is not a valid priority`)
}

func TestDate_JSON(t *testing.T) {
	var d model.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15"`), &d))
	assert.Equal(t, model.NewDate(2024, time.January, 15), d)

	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15T22:30:00Z"`), &d))
	assert.Equal(t, model.NewDate(2024, time.January, 15), d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
}

func TestTaskPatch_ApplyAndValidate(t *testing.T) {
	base := validTask()
	base.ApplyDefaults()
	assignee := "dev@company.com"
	status := model.StatusAssigned

	patch := model.TaskPatch{AssignedTo: &assignee, Status: &status}
	require.NoError(t, patch.Validate())
	updated := patch.Apply(base)

	assert.Equal(t, assignee, updated.AssignedTo)
	assert.Equal(t, model.StatusAssigned, updated.Status)
	assert.Equal(t, base.Title, updated.Title)
	assert.Equal(t, model.StatusUnassigned, base.Status)

	empty := ""
	bad := model.Status("Archived")
	err := model.TaskPatch{Title: &empty, Status: &bad}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task_title: is required")
	assert.Contains(t, err.Error(), "status:")

	assert.True(t, model.TaskPatch{}.Empty())
	assert.False(t, model.StatusPatch(model.StatusClosed).Empty())
}

func TestSampleTasks(t *testing.T) {
	tasks := model.SampleTasks()

	require.Len(t, tasks, 4)
	assigned := 0
	for _, task := range tasks {
		task.ApplyDefaults()
		assert.NoError(t, task.Validate())
		if task.Status == model.StatusAssigned {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}

func TestStatusCounts(t *testing.T) {
	counts := model.NewStatusCounts()
	assert.Len(t, counts, 4)
	assert.Equal(t, 0, counts.Total())

	counts[model.StatusClosed] = 3
	counts[model.StatusAssigned] = 2
	assert.Equal(t, 5, counts.Total())
}

func TestTaskPatch_ExplicitNullOnRequiredField(t *testing.T) {
	// Arrange
	var patch model.TaskPatch

	// Act
	err := json.Unmarshal([]byte(`{"due_date": null, "task_title": null, "notes": null}`), &patch)

	// Assert
	require.NoError(t, err)
	assert.False(t, patch.Empty())
	assert.Nil(t, patch.DueDate)

	verr := patch.Validate()
	require.Error(t, verr)
	assert.True(t, model.IsValidationError(verr))
	assert.Contains(t, verr.Error(), "task_title: is required")
	assert.Contains(t, verr.Error(), "due_date: is required")
	assert.NotContains(t, verr.Error(), "notes")
}

func TestTaskPatch_DecodeKeepsPresentFields(t *testing.T) {
	var patch model.TaskPatch

	require.NoError(t, json.Unmarshal([]byte(`{"status": "Closed", "due_date": "2024-06-30"}`), &patch))

	require.NotNil(t, patch.Status)
	assert.Equal(t, model.StatusClosed, *patch.Status)
	require.NotNil(t, patch.DueDate)
	assert.Equal(t, model.NewDate(2024, time.June, 30), *patch.DueDate)
	assert.NoError(t, patch.Validate())

	var empty model.TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.Empty())
}
