package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/internal/client"
	"taskflow/internal/model"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewMemoryStore()
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	emails := notify.NewLog()

	srv := httptest.NewServer(server.NewEngine(server.Deps{
		Store:    store,
		Notifier: notify.NewDispatcher(notify.InstantSender{}, emails, logger),
		Emails:   emails,
		Logger:   logger,
	}))
	t.Cleanup(srv.Close)

	return client.New(srv.URL + "/")
}

func newTask() *model.Task {
	return &model.Task{
		Title:       "Write release notes",
		Description: "Summarize the sprint",
		AssignedTo:  "jane@company.com",
		Priority:    model.PriorityLow,
		DueDate:     model.NewDate(2024, time.March, 1),
		ClientName:  "ABC Corp",
		ProjectName: "Website Redesign",
		CreatedBy:   "admin",
		Status:      model.StatusAssigned,
	}
}

func TestClient_TaskLifecycle(t *testing.T) {
	// Arrange
	c := setupClient(t)
	ctx := context.Background()

	// Act
	created, err := c.CreateTask(ctx, newTask())
	require.NoError(t, err)

	advanced, err := c.UpdateStatus(ctx, created.ID, model.StatusInProgress)
	require.NoError(t, err)

	fetched, err := c.Task(ctx, created.ID)
	require.NoError(t, err)

	counts, err := c.Counts(ctx)
	require.NoError(t, err)

	inProgress, err := c.TasksByStatus(ctx, model.StatusInProgress)
	require.NoError(t, err)

	emails, err := c.Emails(ctx)
	require.NoError(t, err)

	// Assert
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.NewDate(2024, time.March, 1), created.DueDate)
	assert.Equal(t, model.StatusInProgress, advanced.Status)
	assert.Equal(t, model.StatusInProgress, fetched.Status)
	assert.Equal(t, 1, counts[model.StatusInProgress])
	assert.Equal(t, 0, counts[model.StatusClosed])
	require.Len(t, inProgress, 1)
	assert.Equal(t, created.ID, inProgress[0].ID)

	require.Len(t, emails, 2)
	assert.Equal(t, notify.KindAssignment, emails[0].Kind)
	assert.Equal(t, notify.KindStatusChange, emails[1].Kind)
	assert.Equal(t, "jane@company.com", emails[1].To)
}

func TestClient_UpdateTask(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	created, err := c.CreateTask(ctx, newTask())
	require.NoError(t, err)

	notes := "ship it"
	updated, err := c.UpdateTask(ctx, created.ID, model.TaskPatch{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, "ship it", updated.Notes)
	assert.Equal(t, created.Title, updated.Title)
}

func TestClient_SampleDataAndClearEmails(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	tasks, err := c.LoadSampleData(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, len(model.SampleTasks()))

	emails, err := c.Emails(ctx)
	require.NoError(t, err)
	assert.Len(t, emails, 1)

	require.NoError(t, c.ClearEmails(ctx))
	emails, err = c.Emails(ctx)
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestClient_Health(t *testing.T) {
	c := setupClient(t)

	health, err := c.Health(context.Background())

	require.NoError(t, err)
	assert.True(t, health.Success)
	assert.Equal(t, "Connected", health.Database)
	assert.Equal(t, 0, health.EmailsSent)
}

func TestClient_NotFound(t *testing.T) {
	c := setupClient(t)

	_, err := c.Task(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Task not found", apiErr.Message)
}

func TestClient_ValidationError(t *testing.T) {
	c := setupClient(t)
	task := newTask()
	task.Title = ""

	_, err := c.CreateTask(context.Background(), task)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, client.IsNotFound(err))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).Counts(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.New(url).Counts(context.Background())

	require.Error(t, err)
	assert.False(t, client.IsNotFound(err))
}
