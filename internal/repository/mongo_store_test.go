package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"taskflow/internal/model"
)

func TestPatchSet_OnlyPatchedFields(t *testing.T) {
	now := time.Date(2024, time.July, 4, 12, 0, 0, 0, time.UTC)
	title := "  Trimmed  "
	status := model.StatusClosed
	attachments := []string{"a.pdf"}

	set := patchSet(model.TaskPatch{Title: &title, Status: &status, Attachments: &attachments}, now)

	assert.Equal(t, bson.M{
		"updated_at":  now,
		"task_title":  "Trimmed",
		"status":      "Closed",
		"attachments": []string{"a.pdf"},
	}, set)
}

func TestPatchSet_EmptyPatchTouchesTimestamp(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, bson.M{"updated_at": now}, patchSet(model.TaskPatch{}, now))
}

func TestTaskDocument_RoundTrip(t *testing.T) {
	created := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	task := model.Task{
		ID:          uuid.New(),
		Title:       "Database Optimization",
		Description: "Optimize slow queries",
		AssignedTo:  "mike@company.com",
		Priority:    model.PriorityHigh,
		DueDate:     model.NewDate(2024, time.January, 25),
		ClientName:  "Tech Solutions",
		ProjectName: "Performance Upgrade",
		CreatedBy:   "admin",
		Attachments: []string{},
		Status:      model.StatusInProgress,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	raw, err := bson.Marshal(toDocument(&task))
	require.NoError(t, err)

	var doc taskDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got, err := doc.toModel()
	require.NoError(t, err)

	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.DueDate, got.DueDate)
	assert.Equal(t, task.Status, got.Status)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, []string{}, got.Attachments)
}

func TestTaskDocument_BadID(t *testing.T) {
	_, err := taskDocument{ID: "not-a-uuid"}.toModel()
	assert.Error(t, err)
}

func mongoTestStore(mt *mtest.T, now time.Time) *MongoStore {
	return &MongoStore{coll: mt.Coll, now: func() time.Time { return now }}
}

func rawTask(t *testing.T, task model.Task) bson.D {
	t.Helper()
	data, err := bson.Marshal(toDocument(&task))
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(data, &doc))
	return doc
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func storedTask(status model.Status, assignee string, created time.Time) model.Task {
	return model.Task{
		ID:          uuid.New(),
		Title:       "Update Homepage Design",
		Description: "Redesign the homepage",
		AssignedTo:  assignee,
		Priority:    model.PriorityMedium,
		DueDate:     model.NewDate(2024, time.January, 20),
		ClientName:  "XYZ Inc",
		ProjectName: "Brand Refresh",
		CreatedBy:   "manager",
		Attachments: []string{},
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC)

	mt.Run("Create fills defaults and inserts", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		task := &model.Task{
			Title: "Fix Login Issue", Description: "Users cannot login",
			DueDate: model.NewDate(2024, time.January, 15), ClientName: "ABC Corp",
			ProjectName: "Website Redesign", CreatedBy: "admin",
		}
		err := store.Create(context.Background(), task)

		require.NoError(mt, err)
		assert.NotEqual(mt, uuid.Nil, task.ID)
		assert.Equal(mt, model.StatusUnassigned, task.Status)
		assert.Equal(mt, now, task.CreatedAt)
		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
	})

	mt.Run("Create validation error sends nothing", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)

		err := store.Create(context.Background(), &model.Task{Title: "incomplete"})

		assert.True(mt, model.IsValidationError(err))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("Update returns the state before the write", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		before := storedTask(model.StatusUnassigned, "jane@company.com", created)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: rawTask(mt.T, before)}))

		task, prev, err := store.Update(context.Background(), before.ID, model.StatusPatch(model.StatusAssigned))

		require.NoError(mt, err)
		assert.Equal(mt, model.Snapshot{Status: model.StatusUnassigned, AssignedTo: "jane@company.com"}, prev)
		assert.Equal(mt, model.StatusAssigned, task.Status)
		assert.Equal(mt, before.Title, task.Title)
		assert.Equal(mt, now, task.UpdatedAt)
		assert.Equal(mt, created, task.CreatedAt)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		status, err := evt.Command.LookupErr("update", "$set", "status")
		require.NoError(mt, err)
		assert.Equal(mt, "Assigned", status.StringValue())
	})

	mt.Run("Update of a missing task is not found", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		task, _, err := store.Update(context.Background(), uuid.New(), model.StatusPatch(model.StatusClosed))

		assert.ErrorIs(mt, err, ErrTaskNotFound)
		assert.Nil(mt, task)
	})

	mt.Run("Update validation error sends nothing", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		empty := ""

		_, _, err := store.Update(context.Background(), uuid.New(), model.TaskPatch{ClientName: &empty})

		assert.True(mt, model.IsValidationError(err))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("GetByID of a missing task is not found", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		task, err := store.GetByID(context.Background(), uuid.New())

		assert.ErrorIs(mt, err, ErrTaskNotFound)
		assert.Nil(mt, task)
	})

	mt.Run("ListByStatus keeps server order", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		newer := storedTask(model.StatusClosed, "", created.Add(time.Hour))
		older := storedTask(model.StatusClosed, "", created)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			rawTask(mt.T, newer), rawTask(mt.T, older)))

		tasks, err := store.ListByStatus(context.Background(), model.StatusClosed)

		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, newer.ID, tasks[0].ID)
		assert.Equal(mt, older.ID, tasks[1].ID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		filter, err := evt.Command.LookupErr("filter", "status")
		require.NoError(mt, err)
		assert.Equal(mt, "Closed", filter.StringValue())
		_, err = evt.Command.LookupErr("sort", "created_at")
		assert.NoError(mt, err)
	})

	mt.Run("CountsByStatus fills missing statuses with zero", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Assigned"}, {Key: "count", Value: int32(2)}},
			bson.D{{Key: "_id", Value: "Closed"}, {Key: "count", Value: int32(1)}},
		))

		counts, err := store.CountsByStatus(context.Background())

		require.NoError(mt, err)
		assert.Equal(mt, model.StatusCounts{
			model.StatusUnassigned: 0,
			model.StatusAssigned:   2,
			model.StatusInProgress: 0,
			model.StatusClosed:     1,
		}, counts)
	})

	mt.Run("ReplaceAll clears then inserts", func(mt *mtest.T) {
		store := mongoTestStore(mt, now)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(3)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(4)}),
		)

		tasks, err := store.ReplaceAll(context.Background(), model.SampleTasks())

		require.NoError(mt, err)
		require.Len(mt, tasks, 4)
		assert.True(mt, tasks[3].CreatedAt.After(tasks[0].CreatedAt))

		first := mt.GetStartedEvent()
		second := mt.GetStartedEvent()
		require.NotNil(mt, first)
		require.NotNil(mt, second)
		assert.Equal(mt, "delete", first.CommandName)
		assert.Equal(mt, "insert", second.CommandName)
	})
}
