package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/model"
)

// TaskStore persists tasks. Every mutation validates before writing; on a
// validation error nothing is written.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	// Update applies the patch and returns the stored task along with the
	// state it had right before the write. Both are read atomically with the
	// write.
	Update(ctx context.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, model.Snapshot, error)
	// ListByStatus returns tasks newest-created first.
	ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error)
	CountsByStatus(ctx context.Context) (model.StatusCounts, error)
	// ReplaceAll deletes every task and inserts the given ones.
	ReplaceAll(ctx context.Context, tasks []model.Task) ([]model.Task, error)
	Ping(ctx context.Context) error
}

// prepareNew assigns identity and timestamps, fills defaults and validates.
func prepareNew(task *model.Task, now time.Time) error {
	task.ApplyDefaults()
	if err := task.Validate(); err != nil {
		return err
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

// prepareUpdate validates the patch, applies it to prev and validates the result.
func prepareUpdate(prev model.Task, patch model.TaskPatch, now time.Time) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}
	next := patch.Apply(prev)
	if err := next.Validate(); err != nil {
		return model.Task{}, err
	}
	next.UpdatedAt = now
	return next, nil
}

// prepareAll prepares fixtures, spacing creation times so newest-first order
// follows insertion order reversed.
func prepareAll(tasks []model.Task, now time.Time) ([]model.Task, error) {
	out := make([]model.Task, len(tasks))
	for i := range tasks {
		t := tasks[i]
		t.ID = uuid.Nil
		if err := prepareNew(&t, now.Add(time.Duration(i)*time.Millisecond)); err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
