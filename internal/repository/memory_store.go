package repository

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"taskflow/internal/model"
)

const tasksTable = "tasks"

// taskRecord is what the memdb table holds. Records are never mutated once
// inserted; updates insert a fresh record.
type taskRecord struct {
	ID     string
	Status string
	Due    string
	Seq    uint64
	Task   model.Task
}

func tasksTableSchema() *memdb.TableSchema {
	return &memdb.TableSchema{
		Name: tasksTable,
		Indexes: map[string]*memdb.IndexSchema{
			"id": {
				Name:         "id",
				AllowMissing: false,
				Unique:       true,
				Indexer:      &memdb.StringFieldIndex{Field: "ID"},
			},
			"status": {
				Name:         "status",
				AllowMissing: false,
				Unique:       false,
				Indexer:      &memdb.StringFieldIndex{Field: "Status"},
			},
			"due": {
				Name:         "due",
				AllowMissing: false,
				Unique:       false,
				Indexer:      &memdb.StringFieldIndex{Field: "Due"},
			},
		},
	}
}

// MemoryStore is a TaskStore held in process memory. It backs development
// runs and tests.
type MemoryStore struct {
	db  *memdb.MemDB
	seq uint64
	now func() time.Time
}

var _ TaskStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(&memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tasksTable: tasksTableSchema(),
		},
	})
	if err != nil {
		return nil, err
	}
	return &MemoryStore{db: db, now: time.Now}, nil
}

func (s *MemoryStore) record(t model.Task, seq uint64) *taskRecord {
	t.Attachments = append([]string{}, t.Attachments...)
	return &taskRecord{
		ID:     t.ID.String(),
		Status: string(t.Status),
		Due:    t.DueDate.String(),
		Seq:    seq,
		Task:   t,
	}
}

func (r *taskRecord) task() model.Task {
	t := r.Task
	t.Attachments = append([]string{}, r.Task.Attachments...)
	return t
}

func (s *MemoryStore) Create(_ context.Context, task *model.Task) error {
	if err := prepareNew(task, s.now().UTC()); err != nil {
		return err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tasksTable, s.record(*task, atomic.AddUint64(&s.seq, 1))); err != nil {
		return errors.Wrap(err, "tasks: insert")
	}
	txn.Commit()
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tasksTable, "id", id.String())
	if err != nil {
		return nil, errors.Wrap(err, "tasks: get")
	}
	if raw == nil {
		return nil, ErrTaskNotFound
	}
	task := raw.(*taskRecord).task()
	return &task, nil
}

// Update runs inside a single write transaction; memdb allows one writer at a
// time, so the returned snapshot is exactly the state this write replaced.
func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, model.Snapshot, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tasksTable, "id", id.String())
	if err != nil {
		return nil, model.Snapshot{}, errors.Wrap(err, "tasks: load for update")
	}
	if raw == nil {
		return nil, model.Snapshot{}, ErrTaskNotFound
	}
	rec := raw.(*taskRecord)
	current := rec.task()

	next, err := prepareUpdate(current, patch, s.now().UTC())
	if err != nil {
		return nil, model.Snapshot{}, err
	}
	if err := txn.Insert(tasksTable, s.record(next, rec.Seq)); err != nil {
		return nil, model.Snapshot{}, errors.Wrap(err, "tasks: save")
	}
	txn.Commit()
	return &next, current.Snapshot(), nil
}

func (s *MemoryStore) ListByStatus(_ context.Context, status model.Status) ([]model.Task, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tasksTable, "status", string(status))
	if err != nil {
		return nil, errors.Wrap(err, "tasks: list by status")
	}
	var recs []*taskRecord
	for raw := it.Next(); raw != nil; raw = it.Next() {
		recs = append(recs, raw.(*taskRecord))
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].Task.CreatedAt, recs[j].Task.CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return recs[i].Seq > recs[j].Seq
	})

	tasks := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, rec.task())
	}
	return tasks, nil
}

func (s *MemoryStore) CountsByStatus(_ context.Context) (model.StatusCounts, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	counts := model.NewStatusCounts()
	for _, status := range model.Statuses {
		it, err := txn.Get(tasksTable, "status", string(status))
		if err != nil {
			return nil, errors.Wrap(err, "tasks: counts")
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			counts[status]++
		}
	}
	return counts, nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, tasks []model.Task) ([]model.Task, error) {
	prepared, err := prepareAll(tasks, s.now().UTC())
	if err != nil {
		return nil, err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(tasksTable, "id"); err != nil {
		return nil, errors.Wrap(err, "tasks: clear")
	}
	for _, t := range prepared {
		if err := txn.Insert(tasksTable, s.record(t, atomic.AddUint64(&s.seq, 1))); err != nil {
			return nil, errors.Wrap(err, "tasks: insert")
		}
	}
	txn.Commit()
	return prepared, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
