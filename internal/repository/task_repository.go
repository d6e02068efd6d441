package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskflow/internal/model"
)

// taskRow is the relational shape of a task.
type taskRow struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	Title       string         `gorm:"column:task_title;not null"`
	Description string         `gorm:"column:task_description;not null"`
	AssignedTo  string         `gorm:"column:assigned_to;not null"`
	Priority    string         `gorm:"column:priority;not null"`
	DueDate     time.Time      `gorm:"column:due_date;type:date;not null;index"`
	ClientName  string         `gorm:"column:client_name;not null"`
	ProjectName string         `gorm:"column:project_name;not null"`
	CreatedBy   string         `gorm:"column:created_by;not null"`
	Attachments pq.StringArray `gorm:"column:attachments;type:text[]"`
	Notes       string         `gorm:"column:notes;not null"`
	Status      string         `gorm:"column:status;not null;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (taskRow) TableName() string {
	return "tasks"
}

func toRow(t *model.Task) taskRow {
	return taskRow{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate.Time,
		ClientName:  t.ClientName,
		ProjectName: t.ProjectName,
		CreatedBy:   t.CreatedBy,
		Attachments: pq.StringArray(append([]string{}, t.Attachments...)),
		Notes:       t.Notes,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r taskRow) toModel() (model.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return model.Task{}, errors.Wrapf(err, "tasks: bad id %q", r.ID)
	}
	return model.Task{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		Priority:    model.Priority(r.Priority),
		DueDate:     model.DateOf(r.DueDate),
		ClientName:  r.ClientName,
		ProjectName: r.ProjectName,
		CreatedBy:   r.CreatedBy,
		Attachments: append([]string{}, r.Attachments...),
		Notes:       r.Notes,
		Status:      model.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// TaskRepository is the postgres TaskStore.
type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ TaskStore = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := prepareNew(task, r.now().UTC()); err != nil {
		return err
	}
	row := toRow(task)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrap(err, "tasks: create")
	}
	return nil
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var row taskRow
	result := r.db.WithContext(ctx).First(&row, "id = ?", id.String())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Wrap(result.Error, "tasks: get")
	}
	task, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update locks the row, applies the patch and saves it in one transaction
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, model.Snapshot, error) {
	var (
		updated model.Task
		prev    model.Snapshot
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row taskRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "id = ?", id.String()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return errors.Wrap(err, "tasks: load for update")
		}

		current, err := row.toModel()
		if err != nil {
			return err
		}
		next, err := prepareUpdate(current, patch, r.now().UTC())
		if err != nil {
			return err
		}

		nextRow := toRow(&next)
		if err := tx.Save(&nextRow).Error; err != nil {
			return errors.Wrap(err, "tasks: save")
		}
		prev = current.Snapshot()
		updated = next
		return nil
	})
	if err != nil {
		return nil, model.Snapshot{}, err
	}
	return &updated, prev, nil
}

// ListByStatus retrieves tasks in a status, newest first
func (r *TaskRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	var rows []taskRow
	result := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("created_at DESC").Find(&rows)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "tasks: list by status")
	}
	return rowsToModels(rows)
}

// CountsByStatus groups tasks by status
func (r *TaskRepository) CountsByStatus(ctx context.Context) (model.StatusCounts, error) {
	var groups []struct {
		Status string
		Count  int
	}
	result := r.db.WithContext(ctx).Model(&taskRow{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&groups)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "tasks: counts")
	}

	counts := model.NewStatusCounts()
	for _, g := range groups {
		counts[model.Status(g.Status)] = g.Count
	}
	return counts, nil
}

// ReplaceAll clears the table and inserts the given tasks
func (r *TaskRepository) ReplaceAll(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	prepared, err := prepareAll(tasks, r.now().UTC())
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&taskRow{}).Error; err != nil {
			return errors.Wrap(err, "tasks: clear")
		}
		if len(prepared) == 0 {
			return nil
		}
		rows := make([]taskRow, len(prepared))
		for i := range prepared {
			rows[i] = toRow(&prepared[i])
		}
		return errors.Wrap(tx.Create(&rows).Error, "tasks: insert")
	})
	if err != nil {
		return nil, err
	}
	return prepared, nil
}

// Ping checks the database connection
func (r *TaskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func rowsToModels(rows []taskRow) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
