package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow/internal/model"
)

const tasksCollection = "tasks"

type taskDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"task_title"`
	Description string    `bson:"task_description"`
	AssignedTo  string    `bson:"assigned_to"`
	Priority    string    `bson:"priority"`
	DueDate     time.Time `bson:"due_date"`
	ClientName  string    `bson:"client_name"`
	ProjectName string    `bson:"project_name"`
	CreatedBy   string    `bson:"created_by"`
	Attachments []string  `bson:"attachments"`
	Notes       string    `bson:"notes"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDocument(t *model.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate.Time,
		ClientName:  t.ClientName,
		ProjectName: t.ProjectName,
		CreatedBy:   t.CreatedBy,
		Attachments: append([]string{}, t.Attachments...),
		Notes:       t.Notes,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDocument) toModel() (model.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Task{}, errors.Wrapf(err, "tasks: bad id %q", d.ID)
	}
	return model.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		AssignedTo:  d.AssignedTo,
		Priority:    model.Priority(d.Priority),
		DueDate:     model.DateOf(d.DueDate.UTC()),
		ClientName:  d.ClientName,
		ProjectName: d.ProjectName,
		CreatedBy:   d.CreatedBy,
		Attachments: append([]string{}, d.Attachments...),
		Notes:       d.Notes,
		Status:      model.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// patchSet builds the $set document for a patch. updated_at is always set.
func patchSet(p model.TaskPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if p.Title != nil {
		set["task_title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		set["task_description"] = *p.Description
	}
	if p.AssignedTo != nil {
		set["assigned_to"] = *p.AssignedTo
	}
	if p.Priority != nil {
		set["priority"] = string(*p.Priority)
	}
	if p.DueDate != nil {
		set["due_date"] = p.DueDate.Time
	}
	if p.ClientName != nil {
		set["client_name"] = *p.ClientName
	}
	if p.ProjectName != nil {
		set["project_name"] = *p.ProjectName
	}
	if p.CreatedBy != nil {
		set["created_by"] = *p.CreatedBy
	}
	if p.Attachments != nil {
		set["attachments"] = append([]string{}, (*p.Attachments)...)
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	return set
}

// MongoStore is the document-database TaskStore.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ TaskStore = (*MongoStore)(nil)

// NewMongoStore uses the tasks collection of db and makes sure the status and
// due date indexes exist.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(tasksCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "tasks: create indexes")
	}
	return &MongoStore{coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Create(ctx context.Context, task *model.Task) error {
	if err := prepareNew(task, s.now().UTC()); err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, toDocument(task)); err != nil {
		return errors.Wrap(err, "tasks: insert")
	}
	return nil
}

func (s *MongoStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var doc taskDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Wrap(err, "tasks: get")
	}
	task, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update sets the patched fields and reads back the document as it was before
// the write, in one server-side operation.
func (s *MongoStore) Update(ctx context.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, model.Snapshot, error) {
	if err := patch.Validate(); err != nil {
		return nil, model.Snapshot{}, err
	}
	now := s.now().UTC()

	var doc taskDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": patchSet(patch, now)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.Snapshot{}, ErrTaskNotFound
		}
		return nil, model.Snapshot{}, errors.Wrap(err, "tasks: update")
	}

	prev, err := doc.toModel()
	if err != nil {
		return nil, model.Snapshot{}, err
	}
	next := patch.Apply(prev)
	next.UpdatedAt = now
	return &next, prev.Snapshot(), nil
}

func (s *MongoStore) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"status": string(status)}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "tasks: list by status")
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "tasks: decode list")
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *MongoStore) CountsByStatus(ctx context.Context) (model.StatusCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "tasks: counts")
	}
	var groups []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, errors.Wrap(err, "tasks: decode counts")
	}

	counts := model.NewStatusCounts()
	for _, g := range groups {
		counts[model.Status(g.Status)] = g.Count
	}
	return counts, nil
}

// ReplaceAll is not transactional: a standalone mongod has no multi-document
// transactions, so a failed insert leaves the collection empty.
func (s *MongoStore) ReplaceAll(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	prepared, err := prepareAll(tasks, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return nil, errors.Wrap(err, "tasks: clear")
	}
	if len(prepared) == 0 {
		return prepared, nil
	}

	docs := make([]interface{}, len(prepared))
	for i := range prepared {
		docs[i] = toDocument(&prepared[i])
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return nil, errors.Wrap(err, "tasks: insert")
	}
	return prepared, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
