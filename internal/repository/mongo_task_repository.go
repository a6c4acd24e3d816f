package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	c *mongo.Collection
}

// NewMongoTaskRepository creates a new TaskRepository backed by the tasks collection
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{c: db.Collection(database.TasksCollection)}
}

// Create inserts a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	prepareAssignments(task)

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.c.InsertOne(ctx, toTaskDoc(task))
	return translateMongoError(err)
}

// FindByID loads a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var doc taskDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	t := doc.model()
	return &t, nil
}

// List retrieves tasks newest first
func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	if filter.ProjectIDs != nil && len(filter.ProjectIDs) == 0 {
		return []models.Task{}, nil
	}

	query := bson.M{}
	if !filter.IncludeArchived {
		query["archived"] = false
	}
	if filter.ProjectIDs != nil {
		query["project_id"] = bson.M{"$in": filter.ProjectIDs}
	}

	cur, err := r.c.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translateMongoError(err)
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}

	tasks := make([]models.Task, len(docs))
	for i, d := range docs {
		tasks[i] = d.model()
	}
	return tasks, nil
}

// Update replaces the stored task document
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	prepareAssignments(task)
	task.UpdatedAt = time.Now().UTC()

	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": task.ID}, toTaskDoc(task))
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
