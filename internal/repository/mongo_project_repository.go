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

// MongoProjectRepository is a MongoDB implementation of ProjectRepository.
// Members are embedded in the project document, so every write is atomic.
type MongoProjectRepository struct {
	c *mongo.Collection
}

// NewMongoProjectRepository creates a new ProjectRepository backed by the projects collection
func NewMongoProjectRepository(db *mongo.Database) ProjectRepository {
	return &MongoProjectRepository{c: db.Collection(database.ProjectsCollection)}
}

// Create inserts a new project
func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	prepareMembers(project)

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := r.c.InsertOne(ctx, toProjectDoc(project))
	return translateMongoError(err)
}

// FindByID loads a project by ID
func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var doc projectDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	p := doc.model()
	return &p, nil
}

// List retrieves projects newest first
func (r *MongoProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	if filter.ProjectIDs != nil && len(filter.ProjectIDs) == 0 {
		return []models.Project{}, nil
	}

	query := bson.M{}
	if !filter.IncludeArchived {
		query["archived"] = false
	}
	switch {
	case filter.ProjectID != "" && filter.ProjectIDs != nil:
		query["$and"] = bson.A{
			bson.M{"_id": filter.ProjectID},
			bson.M{"_id": bson.M{"$in": filter.ProjectIDs}},
		}
	case filter.ProjectID != "":
		query["_id"] = filter.ProjectID
	case filter.ProjectIDs != nil:
		query["_id"] = bson.M{"$in": filter.ProjectIDs}
	}
	if filter.MemberID != "" {
		query["users.user_id"] = filter.MemberID
	}

	cur, err := r.c.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translateMongoError(err)
	}
	defer cur.Close(ctx)

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}

	projects := make([]models.Project, len(docs))
	for i, d := range docs {
		projects[i] = d.model()
	}
	return projects, nil
}

// Update replaces the stored project document
func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	prepareMembers(project)
	project.UpdatedAt = time.Now().UTC()

	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": project.ID}, toProjectDoc(project))
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
