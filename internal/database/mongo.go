package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the Mongo repositories.
const (
	UsersCollection    = "users"
	ProjectsCollection = "projects"
	TasksCollection    = "tasks"
)

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("mongo connection established", zap.String("database", cfg.MongoDBName))
	return client, client.Database(cfg.MongoDBName), nil
}

// EnsureMongoIndexes creates the indexes the repositories rely on. Index
// creation is idempotent, so it runs on every startup.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	var problems []string

	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "norm_email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_users_norm_email")},
	})
	if err != nil {
		problems = append(problems, "users: "+err.Error())
	}

	_, err = db.Collection(ProjectsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "archived", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_projects_archived_created_at")},
		{Keys: bson.D{{Key: "users.user_id", Value: 1}}, Options: options.Index().SetName("idx_projects_member")},
	})
	if err != nil {
		problems = append(problems, "projects: "+err.Error())
	}

	_, err = db.Collection(TasksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "archived", Value: 1}}, Options: options.Index().SetName("idx_tasks_project_archived")},
		{Keys: bson.D{{Key: "archived", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_tasks_archived_created_at")},
	})
	if err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
