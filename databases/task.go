package databases

// go generate: mockery --name TaskDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const taskName = "tasks"

// TaskDatabase contains the methods to use with the task database
type TaskDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Task, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Task, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, task models.Task, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type taskDatabase struct {
	db DatabaseHelper
}

// NewTaskDatabase initializes a new instance of task database with the provided db connection
func NewTaskDatabase(db DatabaseHelper) TaskDatabase {
	return &taskDatabase{
		db: db,
	}
}

func (c *taskDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Task, error) {
	task := &models.Task{}
	err := c.db.Collection(taskName).FindOne(ctx, filter, opts...).Decode(&task)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (c *taskDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Task, error) {
	var tasks []models.Task
	cur := c.db.Collection(taskName).Find(ctx, filter, opts...)
	err := cur.Decode(&tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *taskDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(taskName).CountDocuments(ctx, filter, opts...)
}

func (c *taskDatabase) InsertOne(ctx context.Context, task models.Task, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(taskName).InsertOne(ctx, task, opts...)
}

func (c *taskDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(taskName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *taskDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(taskName).DeleteOne(ctx, filter, opts...)
}
