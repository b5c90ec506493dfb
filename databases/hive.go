package databases

// go generate: mockery --name HiveDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const hiveName = "hives"

// HiveDatabase contains the methods to use with the hive database
type HiveDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Hive, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Hive, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, hive models.Hive, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error)
}

type hiveDatabase struct {
	db DatabaseHelper
}

// NewHiveDatabase initializes a new instance of hive database with the provided db connection
func NewHiveDatabase(db DatabaseHelper) HiveDatabase {
	return &hiveDatabase{
		db: db,
	}
}

func (c *hiveDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Hive, error) {
	hive := &models.Hive{}
	err := c.db.Collection(hiveName).FindOne(ctx, filter, opts...).Decode(&hive)
	if err != nil {
		return nil, err
	}
	return hive, nil
}

func (c *hiveDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Hive, error) {
	var hives []models.Hive
	cur := c.db.Collection(hiveName).Find(ctx, filter, opts...)
	err := cur.Decode(&hives)
	if err != nil {
		return nil, err
	}
	return hives, nil
}

func (c *hiveDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(hiveName).CountDocuments(ctx, filter, opts...)
}

func (c *hiveDatabase) InsertOne(ctx context.Context, hive models.Hive, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(hiveName).InsertOne(ctx, hive, opts...)
}

func (c *hiveDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(hiveName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *hiveDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(hiveName).DeleteOne(ctx, filter, opts...)
}

func (c *hiveDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error) {
	return c.db.Collection(hiveName).Aggregate(ctx, pipeline, opts...)
}
