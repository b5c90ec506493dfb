package databases

// go generate: mockery --name HarvestDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const harvestName = "harvests"

// HarvestDatabase contains the methods to use with the harvest database
type HarvestDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Harvest, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Harvest, error)
	InsertOne(ctx context.Context, harvest models.Harvest, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error)
}

type harvestDatabase struct {
	db DatabaseHelper
}

// NewHarvestDatabase initializes a new instance of harvest database with the provided db connection
func NewHarvestDatabase(db DatabaseHelper) HarvestDatabase {
	return &harvestDatabase{
		db: db,
	}
}

func (c *harvestDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Harvest, error) {
	harvest := &models.Harvest{}
	err := c.db.Collection(harvestName).FindOne(ctx, filter, opts...).Decode(&harvest)
	if err != nil {
		return nil, err
	}
	return harvest, nil
}

func (c *harvestDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Harvest, error) {
	var harvests []models.Harvest
	cur := c.db.Collection(harvestName).Find(ctx, filter, opts...)
	err := cur.Decode(&harvests)
	if err != nil {
		return nil, err
	}
	return harvests, nil
}

func (c *harvestDatabase) InsertOne(ctx context.Context, harvest models.Harvest, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(harvestName).InsertOne(ctx, harvest, opts...)
}

func (c *harvestDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(harvestName).DeleteOne(ctx, filter, opts...)
}

func (c *harvestDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error) {
	return c.db.Collection(harvestName).Aggregate(ctx, pipeline, opts...)
}
