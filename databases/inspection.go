package databases

// go generate: mockery --name InspectionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const inspectionName = "inspections"

// InspectionDatabase contains the methods to use with the inspection database
type InspectionDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Inspection, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Inspection, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, inspection models.Inspection, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type inspectionDatabase struct {
	db DatabaseHelper
}

// NewInspectionDatabase initializes a new instance of inspection database with the provided db connection
func NewInspectionDatabase(db DatabaseHelper) InspectionDatabase {
	return &inspectionDatabase{
		db: db,
	}
}

func (c *inspectionDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Inspection, error) {
	inspection := &models.Inspection{}
	err := c.db.Collection(inspectionName).FindOne(ctx, filter, opts...).Decode(&inspection)
	if err != nil {
		return nil, err
	}
	return inspection, nil
}

func (c *inspectionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Inspection, error) {
	var inspections []models.Inspection
	cur := c.db.Collection(inspectionName).Find(ctx, filter, opts...)
	err := cur.Decode(&inspections)
	if err != nil {
		return nil, err
	}
	return inspections, nil
}

func (c *inspectionDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(inspectionName).CountDocuments(ctx, filter, opts...)
}

func (c *inspectionDatabase) InsertOne(ctx context.Context, inspection models.Inspection, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(inspectionName).InsertOne(ctx, inspection, opts...)
}

func (c *inspectionDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(inspectionName).DeleteOne(ctx, filter, opts...)
}
