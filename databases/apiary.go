package databases

// go generate: mockery --name ApiaryDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const apiaryName = "apiaries"

// ApiaryDatabase contains the methods to use with the apiary database
type ApiaryDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Apiary, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Apiary, error)
	InsertOne(ctx context.Context, apiary models.Apiary, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type apiaryDatabase struct {
	db DatabaseHelper
}

// NewApiaryDatabase initializes a new instance of apiary database with the provided db connection
func NewApiaryDatabase(db DatabaseHelper) ApiaryDatabase {
	return &apiaryDatabase{
		db: db,
	}
}

func (c *apiaryDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Apiary, error) {
	apiary := &models.Apiary{}
	err := c.db.Collection(apiaryName).FindOne(ctx, filter, opts...).Decode(&apiary)
	if err != nil {
		return nil, err
	}
	return apiary, nil
}

func (c *apiaryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Apiary, error) {
	var apiaries []models.Apiary
	cur := c.db.Collection(apiaryName).Find(ctx, filter, opts...)
	err := cur.Decode(&apiaries)
	if err != nil {
		return nil, err
	}
	return apiaries, nil
}

func (c *apiaryDatabase) InsertOne(ctx context.Context, apiary models.Apiary, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(apiaryName).InsertOne(ctx, apiary, opts...)
}

func (c *apiaryDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(apiaryName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *apiaryDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(apiaryName).DeleteOne(ctx, filter, opts...)
}
