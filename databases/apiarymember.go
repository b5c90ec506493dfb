package databases

// go generate: mockery --name ApiaryMemberDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const apiaryMemberName = "apiaryMembers"

// ApiaryMemberDatabase contains the methods to use with the apiary member database
type ApiaryMemberDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.ApiaryMember, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ApiaryMember, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, member models.ApiaryMember, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	EnsureIndexes(ctx context.Context) error
}

type apiaryMemberDatabase struct {
	db DatabaseHelper
}

// NewApiaryMemberDatabase initializes a new instance of apiary member database with the provided db connection
func NewApiaryMemberDatabase(db DatabaseHelper) ApiaryMemberDatabase {
	return &apiaryMemberDatabase{
		db: db,
	}
}

func (c *apiaryMemberDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.ApiaryMember, error) {
	member := &models.ApiaryMember{}
	err := c.db.Collection(apiaryMemberName).FindOne(ctx, filter, opts...).Decode(&member)
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (c *apiaryMemberDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ApiaryMember, error) {
	var members []models.ApiaryMember
	cur := c.db.Collection(apiaryMemberName).Find(ctx, filter, opts...)
	err := cur.Decode(&members)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (c *apiaryMemberDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(apiaryMemberName).CountDocuments(ctx, filter, opts...)
}

func (c *apiaryMemberDatabase) InsertOne(ctx context.Context, member models.ApiaryMember, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(apiaryMemberName).InsertOne(ctx, member, opts...)
}

func (c *apiaryMemberDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(apiaryMemberName).DeleteOne(ctx, filter, opts...)
}

// EnsureIndexes creates the unique compound index on (apiaryId, userId) so
// at most one membership document exists per pair.
func (c *apiaryMemberDatabase) EnsureIndexes(ctx context.Context) error {
	return c.db.Collection(apiaryMemberName).EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "apiaryId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}
