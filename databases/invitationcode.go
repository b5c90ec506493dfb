package databases

// go generate: mockery --name InvitationCodeDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/models"
)

const invitationCodeName = "invitationCodes"

// InvitationCodeDatabase contains the methods to use with the invitation code database
type InvitationCodeDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.InvitationCode, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InvitationCode, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, invitationCode models.InvitationCode, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	EnsureIndexes(ctx context.Context) error
}

type invitationCodeDatabase struct {
	db DatabaseHelper
}

// NewInvitationCodeDatabase initializes a new instance of invitation code database with the provided db connection
func NewInvitationCodeDatabase(db DatabaseHelper) InvitationCodeDatabase {
	return &invitationCodeDatabase{
		db: db,
	}
}

func (c *invitationCodeDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.InvitationCode, error) {
	invitationCode := &models.InvitationCode{}
	err := c.db.Collection(invitationCodeName).FindOne(ctx, filter, opts...).Decode(&invitationCode)
	if err != nil {
		return nil, err
	}
	return invitationCode, nil
}

func (c *invitationCodeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InvitationCode, error) {
	var invitationCodes []models.InvitationCode
	cur := c.db.Collection(invitationCodeName).Find(ctx, filter, opts...)
	err := cur.Decode(&invitationCodes)
	if err != nil {
		return nil, err
	}
	return invitationCodes, nil
}

func (c *invitationCodeDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(invitationCodeName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *invitationCodeDatabase) InsertOne(ctx context.Context, invitationCode models.InvitationCode, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(invitationCodeName).InsertOne(ctx, invitationCode, opts...)
}

func (c *invitationCodeDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(invitationCodeName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *invitationCodeDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(invitationCodeName).DeleteOne(ctx, filter, opts...)
}

// EnsureIndexes creates the unique index on the code field. The generation
// retry loop in the handler is only an optimization; this index is what
// actually guarantees uniqueness under concurrent creates.
func (c *invitationCodeDatabase) EnsureIndexes(ctx context.Context) error {
	return c.db.Collection(invitationCodeName).EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}
