package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "schedulerLocks"

// SchedulerLockDatabase contains the methods to use with the scheduler lock database
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, holder string) error
	EnsureIndexes(ctx context.Context) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock claims the named lock for holder. The upsert only matches a
// lock document whose TTL has lapsed, so while another instance holds an
// unexpired lock the insert trips the unique index. An expired lock is taken
// over in place, which covers holders that died without releasing.
func (c *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{"name": name, "expiresAt": bson.M{"$lt": now}}
	update := bson.M{"$set": bson.M{
		"name":      name,
		"holder":    holder,
		"expiresAt": now.Add(ttl),
	}}

	_, err := c.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLock frees the named lock, but only when holder still owns it
func (c *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, holder string) error {
	return c.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"name": name, "holder": holder})
}

// EnsureIndexes creates the unique index on the lock name, which is the
// mutual exclusion TryAcquireLock relies on.
func (c *schedulerLockDatabase) EnsureIndexes(ctx context.Context) error {
	return c.db.Collection(schedulerLockName).EnsureIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}
