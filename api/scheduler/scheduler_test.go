package scheduler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bkeeper-app/bkeeper-api/api/scheduler"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/databases/mocks"
	"github.com/bkeeper-app/bkeeper-api/models"
)

func newScheduler(db databases.DatabaseHelper) *scheduler.Scheduler {
	return scheduler.NewScheduler(
		databases.NewTaskDatabase(db),
		databases.NewUserDatabase(db),
		databases.NewApiaryMemberDatabase(db),
		databases.NewSchedulerLockDatabase(db),
	)
}

// lockConn returns a collection mock whose upsert succeeds, so the caller
// acquires the job lock
func lockConn() *mocks.CollectionHelper {
	conn := &mocks.CollectionHelper{}
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	return conn
}

func TestScheduler_SendTaskRemindersSkipsWhenLockHeld(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	held := &mocks.CollectionHelper{}

	// the unexpired lock document trips the unique name index on upsert
	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	held.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, dupErr)
	db.On("Collection", "schedulerLocks").Return(held)

	s := newScheduler(db)

	assert.NoError(t, s.SendTaskReminders(context.Background()))
	// losing the lock race means no task query and no release
	held.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestScheduler_SendTaskRemindersNoTasksDue(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	taskConn := &mocks.CollectionHelper{}
	locks := lockConn()

	var filter bson.M
	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	taskConn.On("Find", mock.Anything, mock.Anything).Return(cursor).Run(func(args mock.Arguments) {
		filter = args.Get(1).(bson.M)
	})
	db.On("Collection", "tasks").Return(taskConn)
	db.On("Collection", "schedulerLocks").Return(locks)

	s := newScheduler(db)

	assert.NoError(t, s.SendTaskReminders(context.Background()))
	assert.Equal(t, false, filter["completed"])
	assert.Contains(t, filter, "dueDate")
	// the lock is released even when nothing was due
	locks.AssertNumberOfCalls(t, "DeleteOne", 1)
}

func TestScheduler_SendTaskRemindersGroupsByMember(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	taskConn := &mocks.CollectionHelper{}
	memberConn := &mocks.CollectionHelper{}
	userConn := &mocks.CollectionHelper{}
	locks := lockConn()

	taskCursor := &mocks.CursorHelper{}
	taskCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Task)
		*arg = []models.Task{
			{Title: "Feed the bees", ApiaryID: "apiary-1", Priority: models.TaskPriorityHigh},
			{Title: "Check mite boards", ApiaryID: "apiary-1", Priority: models.TaskPriorityMedium},
		}
	})
	taskConn.On("Find", mock.Anything, mock.Anything).Return(taskCursor)

	memberID := primitive.NewObjectID()
	memberCursor := &mocks.CursorHelper{}
	memberCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.ApiaryMember)
		*arg = []models.ApiaryMember{
			{ApiaryID: "apiary-1", UserID: memberID.Hex(), Role: models.RoleMember},
		}
	})
	memberConn.On("Find", mock.Anything, mock.Anything).Return(memberCursor)

	// the user lookup fails, so no email is attempted and the run still
	// finishes cleanly
	userResult := &mocks.SingleResultHelper{}
	userResult.On("Decode", mock.Anything).Return(assert.AnError)
	userConn.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	db.On("Collection", "tasks").Return(taskConn)
	db.On("Collection", "apiaryMembers").Return(memberConn)
	db.On("Collection", "users").Return(userConn)
	db.On("Collection", "schedulerLocks").Return(locks)

	s := newScheduler(db)

	assert.NoError(t, s.SendTaskReminders(context.Background()))
	// one member lookup per due task
	memberConn.AssertNumberOfCalls(t, "Find", 2)
	// the two tasks collapse onto one member, so one user fetch
	userConn.AssertNumberOfCalls(t, "FindOne", 1)
	locks.AssertNumberOfCalls(t, "DeleteOne", 1)
}

func TestScheduler_SendTaskRemindersSkipsBadUserIDs(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	taskConn := &mocks.CollectionHelper{}
	memberConn := &mocks.CollectionHelper{}

	taskCursor := &mocks.CursorHelper{}
	taskCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Task)
		*arg = []models.Task{{Title: "Feed the bees", ApiaryID: "apiary-1"}}
	})
	taskConn.On("Find", mock.Anything, mock.Anything).Return(taskCursor)

	memberCursor := &mocks.CursorHelper{}
	memberCursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.ApiaryMember)
		*arg = []models.ApiaryMember{
			{ApiaryID: "apiary-1", UserID: "not-an-object-id", Role: models.RoleMember},
		}
	})
	memberConn.On("Find", mock.Anything, mock.Anything).Return(memberCursor)

	db.On("Collection", "tasks").Return(taskConn)
	db.On("Collection", "apiaryMembers").Return(memberConn)
	db.On("Collection", "schedulerLocks").Return(lockConn())

	s := newScheduler(db)

	assert.NoError(t, s.SendTaskReminders(context.Background()))
}
