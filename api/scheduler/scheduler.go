package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/models"
	templates "github.com/bkeeper-app/bkeeper-api/templates/html"
)

const taskReminderLock = "task_reminder_job"

// Scheduler handles the periodic task reminder job
type Scheduler struct {
	cron       *cron.Cron
	TDB        databases.TaskDatabase
	UDB        databases.UserDatabase
	MDB        databases.ApiaryMemberDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	tDB databases.TaskDatabase,
	uDB databases.UserDatabase,
	mDB databases.ApiaryMemberDatabase,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		TDB:        tDB,
		UDB:        uDB,
		MDB:        mDB,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Task reminders go out every morning at 06:00 UTC
	_, err := s.cron.AddFunc("0 6 * * *", func() {
		if err := s.SendTaskReminders(context.Background()); err != nil {
			zap.S().Errorw("task reminder job failed",
				"instance", s.instanceID,
				"error", err)
		}
	})
	if err != nil {
		zap.S().Errorw("failed to register task reminder job", "error", err)
		return
	}

	s.cron.Start()
	zap.S().Infow("scheduler started", "instance", s.instanceID)
}

// Stop halts the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// SendTaskReminders emails every apiary member the open tasks due today.
// The distributed lock keeps multiple instances from each sending the same
// reminders; the instance that loses the race skips the run.
func (s *Scheduler) SendTaskReminders(ctx context.Context) error {
	acquired, err := s.LockDB.TryAcquireLock(ctx, taskReminderLock, s.instanceID, 10*time.Minute)
	if err != nil {
		return err
	}
	if !acquired {
		zap.S().Debugw("task reminder job already running on another instance, skipping",
			"instance", s.instanceID)
		return nil
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(ctx, taskReminderLock, s.instanceID); err != nil {
			zap.S().Warnw("failed to release task reminder lock",
				"instance", s.instanceID,
				"error", err)
		}
	}()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	tasks, err := s.TDB.Find(ctx, bson.M{
		"completed": false,
		"dueDate":   bson.M{"$gte": dayStart, "$lt": dayEnd},
	})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	// Collect the due tasks per member across all apiaries
	tasksByUser := map[string][]models.Task{}
	for _, task := range tasks {
		members, err := s.MDB.Find(ctx, bson.M{"apiaryId": task.ApiaryID})
		if err != nil {
			zap.S().Warnw("failed to fetch members for reminder",
				"apiaryId", task.ApiaryID,
				"error", err)
			continue
		}
		for _, m := range members {
			tasksByUser[m.UserID] = append(tasksByUser[m.UserID], task)
		}
	}

	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	for userID, userTasks := range tasksByUser {
		uID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			continue
		}
		user, err := s.UDB.FindOne(ctx, bson.M{"_id": uID})
		if err != nil || user.Email == "" {
			continue
		}

		subject := fmt.Sprintf("%d beekeeping task(s) due today", len(userTasks))
		body := "Good morning! These tasks are due today:\n\n"
		for _, task := range userTasks {
			body += fmt.Sprintf("- %s (%s)\n", task.Title, task.Priority)
		}

		from := mail.NewEmail("B.Keeper", "noreply@bkeeper.app")
		to := mail.NewEmail(user.Name, user.Email)
		message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))
		if _, err := client.Send(message); err != nil {
			zap.S().Warnw("failed to send task reminder",
				"userId", userID,
				"error", err)
		}
	}

	zap.S().Infow("task reminders sent",
		"instance", s.instanceID,
		"tasks", len(tasks),
		"recipients", len(tasksByUser))
	return nil
}
