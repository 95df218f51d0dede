package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pilateshub/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeCompleteBooking = "booking:complete"

// CompletionPayload identifies the booking a completion task should close.
type CompletionPayload struct {
	BookingID string `json:"bookingId"`
	StudioID  string `json:"studioId"`
}

func NewCompletionTask(payload CompletionPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCompleteBooking, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("complete-" + payload.BookingID),
		asynq.MaxRetry(5),
	}

	return task, opts, nil
}

// TaskEnqueuer is the part of *asynq.Client used to queue tasks.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueCompletionScheduler queues completion tasks on Redis through asynq.
type QueueCompletionScheduler struct {
	Client TaskEnqueuer
	Logger *zap.Logger
}

func NewQueueCompletionScheduler(client TaskEnqueuer, logger *zap.Logger) *QueueCompletionScheduler {
	return &QueueCompletionScheduler{Client: client, Logger: logger}
}

// ScheduleCompletion queues one completion per booking. A task that is already
// queued for the booking is left as it is.
func (q *QueueCompletionScheduler) ScheduleCompletion(ctx context.Context, b models.Booking, at time.Time) error {
	task, opts, err := NewCompletionTask(CompletionPayload{BookingID: b.ID, StudioID: b.StudioID}, at)
	if err != nil {
		return err
	}
	info, err := q.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	q.Logger.Debug("booking completion queued",
		zap.String("bookingID", b.ID),
		zap.String("taskID", info.ID),
		zap.Time("processAt", info.NextProcessAt))
	return nil
}
