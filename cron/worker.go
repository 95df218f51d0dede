package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pilateshub/config"
	"pilateshub/models"
	"pilateshub/services/booking"
	"pilateshub/services/tasks"
	"pilateshub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt points asynq at the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCompletionWorker runs the async worker in background. The caller owns the
// returned server and shuts it down.
func InitCompletionWorker(bookings booking.BookingService, logger *zap.Logger) *asynq.Server {
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCompleteBooking, handleCompletionTask(bookings, logger))

	go func() {
		logger.Info("starting booking completion worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("booking completion worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("booking completion worker gave up; bookings must be completed by hand")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleCompletionTask(bookings booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.CompletionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid completion payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		_, err := bookings.Transition(ctx, p.StudioID, p.BookingID, models.BookingCompleted)
		switch {
		case err == nil:
			logger.Info("booking completed after class end", zap.String("bookingID", p.BookingID))
			utils.RecordBookingCompletion("completed")
			return nil
		case errors.Is(err, booking.ErrBookingNotFound), errors.Is(err, booking.ErrInvalidTransition):
			// Cancelled, completed by hand or deleted before the class ended.
			logger.Debug("booking completion skipped", zap.String("bookingID", p.BookingID), zap.Error(err))
			utils.RecordBookingCompletion("skipped")
			return nil
		default:
			logger.Warn("booking completion failed", zap.String("bookingID", p.BookingID), zap.Error(err))
			utils.RecordBookingCompletion("retry")
			return err
		}
	}
}
