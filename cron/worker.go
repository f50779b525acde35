package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teleka/models"
	"teleka/services/notification"
	"teleka/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// PushWorker drains the admin push queue.
type PushWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewPushWorker builds the worker. Start runs it in the background.
func NewPushWorker(redisOpt asynq.RedisClientOpt, notifSvc notification.NotificationService, logger *zap.Logger) *PushWorker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAdminPush, HandleAdminPushTask(notifSvc, logger))

	return &PushWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker with retries on startup failure.
func (w *PushWorker) Start() {
	go func() {
		w.logger.Info("[PushWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Warn("[PushWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("[PushWorker] max retry attempts reached, pushes will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown stops accepting tasks and waits for active ones.
func (w *PushWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleAdminPushTask decodes a queued payload and sends it.
func HandleAdminPushTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[PushHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		logger.Info("[PushHandler] sending admin push", zap.String("title", p.Title))
		if err := notifSvc.NotifyAdmins(ctx, p); err != nil {
			logger.Warn("[PushHandler] failed to send notification", zap.Error(err))
			return err
		}
		return nil
	}
}
