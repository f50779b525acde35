package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teleka/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAdminPush = "notification:push"

// NewAdminPushTask wraps a push payload for the queue.
func NewAdminPushTask(payload models.PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAdminPush, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

// Enqueuer is the subset of *asynq.Client used by the dispatcher.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher hands admin pushes to the worker queue so booking requests do
// not wait on FCM.
type Dispatcher struct {
	client Enqueuer
	logger *zap.Logger
}

func NewDispatcher(client Enqueuer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{client: client, logger: logger}
}

func (d *Dispatcher) NotifyAdmins(ctx context.Context, payload models.PushPayload) error {
	task, opts, err := NewAdminPushTask(payload)
	if err != nil {
		return fmt.Errorf("build push task: %w", err)
	}
	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue push task: %w", err)
	}
	d.logger.Debug("admin push queued", zap.String("taskId", info.ID), zap.String("queue", info.Queue))
	return nil
}
