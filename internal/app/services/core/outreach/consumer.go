package outreach

import (
	"context"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/services/shared/outreachqueue"
	"leadbook-service/internal/app/services/shared/voiceagent"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/metrics"

	"go.uber.org/zap"
)

// TaskFetcher is the consumer slice of the outreach queue.
type TaskFetcher interface {
	FetchN(ctx context.Context, n int) ([]outreachqueue.QueuedItem, error)
	AckMessage(ctx context.Context, deliveryTag uint64) error
	Reenqueue(ctx context.Context, task *outreachqueue.CallTask) error
}

// Consumer drains queued call tasks and hands each one to the voice-agent
// platform. A failed dial request goes back through the queue, which moves
// the task to the dead-letter queue once it has failed too often.
type Consumer struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	queue      TaskFetcher
	voiceAgent voiceagent.VoiceAgentService
}

func NewConsumer(
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	queue TaskFetcher,
	voiceAgentService voiceagent.VoiceAgentService,
) *Consumer {
	return &Consumer{
		log:        logger,
		cfg:        internalConfig,
		queue:      queue,
		voiceAgent: voiceAgentService,
	}
}

// ConsumeQueuedTasks fetches one batch of call tasks and places each call.
// Returns how many dials the platform accepted.
func (c *Consumer) ConsumeQueuedTasks(ctx context.Context) (int, error) {
	batch := c.cfg.Outreach.ConsumeBatchSize
	if batch <= 0 {
		batch = 10
	}
	items, err := c.queue.FetchN(ctx, batch)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	placed := 0
	for _, item := range items {
		task := item.Task

		if err := c.voiceAgent.PlaceCall(ctx, &requests.PlaceCall{
			TaskID:        task.ID,
			TenantID:      task.TenantID,
			LeadID:        task.LeadID,
			PhoneNumber:   task.PhoneNumber,
			AttemptNumber: task.AttemptNumber,
		}); err != nil {
			c.log.Error("Consumer.ConsumeQueuedTasks error placing call",
				zap.String(constvars.LoggingLeadIDKey, task.LeadID),
				zap.Error(err),
			)
			if reenqueueErr := c.queue.Reenqueue(ctx, &task); reenqueueErr != nil {
				// Leave the delivery unacked so the broker redelivers it.
				c.log.Error("Consumer.ConsumeQueuedTasks error re-enqueueing call task",
					zap.String(constvars.LoggingLeadIDKey, task.LeadID),
					zap.Error(reenqueueErr),
				)
				continue
			}
			if ackErr := c.queue.AckMessage(ctx, item.DeliveryTag); ackErr != nil {
				c.log.Error("Consumer.ConsumeQueuedTasks error acking re-enqueued task",
					zap.String(constvars.LoggingLeadIDKey, task.LeadID),
					zap.Error(ackErr),
				)
			}
			continue
		}

		if err := c.queue.AckMessage(ctx, item.DeliveryTag); err != nil {
			c.log.Error("Consumer.ConsumeQueuedTasks error acking placed task",
				zap.String(constvars.LoggingLeadIDKey, task.LeadID),
				zap.Error(err),
			)
			continue
		}

		metrics.CallsPlaced.WithLabelValues(task.TenantID).Inc()
		placed++
	}

	c.log.Info("Consumer.ConsumeQueuedTasks finished",
		zap.Int("fetched", len(items)),
		zap.Int("placed", placed),
	)
	return placed, nil
}
