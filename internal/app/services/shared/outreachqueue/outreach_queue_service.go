// Package outreachqueue owns the RabbitMQ plumbing for outbound call tasks:
// a durable work queue the dispatcher feeds the voice-agent platform from,
// plus a dead-letter queue for tasks that keep failing.
package outreachqueue

import (
	"context"
	"fmt"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	CallTaskQueueName  = "outreach_call_task_queue"
	CallTaskDLQName    = "outreach_call_task_dlq"
	maxTaskFailedCount = 3
)

// CallTask is the payload handed to the call dispatcher.
type CallTask struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	LeadID        string    `json:"lead_id"`
	PhoneNumber   string    `json:"phone_number"`
	AttemptNumber int       `json:"attempt_number"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	FailedCount   int       `json:"failed_count"`
}

// Service manages the RabbitMQ queues for outbound call tasks.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	prefetch int
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewService declares the durable queues, enables publisher confirms and
// sets QoS on a fresh channel.
func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, queue := range []string{CallTaskQueueName, CallTaskDLQName} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		prefetch: prefetch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

// QueuedItem represents a fetched delivery and its decoded payload.
type QueuedItem struct {
	DeliveryTag uint64
	Task        CallTask
}

// Enqueue publishes a call task to the work queue and waits for the broker
// confirm.
func (s *Service) Enqueue(ctx context.Context, task *CallTask) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("OutreachQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, task.LeadID),
		zap.Int(constvars.LoggingAttemptNumberKey, task.AttemptNumber),
	)
	return s.publish(ctx, CallTaskQueueName, task)
}

// Reenqueue puts a failed task back at the tail of the work queue, moving it
// to the dead-letter queue instead once it has failed too often.
func (s *Service) Reenqueue(ctx context.Context, task *CallTask) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("OutreachQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, task.LeadID),
	)

	task.FailedCount++
	if task.FailedCount >= maxTaskFailedCount {
		return s.EnqueueToDeadQueue(ctx, task)
	}
	return s.publish(ctx, CallTaskQueueName, task)
}

// EnqueueToDeadQueue publishes the task to the DLQ and confirms.
func (s *Service) EnqueueToDeadQueue(ctx context.Context, task *CallTask) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("OutreachQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, task.LeadID),
	)
	return s.publish(ctx, CallTaskDLQName, task)
}

// FetchN retrieves up to n tasks using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, n int) ([]QueuedItem, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("OutreachQueue.FetchN called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(CallTaskQueueName, false)
		if err != nil {
			return nil, exceptions.ErrQueueConsume(err)
		}
		if !ok {
			break
		}
		var task CallTask
		if err := json.Unmarshal(d.Body, &task); err != nil {
			// If payload is invalid JSON, move to DLQ to avoid a poison
			// message loop.
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, CallTaskDLQName, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Task: task})
	}

	return items, nil
}

// AckMessage acknowledges a task by delivery tag.
func (s *Service) AckMessage(ctx context.Context, deliveryTag uint64) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("OutreachQueue.AckMessage called", zap.String(constvars.LoggingRequestIDKey, requestID))
	if err := s.ch.Ack(deliveryTag, false); err != nil {
		return exceptions.ErrQueueConsume(err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, queue string, task *CallTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrQueuePublish(err)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrQueuePublish(fmt.Errorf("message not confirmed"))
		}
	case <-ctx.Done():
		return exceptions.ErrQueuePublish(ctx.Err())
	}
	return nil
}
