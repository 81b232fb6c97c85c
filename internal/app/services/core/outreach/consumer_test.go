package outreach

import (
	"context"
	"errors"
	"testing"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/services/shared/outreachqueue"
	"leadbook-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	items      []outreachqueue.QueuedItem
	fetchErr   error
	reenqueued []outreachqueue.CallTask
	acked      []uint64
	ackErr     error
	requeueErr error
}

func (f *fakeFetcher) FetchN(ctx context.Context, n int) ([]outreachqueue.QueuedItem, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if n < len(f.items) {
		return f.items[:n], nil
	}
	return f.items, nil
}

func (f *fakeFetcher) AckMessage(ctx context.Context, deliveryTag uint64) error {
	if f.ackErr != nil {
		return f.ackErr
	}
	f.acked = append(f.acked, deliveryTag)
	return nil
}

func (f *fakeFetcher) Reenqueue(ctx context.Context, task *outreachqueue.CallTask) error {
	if f.requeueErr != nil {
		return f.requeueErr
	}
	f.reenqueued = append(f.reenqueued, *task)
	return nil
}

type fakeVoiceAgent struct {
	placed    []requests.PlaceCall
	failPhone string
}

func (f *fakeVoiceAgent) PlaceCall(ctx context.Context, request *requests.PlaceCall) error {
	if request.PhoneNumber == f.failPhone {
		return errors.New("dial endpoint returned status 503")
	}
	f.placed = append(f.placed, *request)
	return nil
}

func queuedTask(tag uint64, leadID, phone string) outreachqueue.QueuedItem {
	return outreachqueue.QueuedItem{
		DeliveryTag: tag,
		Task: outreachqueue.CallTask{
			ID:            "task-" + leadID,
			TenantID:      "t1",
			LeadID:        leadID,
			PhoneNumber:   phone,
			AttemptNumber: 2,
		},
	}
}

func newTestConsumer(queue *fakeFetcher, agent *fakeVoiceAgent) *Consumer {
	cfg := &config.InternalConfig{
		Outreach: config.AppOutreach{ConsumeBatchSize: 10},
	}
	return NewConsumer(zap.NewNop(), cfg, queue, agent)
}

func TestConsumeQueuedTasks_PlacesAndAcks(t *testing.T) {
	queue := &fakeFetcher{items: []outreachqueue.QueuedItem{
		queuedTask(1, "lead-1", "+5511999990001"),
		queuedTask(2, "lead-2", "+5511999990002"),
	}}
	agent := &fakeVoiceAgent{}

	placed, err := newTestConsumer(queue, agent).ConsumeQueuedTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, placed)

	require.Len(t, agent.placed, 2)
	assert.Equal(t, "task-lead-1", agent.placed[0].TaskID)
	assert.Equal(t, 2, agent.placed[0].AttemptNumber)
	assert.Equal(t, []uint64{1, 2}, queue.acked)
	assert.Empty(t, queue.reenqueued)
}

func TestConsumeQueuedTasks_PlacementFailureReenqueues(t *testing.T) {
	queue := &fakeFetcher{items: []outreachqueue.QueuedItem{
		queuedTask(1, "lead-1", "+5511999990001"),
		queuedTask(2, "lead-2", "+5511999990002"),
	}}
	agent := &fakeVoiceAgent{failPhone: "+5511999990001"}

	placed, err := newTestConsumer(queue, agent).ConsumeQueuedTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, placed)

	// The failed task went back through the queue and its delivery was acked.
	require.Len(t, queue.reenqueued, 1)
	assert.Equal(t, "lead-1", queue.reenqueued[0].LeadID)
	assert.ElementsMatch(t, []uint64{1, 2}, queue.acked)
}

func TestConsumeQueuedTasks_ReenqueueFailureLeavesDeliveryUnacked(t *testing.T) {
	queue := &fakeFetcher{
		items:      []outreachqueue.QueuedItem{queuedTask(7, "lead-1", "+5511999990001")},
		requeueErr: errors.New("channel closed"),
	}
	agent := &fakeVoiceAgent{failPhone: "+5511999990001"}

	placed, err := newTestConsumer(queue, agent).ConsumeQueuedTasks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, placed)
	assert.Empty(t, queue.acked)
}

func TestConsumeQueuedTasks_EmptyQueue(t *testing.T) {
	queue := &fakeFetcher{}
	placed, err := newTestConsumer(queue, &fakeVoiceAgent{}).ConsumeQueuedTasks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, placed)
}

func TestConsumeQueuedTasks_FetchErrorPropagates(t *testing.T) {
	queue := &fakeFetcher{fetchErr: errors.New("connection reset")}
	_, err := newTestConsumer(queue, &fakeVoiceAgent{}).ConsumeQueuedTasks(context.Background())
	require.Error(t, err)
}
