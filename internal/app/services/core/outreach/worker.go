package outreach

import (
	"context"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker drives the dispatcher and the queue consumer on a cron cadence. A
// redis leader lock keeps a single dispatching instance across replicas.
type Worker struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	locker     contracts.LockerService
	dispatcher *Dispatcher
	consumer   *Consumer
	cron       *cron.Cron
	runCtx     context.Context
	cancel     context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, dispatcher *Dispatcher, consumer *Consumer) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, dispatcher: dispatcher, consumer: consumer}
}

// Start begins the periodic loop.
func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Outreach.WorkerCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("outreach.worker: failed to schedule with provided cron spec; falling back to @every 1m", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop gracefully stops the cron and any in-flight dispatch.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop() // wait for running jobs to finish
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := time.Duration(w.cfg.Outreach.LeaderLockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeyOutreachLeader, ttl)
	if err != nil {
		w.log.Warn("outreach.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("outreach.worker: leader lock not acquired; another instance is dispatching")
		return
	}
	defer w.locker.Unlock(ctx, constvars.RedisKeyOutreachLeader, token)

	// Refresh the lock TTL while dispatch runs.
	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, constvars.RedisKeyOutreachLeader, token, ttl); err != nil {
					w.log.Warn("outreach.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	if _, err := w.dispatcher.DispatchDueLeads(ctx); err != nil {
		w.log.Warn("outreach.worker: dispatch run failed", zap.Error(err))
	}
	if _, err := w.consumer.ConsumeQueuedTasks(ctx); err != nil {
		w.log.Warn("outreach.worker: consume run failed", zap.Error(err))
	}
}
