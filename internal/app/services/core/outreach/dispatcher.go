package outreach

import (
	"context"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/services/shared/outreachqueue"
	"leadbook-service/internal/app/services/shared/ratelimiter"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const dispatchLimiterGroup = "outreach-dispatch"

// TaskEnqueuer is the slice of the outreach queue the dispatcher needs.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task *outreachqueue.CallTask) error
}

// Dispatcher moves due leads from the retry pipeline onto the call-task
// queue. One dispatch marks the lead contacting; the webhook moves it back to
// retry_queued or out of the pipeline.
type Dispatcher struct {
	log            *zap.Logger
	cfg            *config.InternalConfig
	leadRepository contracts.LeadRepository
	queue          TaskEnqueuer
	tenantLimiter  *ratelimiter.ResourceLimiter
	pacer          *rate.Limiter
	now            func() time.Time
}

func NewDispatcher(
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	leadRepository contracts.LeadRepository,
	queue TaskEnqueuer,
	tenantLimiter *ratelimiter.ResourceLimiter,
) *Dispatcher {
	perSecond := internalConfig.Outreach.DispatchRatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Dispatcher{
		log:            logger,
		cfg:            internalConfig,
		leadRepository: leadRepository,
		queue:          queue,
		tenantLimiter:  tenantLimiter,
		pacer:          rate.NewLimiter(rate.Limit(perSecond), perSecond),
		now:            time.Now,
	}
}

// DispatchDueLeads scans for leads whose retry instant has passed and
// enqueues one call task per lead. Returns how many tasks were enqueued.
func (d *Dispatcher) DispatchDueLeads(ctx context.Context) (int, error) {
	now := d.now().UTC()
	leads, err := d.leadRepository.FindLeadsDueForRetry(ctx, now, d.cfg.Outreach.DispatchBatchSize)
	if err != nil {
		return 0, err
	}
	if len(leads) == 0 {
		return 0, nil
	}

	dispatched := 0
	for i := range leads {
		lead := leads[i]

		allowed, err := d.tenantAllowed(ctx, lead.TenantID)
		if err != nil {
			d.log.Warn("Dispatcher.DispatchDueLeads tenant limiter failed",
				zap.String(constvars.LoggingTenantIDKey, lead.TenantID),
				zap.Error(err),
			)
			continue
		}
		if !allowed {
			// The lead stays due and gets picked up on a later tick.
			d.log.Info("Dispatcher.DispatchDueLeads tenant over dispatch quota",
				zap.String(constvars.LoggingTenantIDKey, lead.TenantID),
				zap.String(constvars.LoggingLeadIDKey, lead.ID),
			)
			continue
		}

		if err := d.pacer.Wait(ctx); err != nil {
			return dispatched, err
		}

		task := &outreachqueue.CallTask{
			ID:            uuid.NewString(),
			TenantID:      lead.TenantID,
			LeadID:        lead.ID,
			PhoneNumber:   lead.Phone,
			AttemptNumber: lead.AttemptCount + 1,
			ScheduledAt:   now,
		}
		if lead.NextRetryAt != nil {
			task.ScheduledAt = *lead.NextRetryAt
		}

		if err := d.queue.Enqueue(ctx, task); err != nil {
			d.log.Error("Dispatcher.DispatchDueLeads error enqueueing call task",
				zap.String(constvars.LoggingLeadIDKey, lead.ID),
				zap.Error(err),
			)
			continue
		}

		lead.Status = constvars.LeadStatusContacting
		lead.UpdatedAt = now
		if err := d.leadRepository.UpdateLead(ctx, &lead); err != nil {
			d.log.Error("Dispatcher.DispatchDueLeads error marking lead contacting",
				zap.String(constvars.LoggingLeadIDKey, lead.ID),
				zap.Error(err),
			)
			continue
		}

		metrics.CallTasksDispatched.WithLabelValues(lead.TenantID).Inc()
		dispatched++
	}

	d.log.Info("Dispatcher.DispatchDueLeads finished",
		zap.Int("due_leads", len(leads)),
		zap.Int("dispatched", dispatched),
	)
	return dispatched, nil
}

func (d *Dispatcher) tenantAllowed(ctx context.Context, tenantID string) (bool, error) {
	out, err := d.tenantLimiter.ApplyResourceLimiter(ctx, &ratelimiter.ApplyResourceLimiterInput{
		ResourceName:      tenantID,
		LimiterGroupName:  dispatchLimiterGroup,
		WindowDurationSec: 1,
		MaxQuota:          d.cfg.Outreach.DispatchRatePerSecond,
		NowUTC:            d.now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return out.Allowed, nil
}
