package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/robfig/cron/v3"
)

// Reconciler escalates stale orders and reports what changed
type Reconciler interface {
	Reconcile(ctx context.Context) ([]services.EscalationChange, error)
}

// EscalationJob re-applies the priority escalation rule to open orders on a cron schedule,
// so orders nobody lists still get bumped.
type EscalationJob struct {
	reconciler Reconciler
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewEscalationJob creates a job running reconciler on schedule (standard 5-field cron or @every/@hourly descriptors)
func NewEscalationJob(reconciler Reconciler, schedule string, logger *slog.Logger) *EscalationJob {
	return &EscalationJob{
		reconciler: reconciler,
		schedule:   schedule,
		cron:       cron.New(),
		logger:     logger.With("component", "escalation_job"),
	}
}

// Start registers the job and starts the scheduler
func (j *EscalationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("Escalation job failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid escalation schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("Escalation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running reconciliation to finish
func (j *EscalationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Escalation job stopped")
}

// RunOnce performs a single reconciliation. Overlapping runs are skipped.
func (j *EscalationJob) RunOnce(ctx context.Context) ([]services.EscalationChange, error) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		j.logger.Warn("Escalation already running, skipping")
		return nil, nil
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	changes, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		return changes, err
	}

	for _, change := range changes {
		j.logger.Info("Order priority escalated",
			"order_id", change.OrderID,
			"order_number", change.OrderNumber,
			"from", change.From,
			"to", change.To,
		)
	}
	j.logger.Debug("Escalation run finished", "escalated", len(changes))

	return changes, nil
}
