// Package jobs provides the scheduled background tasks of the orders service,
// built on github.com/robfig/cron/v3 and coordinated by JobManager.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// ReliabilityRecomputer recalculates per-carrier reliability ratings from
// delivery history. Satisfied by *postgres.GormReliabilityStore.
type ReliabilityRecomputer interface {
	Recompute(ctx context.Context) (map[string]float64, error)
}

// ReliabilityRefreshJob periodically recomputes carrier reliability ratings
// so quote selection scores against recent delivery performance instead of
// stale seed data.
type ReliabilityRefreshJob struct {
	store    ReliabilityRecomputer
	schedule string
	cron     *cron.Cron
	logger   *otelzap.Logger
}

// NewReliabilityRefreshJob creates the refresh job with a standard five-field
// cron schedule, e.g. "0 * * * *" for hourly.
func NewReliabilityRefreshJob(store ReliabilityRecomputer, schedule string, logger *otelzap.Logger) *ReliabilityRefreshJob {
	return &ReliabilityRefreshJob{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the schedule and begins running.
func (j *ReliabilityRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		updated, err := j.store.Recompute(ctx)
		if err != nil {
			j.logger.Ctx(ctx).Error("Reliability refresh failed", zap.Error(err))
			return
		}

		j.logger.Ctx(ctx).Info("Reliability ratings refreshed",
			zap.Int("carriers_updated", len(updated)),
		)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Reliability refresh job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop halts the schedule. Does not wait for an in-flight run.
func (j *ReliabilityRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Reliability refresh job stopped")
}
