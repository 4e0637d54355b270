package jobs

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// JobManager coordinates the service's scheduled jobs behind one start/stop
// surface so main only deals with a single lifecycle.
type JobManager struct {
	reliabilityJob *ReliabilityRefreshJob
}

// NewJobManager wires up every background job.
func NewJobManager(reliability ReliabilityRecomputer, refreshSchedule string, logger *otelzap.Logger) *JobManager {
	return &JobManager{
		reliabilityJob: NewReliabilityRefreshJob(reliability, refreshSchedule, logger),
	}
}

// StartAll starts every job, stopping already-started ones if a later one
// fails to schedule.
func (jm *JobManager) StartAll() error {
	if err := jm.reliabilityJob.Start(); err != nil {
		return fmt.Errorf("start reliability refresh job: %w", err)
	}
	return nil
}

// StopAll stops every job.
func (jm *JobManager) StopAll() {
	jm.reliabilityJob.Stop()
}
