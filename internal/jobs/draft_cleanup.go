// File: internal/jobs/draft_cleanup.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"castlecare_backend/internal/config"
	"castlecare_backend/internal/hiring"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DraftCleanupJob holds dependencies for the abandoned-draft cleanup job.
type DraftCleanupJob struct {
	wizard        *hiring.Controller
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewDraftCleanupJob creates a new DraftCleanupJob.
func NewDraftCleanupJob(
	wizard *hiring.Controller,
	logger *zap.Logger,
	cfg *config.Config,
) *DraftCleanupJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &DraftCleanupJob{
		wizard:        wizard,
		logger:        logger.Named("DraftCleanupJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *DraftCleanupJob) SetupAndStart() error {
	jobSpec := j.cfg.DraftCleanupJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Draft cleanup job schedule not defined (DRAFT_CLEANUP_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule draft cleanup job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Draft cleanup job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *DraftCleanupJob) runJob() {
	j.logger.Info("Starting draft cleanup job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := j.wizard.PurgeAbandoned(ctx, j.cfg.AbandonedDraftAfter)
	if err != nil {
		j.logger.Error("Draft cleanup job run failed", zap.Error(err))
	} else {
		j.logger.Info("Draft cleanup job run completed", zap.Int("drafts_purged", purged))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *DraftCleanupJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping draft cleanup job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Draft cleanup job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Draft cleanup job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
