package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"courtside/config"
)

const sweepJobTimeout = 2 * time.Minute

// Scheduler owns the background cron jobs of the service. Right now that is
// a single job, the stale hold sweep.
type Scheduler interface {
	RegisterSweep(sweep func(ctx context.Context) (int, error)) error
	Start()
	Stop() error
}

type schedulerImpl struct {
	scheduler gocron.Scheduler
	cfg       *config.Config
}

func New(cfg *config.Config) (Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("jobID", jobID.String()).
						Str("jobName", jobName).
						Interface("panic", recoverData).
						Msg("scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &schedulerImpl{scheduler: sched, cfg: cfg}, nil
}

// RegisterSweep schedules the stale hold sweep on the configured cron
// expression.
func (s *schedulerImpl) RegisterSweep(sweep func(ctx context.Context) (int, error)) error {
	cronExpr := s.cfg.Booking.SweepCron

	_, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
			defer cancel()

			if _, err := sweep(ctx); err != nil {
				log.Error().Err(err).Msg("stale hold sweep failed")
			}
		}),
		gocron.WithName("expire_stale_holds"),
	)
	if err != nil {
		return fmt.Errorf("failed to register stale hold sweep: %w", err)
	}

	log.Info().Str("cron", cronExpr).Msg("stale hold sweep registered")

	return nil
}

func (s *schedulerImpl) Start() {
	log.Info().Msg("scheduler starting")
	s.scheduler.Start()
}

func (s *schedulerImpl) Stop() error {
	log.Info().Msg("scheduler stopping")

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}

	return nil
}
