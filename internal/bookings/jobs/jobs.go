package jobs

import (
	"context"
	"fmt"
	"time"
	"villa/internal/bookings/repository"
	"villa/internal/bookings/service"
	"villa/pkg/config"
	"villa/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const (
	LockSweeperJob  = "booking-lock-sweeper"
	AutoCompleteJob = "complete-finished-stays"

	jobTimeout = 30 * time.Second
)

// Runner owns the background maintenance jobs of the bookings service.
type Runner struct {
	scheduler gocron.Scheduler
	locks     repository.BookingLockRepository
	bookings  service.BookingService
	log       *logger.Logger
	now       func() time.Time
}

func NewRunner(locks repository.BookingLockRepository, bookings service.BookingService, cfg *config.Config) (*Runner, error) {
	opts := []gocron.SchedulerOption{
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(cfg.Log),
	}
	if cfg.ShutdownTimeout > 0 {
		opts = append(opts, gocron.WithStopTimeout(cfg.ShutdownTimeout))
	}

	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	r := &Runner{
		scheduler: scheduler,
		locks:     locks,
		bookings:  bookings,
		log:       cfg.Log,
		now:       time.Now,
	}

	if err := r.register(LockSweeperJob, cfg.LockSweepInterval, r.SweepLocks); err != nil {
		return nil, err
	}
	if cfg.AutoCompleteInterval > 0 {
		if err := r.register(AutoCompleteJob, cfg.AutoCompleteInterval, r.CompleteStays); err != nil {
			return nil, err
		}
	} else {
		cfg.Log.Info("Auto-complete job disabled")
	}

	return r, nil
}

func (r *Runner) register(name string, every time.Duration, task func(ctx context.Context) error) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := task(ctx); err != nil {
				r.log.Error("Background job failed", "job", name, "error", err)
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
				r.log.Error("Background job panicked", "job", jobName, "job_id", jobID.String(), "panic", recoverData)
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}
	r.log.Info("Background job registered", "job", name, "interval", every.String())
	return nil
}

func (r *Runner) Start() {
	r.scheduler.Start()
}

func (r *Runner) Shutdown() error {
	return r.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (r *Runner) JobNames() []string {
	jobs := r.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

// SweepLocks removes lock documents whose holder died without releasing them.
// The TTL index does the same eventually; the sweep bounds the delay.
func (r *Runner) SweepLocks(ctx context.Context) error {
	removed, err := r.locks.DeleteExpired(ctx, r.now().UTC())
	if err != nil {
		return err
	}
	if removed > 0 {
		r.log.Info("Removed expired booking locks", "count", removed)
	}
	return nil
}

func (r *Runner) CompleteStays(ctx context.Context) error {
	completed, err := r.bookings.CompleteFinishedStays(ctx)
	if err != nil {
		return err
	}
	if completed > 0 {
		r.log.Info("Completed finished stays", "count", completed)
	}
	return nil
}
