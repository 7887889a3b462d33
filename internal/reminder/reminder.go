package reminder

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

type Notifier interface {
	AppointmentReminder(ctx context.Context, ap *models.Appointment) error
}

type Metrics interface {
	ReminderSent()
}

// Job notifies bookers of confirmed appointments starting within the lead
// time and marks each one so it is reminded only once.
type Job struct {
	repo      domain.Repository
	publisher domain.Publisher
	notifier  Notifier
	metrics   Metrics
	clock     timezone.Clock
	lead      time.Duration
	log       zerolog.Logger
}

func NewJob(
	repo domain.Repository,
	publisher domain.Publisher,
	notifier Notifier,
	metrics Metrics,
	clock timezone.Clock,
	lead time.Duration,
	log zerolog.Logger,
) *Job {
	return &Job{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		metrics:   metrics,
		clock:     clock,
		lead:      lead,
		log:       log,
	}
}

// Run performs one pass and returns how many reminders were sent.
func (j *Job) Run(ctx context.Context) (int, error) {
	all, err := j.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	now := j.clock()
	sent := 0

	for i := range all {
		ap := &all[i]
		if !domain.DueForReminder(ap, now, j.lead) {
			continue
		}

		if err := j.notifier.AppointmentReminder(ctx, ap); err != nil {
			j.log.Warn().Err(err).Str("appointment_id", ap.ID).Msg("reminder delivery failed")
			continue
		}

		at := now
		if err := j.repo.Update(ctx, ap.ID, domain.Patch{ReminderSentAt: &at}); err != nil {
			j.log.Error().Err(err).Str("appointment_id", ap.ID).Msg("reminder not marked")
			continue
		}

		j.metrics.ReminderSent()
		sent++
	}

	if sent > 0 {
		if err := j.publisher.Publish(ctx); err != nil {
			j.log.Warn().Err(err).Msg("change publish failed")
		}
	}

	return sent, nil
}

// Start schedules Run every interval and returns the running scheduler.
func (j *Job) Start(ctx context.Context, interval time.Duration) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(j.clock().Location())
	s.SingletonModeAll()

	_, err := s.Every(interval).Do(func() {
		sent, err := j.Run(ctx)
		if err != nil {
			j.log.Error().Err(err).Msg("reminder pass failed")
			return
		}
		if sent > 0 {
			j.log.Info().Int("sent", sent).Msg("reminders sent")
		}
	})
	if err != nil {
		return nil, err
	}

	s.StartAsync()
	j.log.Info().Dur("interval", interval).Dur("lead", j.lead).Msg("reminder job started")
	return s, nil
}
