package appointment

import (
	"context"

	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	rx "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

type DashboardStats struct {
	TodaysAppointments    int `json:"todays_appointments"`
	ConfirmedAppointments int `json:"confirmed_appointments"`
	PendingAppointments   int `json:"pending_appointments"`
	TotalAppointments     int `json:"total_appointments"`

	ApprovedPrescriptions int `json:"approved_prescriptions"`
	RejectedPrescriptions int `json:"rejected_prescriptions"`
	PendingPrescriptions  int `json:"pending_prescriptions"`
}

type Dashboard struct {
	appointments  domain.Repository
	prescriptions rx.Repository
	clock         timezone.Clock
}

func NewDashboard(
	appointments domain.Repository,
	prescriptions rx.Repository,
	clock timezone.Clock,
) *Dashboard {
	return &Dashboard{
		appointments:  appointments,
		prescriptions: prescriptions,
		clock:         clock,
	}
}

func (uc *Dashboard) Execute(ctx context.Context) (DashboardStats, error) {
	var (
		apps []models.Appointment
		rxs  []models.Prescription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = uc.appointments.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rxs, err = uc.prescriptions.List(gctx, rx.Filter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	today := uc.clock().Format(domain.DateLayout)

	stats := DashboardStats{TotalAppointments: len(apps)}
	for _, ap := range apps {
		if ap.Date == today {
			stats.TodaysAppointments++
		}
		switch domain.Status(ap.Status) {
		case domain.StatusConfirmed:
			stats.ConfirmedAppointments++
		case domain.StatusPending:
			stats.PendingAppointments++
		}
	}

	for _, p := range rxs {
		switch rx.Status(p.Status) {
		case rx.StatusApproved:
			stats.ApprovedPrescriptions++
		case rx.StatusRejected:
			stats.RejectedPrescriptions++
		case rx.StatusPendingReview:
			stats.PendingPrescriptions++
		}
	}

	return stats, nil
}
