package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

// Notifier tells a booker about their appointment by email and push. A
// channel with no address (no email, no devices) is skipped.
type Notifier struct {
	email   EmailSender
	push    PushSender
	devices user.DeviceRepository
	log     zerolog.Logger
}

func NewNotifier(email EmailSender, push PushSender, devices user.DeviceRepository, log zerolog.Logger) *Notifier {
	return &Notifier{
		email:   email,
		push:    push,
		devices: devices,
		log:     log,
	}
}

func (n *Notifier) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error {
	title := "Appointment confirmed"
	body := fmt.Sprintf("Your %s appointment (%s) on %s at %s is confirmed.", ap.Type, ap.Item, ap.Date, ap.Time)
	if ap.Clinic != "" {
		body += fmt.Sprintf(" Clinic: %s.", ap.Clinic)
	}
	return n.send(ctx, ap, title, body, "appointment_confirmed")
}

func (n *Notifier) AppointmentReminder(ctx context.Context, ap *models.Appointment) error {
	title := "Appointment reminder"
	body := fmt.Sprintf("Reminder: %s (%s) on %s at %s.", ap.Item, ap.Type, ap.Date, ap.Time)
	if ap.ClinicAddress != "" {
		body += fmt.Sprintf(" Address: %s.", ap.ClinicAddress)
	}
	return n.send(ctx, ap, title, body, "appointment_reminder")
}

func (n *Notifier) send(ctx context.Context, ap *models.Appointment, title, body, kind string) error {
	var errs []error

	if ap.User.Email != "" {
		err := n.email.Send(ctx, EmailMessage{
			To:      ap.User.Email,
			ToName:  ap.User.Name,
			Subject: title,
			Body:    body,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	tokens, err := n.devices.Tokens(ctx, ap.User.ID)
	if err != nil {
		errs = append(errs, err)
	} else if len(tokens) > 0 {
		stale, err := n.push.Send(ctx, tokens, PushMessage{
			Title: title,
			Body:  body,
			Data:  map[string]string{"type": kind, "appointment_id": ap.ID},
		})
		if err != nil {
			errs = append(errs, err)
		}
		for _, t := range stale {
			if err := n.devices.Remove(ctx, t); err != nil {
				n.log.Warn().Err(err).Msg("stale device token not removed")
			}
		}
	}

	return errors.Join(errs...)
}
