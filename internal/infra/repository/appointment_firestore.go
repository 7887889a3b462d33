package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const appointmentsCollection = "appointments"

// AppointmentFirestoreRepository is both the store and the live feed when
// STORAGE_DRIVER=firestore.
type AppointmentFirestoreRepository struct {
	client *firestore.Client
}

func NewAppointmentFirestoreRepository(client *firestore.Client) *AppointmentFirestoreRepository {
	return &AppointmentFirestoreRepository{client: client}
}

func (r *AppointmentFirestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection(appointmentsCollection)
}

func (r *AppointmentFirestoreRepository) newestFirst() firestore.Query {
	return r.col().OrderBy("createdAt", firestore.Desc)
}

func decodeAppointments(docs []*firestore.DocumentSnapshot) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0, len(docs))
	for _, doc := range docs {
		var ap models.Appointment
		if err := doc.DataTo(&ap); err != nil {
			return nil, err
		}
		ap.ID = doc.Ref.ID
		out = append(out, ap)
	}
	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentFirestoreRepository) Create(ctx context.Context, ap *models.Appointment) error {
	_, err := r.col().Doc(ap.ID).Create(ctx, ap)
	return httperr.FromGRPC(err, "")
}

func (r *AppointmentFirestoreRepository) Get(ctx context.Context, id string) (*models.Appointment, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, httperr.FromGRPC(err, httperr.CodeAppointmentNotFound)
	}

	var ap models.Appointment
	if err := doc.DataTo(&ap); err != nil {
		return nil, err
	}
	ap.ID = doc.Ref.ID
	return &ap, nil
}

func (r *AppointmentFirestoreRepository) List(ctx context.Context) ([]models.Appointment, error) {
	docs, err := r.newestFirst().Documents(ctx).GetAll()
	if err != nil {
		return nil, httperr.FromGRPC(err, "")
	}
	return decodeAppointments(docs)
}

func (r *AppointmentFirestoreRepository) Update(ctx context.Context, id string, p domain.Patch) error {
	if p.IsEmpty() {
		return nil
	}

	updates := patchUpdates(p)
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	ref := r.col().Doc(id)

	if p.From == nil {
		_, err := ref.Update(ctx, updates)
		return httperr.FromGRPC(err, httperr.CodeAppointmentNotFound)
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := doc.DataAt("status")
		if err != nil {
			return err
		}
		if current != string(*p.From) {
			return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
		}
		return tx.Update(ref, updates)
	})
	return httperr.FromGRPC(err, httperr.CodeAppointmentNotFound)
}

func patchUpdates(p domain.Patch) []firestore.Update {
	var ups []firestore.Update
	if p.Status != nil {
		ups = append(ups, firestore.Update{Path: "status", Value: string(*p.Status)})
	}
	if p.Clinic != nil {
		ups = append(ups, firestore.Update{Path: "clinic", Value: *p.Clinic})
	}
	if p.ClinicAddress != nil {
		ups = append(ups, firestore.Update{Path: "clinicAddress", Value: *p.ClinicAddress})
	}
	if p.TicketNumber != nil {
		ups = append(ups, firestore.Update{Path: "ticketNumber", Value: *p.TicketNumber})
	}
	if p.Fees != nil {
		ups = append(ups, firestore.Update{Path: "fees", Value: *p.Fees})
	}
	if p.ConfirmedAt != nil {
		ups = append(ups, firestore.Update{Path: "confirmedAt", Value: *p.ConfirmedAt})
	}
	if p.ReminderSentAt != nil {
		ups = append(ups, firestore.Update{Path: "reminderSentAt", Value: *p.ReminderSentAt})
	}
	return ups
}

// --------------------------------------------------
// Live feed
// --------------------------------------------------

// Subscribe streams query snapshots of the whole collection, newest first.
func (r *AppointmentFirestoreRepository) Subscribe(ctx context.Context) (<-chan domain.Snapshot, error) {
	it := r.newestFirst().Snapshots(ctx)
	out := make(chan domain.Snapshot, 1)

	go func() {
		defer close(out)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return
			}
			if err != nil {
				send(ctx, out, domain.Snapshot{Err: httperr.FromGRPC(err, "")})
				return
			}

			docs, err := snap.Documents.GetAll()
			if err == nil {
				var apps []models.Appointment
				apps, err = decodeAppointments(docs)
				if err == nil {
					if !send(ctx, out, domain.Snapshot{Appointments: apps}) {
						return
					}
					continue
				}
			}

			send(ctx, out, domain.Snapshot{Err: httperr.FromGRPC(err, "")})
			return
		}
	}()

	return out, nil
}

func send(ctx context.Context, out chan<- domain.Snapshot, s domain.Snapshot) bool {
	select {
	case out <- s:
		return true
	case <-ctx.Done():
		return false
	}
}

var (
	_ domain.Repository = (*AppointmentFirestoreRepository)(nil)
	_ domain.Feed       = (*AppointmentFirestoreRepository)(nil)
)
