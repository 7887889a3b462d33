package realtime

import (
	"context"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/appointment"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type Lister interface {
	List(ctx context.Context) ([]models.Appointment, error)
}

// NotifierFeed turns hub signals into full snapshots for stores that cannot
// push changes themselves.
type NotifierFeed struct {
	repo Lister
	hub  *Hub
}

func NewNotifierFeed(repo Lister, hub *Hub) *NotifierFeed {
	return &NotifierFeed{repo: repo, hub: hub}
}

func (f *NotifierFeed) Subscribe(ctx context.Context) (<-chan appointment.Snapshot, error) {
	// registered before the first read so no change between the two is lost
	signal := f.hub.Register()
	out := make(chan appointment.Snapshot, 1)

	go func() {
		defer close(out)
		defer f.hub.Unregister(signal)

		emit := func() bool {
			apps, err := f.repo.List(ctx)
			if ctx.Err() != nil {
				return false
			}

			snap := appointment.Snapshot{Appointments: apps, Err: err}
			select {
			case out <- snap:
			case <-ctx.Done():
				return false
			}
			return err == nil
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				if !emit() {
					return
				}
			}
		}
	}()

	return out, nil
}

var _ appointment.Feed = (*NotifierFeed)(nil)
