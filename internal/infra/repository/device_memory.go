package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
)

type DeviceMemoryRepository struct {
	mu     sync.Mutex
	owners map[string]string // token -> user id
}

func NewDeviceMemoryRepository() *DeviceMemoryRepository {
	return &DeviceMemoryRepository{owners: map[string]string{}}
}

func (r *DeviceMemoryRepository) Register(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.owners[token] = userID
	return nil
}

func (r *DeviceMemoryRepository) Tokens(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for token, owner := range r.owners {
		if owner == userID {
			out = append(out, token)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *DeviceMemoryRepository) Remove(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.owners, token)
	return nil
}

var _ user.DeviceRepository = (*DeviceMemoryRepository)(nil)
