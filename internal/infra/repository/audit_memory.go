package repository

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type AuditMemoryStore struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func NewAuditMemoryStore() *AuditMemoryStore {
	return &AuditMemoryStore{}
}

func (s *AuditMemoryStore) Create(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.ID = uint(len(s.logs) + 1)
	s.logs = append(s.logs, *log)
	return nil
}

func (s *AuditMemoryStore) List(_ context.Context, q audit.Query) ([]models.AuditLog, int64, error) {
	q = q.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.AuditLog, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		l := s.logs[i]
		if q.Action != "" && l.Action != q.Action {
			continue
		}
		if q.Entity != "" && l.Entity != q.Entity {
			continue
		}
		if q.From != nil && l.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && !l.CreatedAt.Before(q.To.Add(24*time.Hour)) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

var _ audit.Store = (*AuditMemoryStore)(nil)
