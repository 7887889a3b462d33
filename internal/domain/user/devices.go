package user

import "context"

// DeviceRepository keeps push tokens per user. Registering a token that
// belongs to another user moves it.
type DeviceRepository interface {
	Register(ctx context.Context, userID, token string) error
	Tokens(ctx context.Context, userID string) ([]string, error)
	Remove(ctx context.Context, token string) error
}
