package firebase

import (
	"context"

	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/healthconnect-api/internal/config"
)

// NewApp initializes the Admin SDK with the service account file when set,
// application default credentials otherwise.
func NewApp(ctx context.Context, cfg *config.Config) (*fb.App, error) {
	var fbCfg *fb.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &fb.Config{ProjectID: cfg.FirebaseProjectID}
	}

	if cfg.FirebaseCredentialsFile != "" {
		return fb.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	return fb.NewApp(ctx, fbCfg)
}
