package firebase

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/appcheck"
)

var errMissingToken = errors.New("app check token missing")

type tokenVerifier interface {
	VerifyToken(token string) (*appcheck.DecodedAppCheckToken, error)
}

// AppCheckVerifier is the bot-check in front of OTP requests.
type AppCheckVerifier struct {
	client tokenVerifier
}

func NewAppCheckVerifier(client *appcheck.Client) *AppCheckVerifier {
	return &AppCheckVerifier{client: client}
}

func (v *AppCheckVerifier) Verify(_ context.Context, token string) error {
	if token == "" {
		return errMissingToken
	}
	_, err := v.client.VerifyToken(token)
	return err
}
