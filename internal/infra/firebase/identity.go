package firebase

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

var errNoPhoneClaim = errors.New("id token carries no phone_number claim")

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// PhoneIdentity exchanges a Firebase phone-auth ID token for the verified
// phone number.
type PhoneIdentity struct {
	client idTokenVerifier
}

func NewPhoneIdentity(client *auth.Client) *PhoneIdentity {
	return &PhoneIdentity{client: client}
}

func (p *PhoneIdentity) VerifyPhone(ctx context.Context, idToken string) (string, error) {
	tok, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", httperr.Wrap(httperr.CodeInvalidCredentials, err)
	}

	phone, _ := tok.Claims["phone_number"].(string)
	if phone == "" {
		return "", httperr.Wrap(httperr.CodeInvalidCredentials, errNoPhoneClaim)
	}
	return phone, nil
}
