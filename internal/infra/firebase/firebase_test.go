package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/appcheck"
	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

type stubAppCheck struct{ err error }

func (s stubAppCheck) VerifyToken(string) (*appcheck.DecodedAppCheckToken, error) {
	return &appcheck.DecodedAppCheckToken{}, s.err
}

type stubAuth struct {
	claims map[string]interface{}
	err    error
}

func (s stubAuth) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{Claims: s.claims}, nil
}

func TestAppCheckVerifier(t *testing.T) {
	ok := &AppCheckVerifier{client: stubAppCheck{}}
	assert.NoError(t, ok.Verify(context.Background(), "token"))
	assert.ErrorIs(t, ok.Verify(context.Background(), ""), errMissingToken)

	bad := &AppCheckVerifier{client: stubAppCheck{err: errors.New("expired")}}
	assert.Error(t, bad.Verify(context.Background(), "token"))
}

func TestPhoneIdentity(t *testing.T) {
	p := &PhoneIdentity{client: stubAuth{claims: map[string]interface{}{"phone_number": "+15551234567"}}}
	phone, err := p.VerifyPhone(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", phone)

	noPhone := &PhoneIdentity{client: stubAuth{claims: map[string]interface{}{"email": "a@test.com"}}}
	_, err = noPhone.VerifyPhone(context.Background(), "id-token")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidCredentials))

	rejected := &PhoneIdentity{client: stubAuth{err: errors.New("revoked")}}
	_, err = rejected.VerifyPhone(context.Background(), "id-token")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidCredentials))
}
