package validators

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"5551234", "5551234", true},
		{"+1 (555) 123-4567", "+15551234567", true},
		{"555.123.4567", "5551234567", true},
		{"123", "", false},
		{"1234567890123456", "", false},
		{"555-CALL-NOW", "", false},
		{"55+51234", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("user@test.com"))
	assert.False(t, IsEmail("user@"))
	assert.False(t, IsEmail("@test.com"))
	assert.False(t, IsEmail("user test@test.com"))
	assert.False(t, IsEmail("5551234"))
}

type fakeResolver struct {
	mx    map[string][]*net.MX
	addrs map[string][]net.IPAddr
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := f.mx[name]; ok {
		return mx, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if a, ok := f.addrs[host]; ok {
		return a, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func TestDomainResolves(t *testing.T) {
	r := fakeResolver{
		mx:    map[string][]*net.MX{"mail.test": {{Host: "mx.mail.test.", Pref: 10}}},
		addrs: map[string][]net.IPAddr{"web.test": {{IP: net.ParseIP("192.0.2.1")}}},
	}
	ctx := context.Background()

	assert.True(t, DomainResolves(ctx, r, "jane@mail.test"))
	assert.True(t, DomainResolves(ctx, r, "jane@WEB.test"))
	assert.False(t, DomainResolves(ctx, r, "jane@nowhere.test"))
	assert.False(t, DomainResolves(ctx, r, "not-an-email"))
}
