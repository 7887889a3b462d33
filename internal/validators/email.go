package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver the domain check uses.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// IsEmailDomainValid checks the signup domain against public DNS.
func IsEmailDomainValid(email string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	return DomainResolves(ctx, net.DefaultResolver, email)
}

// DomainResolves accepts a domain with a mail exchanger, or failing that any
// address record.
func DomainResolves(ctx context.Context, r Resolver, email string) bool {
	if !IsEmail(email) {
		return false
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	addrs, err := r.LookupIPAddr(ctx, domain)
	return err == nil && len(addrs) > 0
}
