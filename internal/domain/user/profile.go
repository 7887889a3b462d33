package user

import (
	"strings"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsComplete reports whether u may book: name, phone and address are all set.
func IsComplete(u *models.User) bool {
	if u == nil {
		return false
	}
	return strings.TrimSpace(u.Name) != "" &&
		strings.TrimSpace(u.Phone) != "" &&
		strings.TrimSpace(u.Address) != ""
}

// Details carries optional profile fields; nil means "leave unchanged".
type Details struct {
	Name    *string
	Address *string
	Phone   *string
}

// Merge applies the non-nil fields of d to u and reports whether anything
// changed.
func Merge(u *models.User, d Details) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v == nil {
			return
		}
		nv := strings.TrimSpace(*v)
		if *dst != nv {
			*dst = nv
			changed = true
		}
	}

	set(&u.Name, d.Name)
	set(&u.Address, d.Address)
	set(&u.Phone, d.Phone)
	return changed
}
