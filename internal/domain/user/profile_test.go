package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

func strp(s string) *string { return &s }

func TestIsComplete(t *testing.T) {
	full := &models.User{Name: "Alice", Phone: "5551234", Address: "1 Main St"}
	assert.True(t, IsComplete(full))

	for name, u := range map[string]*models.User{
		"nil":          nil,
		"no name":      {Phone: "5551234", Address: "1 Main St"},
		"no phone":     {Name: "Alice", Email: "a@test.com", Address: "1 Main St"},
		"blank addr":   {Name: "Alice", Phone: "5551234", Address: "   "},
		"only a phone": {Phone: "5551234"},
	} {
		assert.False(t, IsComplete(u), name)
	}
}

func TestMergeOnlyTouchesSuppliedFields(t *testing.T) {
	u := &models.User{Name: "Old", Phone: "5551234", Address: "Somewhere"}

	changed := Merge(u, Details{Name: strp(" X "), Address: strp("Y")})

	assert.True(t, changed)
	assert.Equal(t, "X", u.Name)
	assert.Equal(t, "Y", u.Address)
	assert.Equal(t, "5551234", u.Phone)

	assert.False(t, Merge(u, Details{Name: strp("X")}))
	assert.False(t, Merge(u, Details{}))
}
