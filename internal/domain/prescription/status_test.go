package prescription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

func TestCanReview(t *testing.T) {
	assert.NoError(t, CanReview(StatusPendingReview, StatusApproved))
	assert.NoError(t, CanReview(StatusPendingReview, StatusRejected))

	for _, err := range []error{
		CanReview(StatusApproved, StatusRejected),
		CanReview(StatusRejected, StatusApproved),
		CanReview(StatusPendingReview, StatusPendingReview),
	} {
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStateTransition))
	}
}

func TestParsePurpose(t *testing.T) {
	p, ok := ParsePurpose(" lab test ")
	assert.True(t, ok)
	assert.Equal(t, PurposeLabTest, p)

	_, ok = ParsePurpose("surgery")
	assert.False(t, ok)
}
