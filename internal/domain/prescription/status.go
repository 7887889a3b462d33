package prescription

import (
	"strings"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

type Status string

const (
	StatusPendingReview Status = "Pending Review"
	StatusApproved      Status = "Approved"
	StatusRejected      Status = "Rejected"
)

type Purpose string

const (
	PurposeLabTest  Purpose = "Lab Test"
	PurposeMedicine Purpose = "Medicine"
)

// ParsePurpose accepts the display names case-insensitively.
func ParsePurpose(s string) (Purpose, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(PurposeLabTest)):
		return PurposeLabTest, true
	case strings.EqualFold(strings.TrimSpace(s), string(PurposeMedicine)):
		return PurposeMedicine, true
	}
	return "", false
}

// CanReview allows Pending Review -> Approved|Rejected once.
func CanReview(current, next Status) error {
	if current != StatusPendingReview {
		return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
	}
	if next != StatusApproved && next != StatusRejected {
		return httperr.ErrBusiness(httperr.CodeInvalidStateTransition)
	}
	return nil
}
