package httperr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromGRPC classifies document-store errors. notFound is the business code to
// use for codes.NotFound; pass "" to leave those untouched.
func FromGRPC(err error, notFound string) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return Wrap(CodePermissionDenied, err)
	case codes.NotFound:
		if notFound != "" {
			return Wrap(notFound, err)
		}
	case codes.AlreadyExists:
		return Wrap(CodeDuplicateAccount, err)
	}
	return err
}
