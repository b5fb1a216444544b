package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lendly/pkg/errors"
)

// storeError normalizes Firestore failures: connectivity problems become a
// distinguishable UNAVAILABLE error so the presentation layer can show an
// offline banner; everything else is wrapped as internal.
func storeError(message string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.Unavailable("Unable to connect to the database. Please check your internet connection.", err)
	}
	return errors.Internal(message, err)
}
