// Package apierror maps ledger errors onto HTTP statuses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// FromLedger converts err into a huma.StatusError. Validation and format
// errors are the caller's fault (400), unknown ids are 404, anything else is
// reported as 500 with msg.
func FromLedger(msg string, err error) error {
	var validationErr *ledger.ValidationError
	var notFoundErr *ledger.NotFoundError
	var formatErr *ledger.FormatError

	switch {
	case errors.As(err, &validationErr):
		return huma.NewError(http.StatusBadRequest, validationErr.Error(), err)
	case errors.As(err, &notFoundErr):
		return huma.NewError(http.StatusNotFound, notFoundErr.Error(), err)
	case errors.As(err, &formatErr):
		return huma.NewError(http.StatusBadRequest, formatErr.Error(), err)
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
