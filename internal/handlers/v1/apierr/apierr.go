// Package apierr maps internal error kinds onto HTTP status codes so every
// handler reports failures the same way.
package apierr

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/faults"
)

// Map converts a service error to a Huma error: validation failures become
// 422, missing resources 404, and everything else a 500 carrying msg.
func Map(err error, msg string) error {
	switch {
	case faults.IsValidation(err):
		return huma.Error422UnprocessableEntity(err.Error())
	case faults.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
