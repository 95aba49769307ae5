package repository

import (
	"errors"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
)

// notFound turns ErrNotFound into the business error handlers expect.
func notFound(err error, message string) error {
	if errors.Is(err, ErrNotFound) {
		return httperr.ErrBusinessMsg("not_found", message)
	}
	return err
}

func required(message string) error {
	return httperr.ErrBusinessMsg("required_field", message)
}
