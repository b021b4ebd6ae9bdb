package service

import (
	"errors"

	"cineva.app/movieadmin/pkg/apperror"
	"gorm.io/gorm"
)

// notFound converts a gorm record-not-found into the NotFound taxonomy
// error with an entity-specific message; anything else passes through
// and surfaces as Internal.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(message)
	}
	return err
}
