package services

import (
	"net/http"

	"github.com/sarkar-crm/crm-service/internal/repositories"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// duplicateAsConflict maps a unique-constraint violation to a 409. The
// create paths pre-check for duplicates, but two concurrent inserts can
// both pass the pre-check; the database constraint is the authority.
func duplicateAsConflict(err error, msg string) error {
	if repositories.IsUniqueViolation(err) {
		return utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, msg, utils.ErrDuplicateRecord)
	}
	return err
}
