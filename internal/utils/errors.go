package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid_credentials")
	ErrUserNotFound          = errors.New("user_not_found")
	ErrCustomerNotFound      = errors.New("customer_not_found")
	ErrProductNotFound       = errors.New("product_not_found")
	ErrSaleNotFound          = errors.New("sale_not_found")
	ErrFloorNotFound         = errors.New("floor_not_found")
	ErrApprovalNotFound      = errors.New("approval_not_found")
	ErrApproverNotFound      = errors.New("approver_not_found")
	ErrEscalationNotFound    = errors.New("escalation_not_found")
	ErrApprovalNotPending    = errors.New("approval_not_pending")
	ErrInvalidTransition     = errors.New("invalid_transition")
	ErrUnsupportedActionType = errors.New("unsupported_action_type")
	ErrDuplicateRecord       = errors.New("duplicate_record")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (SendGrid / Twilio)
	ErrExternalServiceFailure = errors.New("external_service_failure")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// AppError carries an HTTP status and machine code from services to
// controllers so handlers stay thin.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}

// NewAppError is a shorthand used by the service layer.
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{StatusCode: status, Code: code, Message: message, Err: err}
}
