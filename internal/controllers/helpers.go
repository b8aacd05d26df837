package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/constants"
	"github.com/sarkar-crm/crm-service/internal/dtos"
	"github.com/sarkar-crm/crm-service/internal/middleware"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

// formatValidationErrors converts validator errors into field-level detail.
func formatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	var details []dtos.ValidationErrorDetail
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

// decodeAndValidate reads the JSON body into req and runs struct
// validation, writing the error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
				"Validation failed", formatValidationErrors(validationErrs), err)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

// requireActor pulls the authenticated caller off the context set by the
// auth middleware.
func requireActor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No caller identity in context", nil)
		return services.Actor{}, false
	}
	return actor, true
}

// requirePermission enforces the matrix and writes the 403 itself.
func requirePermission(w http.ResponseWriter, actor services.Actor, resource authz.Resource, action authz.Action) bool {
	if authz.HasPermission(actor.Role, resource, action) {
		return true
	}
	utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden,
		fmt.Sprintf("role %s may not %s %s", actor.Role, action, resource), nil)
	return false
}

// requireWrite passes when the role can either commit the write or at
// least request it through the approval queue.
func requireWrite(w http.ResponseWriter, actor services.Actor, resource authz.Resource, action authz.Action) bool {
	if authz.HasPermission(actor.Role, resource, action) ||
		authz.MustForcePending(actor.Role, resource, action) {
		return true
	}
	utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden,
		fmt.Sprintf("role %s may not %s %s", actor.Role, action, resource), nil)
	return false
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			fmt.Sprintf("Invalid %s", name), nil, err)
		return uuid.Nil, false
	}
	return id, true
}

// parseListQuery reads page/size with defaults and caps, returning the
// 1-based page, the page size, and the SQL offset.
func parseListQuery(r *http.Request) (page, size, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}
	return page, size, (page - 1) * size
}

// respondPending is the shared 202 for writes that went to the approval
// queue instead of committing.
func respondPending(w http.ResponseWriter, approvalID uuid.UUID) {
	utils.RespondWithJSON(w, http.StatusAccepted, dtos.PendingApprovalResponse{
		ApprovalID: approvalID.String(),
		Status:     "PENDING_APPROVAL",
	})
}
