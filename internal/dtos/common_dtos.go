package dtos

// ListQuery carries the pagination query params shared by list endpoints.
type ListQuery struct {
	Page int
	Size int
}

// ListResponse is the envelope for every paginated list endpoint.
type ListResponse[T any] struct {
	Results []T `json:"results"`
	Page    int `json:"page"`
	Size    int `json:"size"`
	Total   int `json:"total"`
}

// PendingApprovalResponse is the 202 body returned when a write was
// recorded as an approval request instead of being applied.
type PendingApprovalResponse struct {
	ApprovalID string `json:"approval_id"`
	Status     string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorDetail is one field-level failure inside a 400
// validation_error response.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
