package dto

// CreateGDPRRequest is the payload for filing a request. UserID is honoured for admins only.
type CreateGDPRRequest struct {
	RequestType    string  `json:"request_type" validate:"required"`
	RequestContent *string `json:"request_content,omitempty"`
	CompanyID      int64   `json:"company_id" validate:"required,gt=0"`
	UserID         *int64  `json:"user_id,omitempty"`
}

// UpdateStatusRequest moves a request between statuses.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateContentRequest edits a pending request's free text.
type UpdateContentRequest struct {
	RequestContent string `json:"request_content"`
}

// GDPRStatistics counts requests by status and type.
type GDPRStatistics struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	Processed    int64 `json:"processed"`
	Modification int64 `json:"modification"`
	Deletion     int64 `json:"deletion"`
}

// ValueCheck answers validate/type and validate/status lookups.
type ValueCheck struct {
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}
