package entity

import "time"

// GDPR request types.
const (
	RequestTypeModification = "MODIFICATION"
	RequestTypeDeletion     = "DELETION"
)

// GDPR request statuses.
const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
)

// RequestTypes and RequestStatuses enumerate the accepted values in display order.
var (
	RequestTypes    = []string{RequestTypeModification, RequestTypeDeletion}
	RequestStatuses = []string{StatusPending, StatusProcessed}
)

// GDPRRequest records a user's demand to modify or delete personal data held by a company.
type GDPRRequest struct {
	ID             int64     `json:"id_request"`
	RequestType    string    `json:"request_type"`
	Status         string    `json:"status"`
	RequestDate    time.Time `json:"request_date"`
	RequestContent *string   `json:"request_content,omitempty"`
	UserID         int64     `json:"id_user"`
	CompanyID      int64     `json:"id_company"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Populated by listing queries.
	User    *RequestUser    `json:"user,omitempty"`
	Company *RequestCompany `json:"company,omitempty"`
}

// RequestUser is the requester summary embedded in request listings.
type RequestUser struct {
	ID        int64  `json:"id_user"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

// RequestCompany is the target company summary embedded in request listings.
type RequestCompany struct {
	ID          int64  `json:"id_company"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
}

// IsValidRequestType reports whether t is an accepted request type.
func IsValidRequestType(t string) bool {
	return t == RequestTypeModification || t == RequestTypeDeletion
}

// IsValidStatus reports whether s is an accepted request status.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusProcessed
}
