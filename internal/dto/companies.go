package dto

// CompanyRequest is the payload for creating or updating a company.
type CompanyRequest struct {
	CompanyName string  `json:"company_name" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,max=50"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// CompanySummary is the public projection used when filing requests.
type CompanySummary struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
}

// CompanyStatistics summarises companies and their requests.
type CompanyStatistics struct {
	TotalCompanies  int64 `json:"total_companies"`
	TotalRequests   int64 `json:"total_requests"`
	PendingRequests int64 `json:"pending_requests"`
}

// Availability answers validate/exists lookups.
type Availability struct {
	Value     string `json:"value"`
	Exists    bool   `json:"exists"`
	Available bool   `json:"available"`
}

// Page is a zero-indexed page of results.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage computes page metadata for a slice of results.
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{Content: content, Page: page, Size: size, TotalElements: total, TotalPages: pages}
}

// ImportRowError explains why one CSV row was not imported.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a company CSV import.
type ImportSummary struct {
	Total    int              `json:"total"`
	Inserted int              `json:"inserted"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
