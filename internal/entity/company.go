package entity

import "time"

// Company is an organisation holding personal data that users can target with GDPR requests.
type Company struct {
	ID          int64     `json:"id_company"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
