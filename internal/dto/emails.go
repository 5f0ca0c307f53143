package dto

// TestEmailRequest asks for a test message.
type TestEmailRequest struct {
	To string `json:"to" validate:"required"`
}

// SimpleEmailRequest sends a plain text message.
type SimpleEmailRequest struct {
	To      string `json:"to" validate:"required"`
	Subject string `json:"subject" validate:"required,max=200"`
	Text    string `json:"text" validate:"required"`
}

// CustomEmailRequest renders a named template with caller supplied variables.
type CustomEmailRequest struct {
	To        string         `json:"to" validate:"required"`
	Subject   string         `json:"subject" validate:"required,max=200"`
	Template  string         `json:"template" validate:"required"`
	Variables map[string]any `json:"variables,omitempty"`
}

// BulkEmailRequest renders one template for many recipients.
type BulkEmailRequest struct {
	Recipients []string       `json:"recipients" validate:"required,min=1,max=500"`
	Subject    string         `json:"subject" validate:"required,max=200"`
	Template   string         `json:"template" validate:"required"`
	Variables  map[string]any `json:"variables,omitempty"`
}

// BulkFailure records one recipient that could not be mailed.
type BulkFailure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// BulkEmailResult reports a bulk send.
type BulkEmailResult struct {
	Sent     int           `json:"sent"`
	Failed   int           `json:"failed"`
	Failures []BulkFailure `json:"failures,omitempty"`
}

// AdminNotificationRequest is forwarded to the configured administrators.
type AdminNotificationRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
}

// EmailStatistics reports delivery counters.
type EmailStatistics struct {
	TotalSent   int64 `json:"total_sent"`
	TotalFailed int64 `json:"total_failed"`
	SentToday   int64 `json:"sent_today"`
}
