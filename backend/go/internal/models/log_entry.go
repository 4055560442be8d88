package models

// ErrorInfo is the structured error attached to log entries.
type ErrorInfo struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"` // e.g. "store_error", "classification_error"
}
