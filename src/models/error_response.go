package models

// ErrorResponse is the standard error body every handler returns.
type ErrorResponse struct {
	Status  int    `json:"status"`  // HTTP status code
	Message string `json:"message"` // Error detail
}
