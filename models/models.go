// ABOUTME: Shared API response models for the dashboard proxy
// ABOUTME: JSON-serializable structures matching frontend expectations

package models

// ErrorResponse represents an error response.
// Detail carries the upstream backend's explanation when one is available.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   int    `json:"code"`
}

// SuccessResponse is returned by session endpoints that only report an outcome
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PaginatedResponse is the list envelope returned by the upstream REST API
type PaginatedResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
