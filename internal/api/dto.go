package api

import (
	"blood-orders/internal/orders"
)

// PageResponse is the JSON envelope for one page of orders
type PageResponse struct {
	Orders      []*orders.Order `json:"orders"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
	TotalCount  int             `json:"totalCount"`
	TotalPages  int             `json:"totalPages"`
}

// UpdateStatusRequest is the body of PATCH /v1/orders/:id/status
type UpdateStatusRequest struct {
	Status string        `json:"status"` // New order status
	Rider  *orders.Rider `json:"rider"`  // Optional rider assignment
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string `json:"code"`    // Error code
	Message string `json:"message"` // Error message
}
