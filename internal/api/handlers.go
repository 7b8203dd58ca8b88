package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blood-orders/internal/export"
	"blood-orders/internal/orders"
	"blood-orders/internal/query"
	"blood-orders/internal/store"
	"blood-orders/internal/stream"
)

// Handler handles HTTP requests for the order API
type Handler struct {
	repo store.Repository
	hub  *stream.Hub
	now  func() time.Time
}

// NewHandler creates a new API handler
func NewHandler(repo store.Repository, hub *stream.Hub) *Handler {
	return &Handler{
		repo: repo,
		hub:  hub,
		now:  time.Now,
	}
}

// hospitalID resolves the tenant for the request. Authentication is a
// collaborator concern; the gateway is expected to set the header.
func hospitalID(c *gin.Context) string {
	if id := c.GetHeader("X-Hospital-ID"); id != "" {
		return id
	}
	return c.Query("hospitalId")
}

// ListOrders handles GET /v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	state := query.Decode(hospitalID(c), c.Request.URL.Query())

	all, err := h.repo.ListByHospital(c.Request.Context(), state.HospitalID)
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := query.Execute(all, state)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PageResponse{
		Orders:      page.Orders,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
	})
}

// ExportOrders handles GET /v1/orders/export: the full filtered+sorted
// view as a CSV attachment.
func (h *Handler) ExportOrders(c *gin.Context) {
	state := query.Decode(hospitalID(c), c.Request.URL.Query())

	all, err := h.repo.ListByHospital(c.Request.Context(), state.HospitalID)
	if err != nil {
		writeError(c, err)
		return
	}

	full, err := query.ExecuteAll(all, state)
	if err != nil {
		writeError(c, err)
		return
	}

	filename := export.Filename(h.now())
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := export.Write(c.Writer, full); err != nil {
		// Headers are already out; nothing left to do but log via gin.
		_ = c.Error(err)
	}
}

// StreamOrders handles GET /v1/orders/stream as server-sent events.
// The stream closes when the client disconnects or falls behind;
// clients handle a close by refetching the page and resubscribing.
func (h *Handler) StreamOrders(c *gin.Context) {
	id := hospitalID(c)
	if id == "" {
		status, resp := MapErrorToHTTP(&query.ValidationError{Field: "hospitalId", Reason: "required"})
		c.JSON(status, resp)
		return
	}

	sub := h.hub.Subscribe(id, stream.DefaultBuffer)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("order_update", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// UpdateOrderStatus handles PATCH /v1/orders/:id/status: the mutation
// path that feeds the live stream.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, resp := MapErrorToHTTP(&query.ValidationError{Field: "body", Reason: "invalid JSON"})
		c.JSON(status, resp)
		return
	}

	newStatus := orders.Status(req.Status)
	if !newStatus.IsValid() {
		status, resp := MapErrorToHTTP(&query.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("unknown status %q", req.Status),
		})
		c.JSON(status, resp)
		return
	}

	updated, event, err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), newStatus, req.Rider)
	if err != nil {
		writeError(c, err)
		return
	}

	h.hub.Publish(updated.Hospital.ID, event)

	c.JSON(http.StatusOK, updated)
}

func writeError(c *gin.Context, err error) {
	status, resp := MapErrorToHTTP(err)
	c.JSON(status, resp)
}
