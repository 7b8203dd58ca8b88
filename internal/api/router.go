package api

import (
	"github.com/gin-gonic/gin"

	"blood-orders/internal/store"
	"blood-orders/internal/stream"
)

// NewRouter wires the order API routes onto a gin engine
func NewRouter(repo store.Repository, hub *stream.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	handler := NewHandler(repo, hub)

	v1 := router.Group("/v1")
	{
		v1.GET("/orders", handler.ListOrders)
		v1.GET("/orders/export", handler.ExportOrders)
		v1.GET("/orders/stream", handler.StreamOrders)
		v1.PATCH("/orders/:id/status", handler.UpdateOrderStatus)
	}

	return router
}
