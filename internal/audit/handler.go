package audit

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"main/internal/model"
)

// Recorder is the slice of the store the API needs.
type Recorder interface {
	Last(ctx context.Context, n int) ([]model.TradeEvent, error)
}

// Handler serves the audit REST API.
type Handler struct {
	store Recorder
}

// NewHandler creates a handler over the given store.
func NewHandler(store Recorder) *Handler {
	return &Handler{store: store}
}

// Register mounts the API on the router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/", h.handleLast)
}

func (h *Handler) handleLast(c *gin.Context) {
	events, err := h.store.Last(c.Request.Context(), DefaultLastN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
