package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"main/internal/breaker"
)

// FallbackBody is served when the audit service is open or unreachable.
const FallbackBody = `{"message":"No audit service, or unable to call it"}`

// AuditFetcher retrieves the recent operations payload.
type AuditFetcher interface {
	LastOperations(ctx context.Context) ([]byte, error)
}

// AuditClient fetches the audit trail over HTTP.
type AuditClient struct {
	http *resty.Client
}

// NewAuditClient creates a client against the audit service base URL.
func NewAuditClient(baseURL string) *AuditClient {
	return &AuditClient{http: resty.New().SetBaseURL(baseURL)}
}

// LastOperations returns the raw body of the audit service's listing.
func (c *AuditClient) LastOperations(ctx context.Context) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return nil, fmt.Errorf("call audit service: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("audit service replied %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// Handler serves the dashboard API.
type Handler struct {
	hub     *Hub
	audit   AuditFetcher
	breaker *breaker.Breaker
}

// NewHandler creates a handler over the hub and the guarded audit client.
func NewHandler(hub *Hub, audit AuditFetcher, b *breaker.Breaker) *Handler {
	return &Handler{hub: hub, audit: audit, breaker: b}
}

// Register mounts the API on the router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/operations", h.handleOperations)
	router.GET("/ws", h.hub.ServeWS)
}

// handleOperations proxies the audit trail through the circuit breaker.
// The response is always 200: when the audit service cannot be reached
// the fallback body stands in for it.
func (h *Handler) handleOperations(c *gin.Context) {
	body := h.breaker.Do(c.Request.Context(), func(ctx context.Context) ([]byte, error) {
		return h.audit.LastOperations(ctx)
	}, func(error) []byte {
		return []byte(FallbackBody)
	})
	c.Data(http.StatusOK, "application/json", body)
}
