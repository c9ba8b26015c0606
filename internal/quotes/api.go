package quotes

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"main/internal/model"
)

// API serves the last observed quote for each company.
type API struct {
	mu     sync.RWMutex
	byName map[string]model.Quote
}

// NewAPI creates an empty quote API.
func NewAPI() *API {
	return &API{byName: make(map[string]model.Quote)}
}

// Observe stores a quote as the latest one for its company.
func (a *API) Observe(quote model.Quote) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byName[quote.Name] = quote
}

// Register mounts the API on the router.
func (a *API) Register(router gin.IRouter) {
	router.GET("/", a.handleQuotes)
}

// handleQuotes returns one quote when the name parameter is set, or the
// whole map when it is not. Unknown names get a 404.
func (a *API) handleQuotes(c *gin.Context) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusOK, a.byName)
		return
	}
	quote, ok := a.byName[name]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, quote)
}
