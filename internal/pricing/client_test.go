package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
)

func newQuoteServer(t *testing.T, quotes map[string]model.Quote) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		quote, ok := quotes[c.Query("name")]
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, quote)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestClientFetchesQuote(t *testing.T) {
	server := newQuoteServer(t, map[string]model.Quote{
		"MacroHard": {Name: "MacroHard", Bid: decimal.NewFromInt(17), Ask: decimal.NewFromInt(19)},
	})
	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	quote, err := client.Quote(context.Background(), "MacroHard")
	require.NoError(t, err)
	assert.Equal(t, "MacroHard", quote.Name)
	assert.True(t, quote.Ask.Equal(decimal.NewFromInt(19)))

	bid, err := client.Bid(context.Background(), "MacroHard")
	require.NoError(t, err)
	assert.True(t, bid.Equal(decimal.NewFromInt(17)))
}

func TestClientReportsUnknownCompany(t *testing.T) {
	server := newQuoteServer(t, nil)
	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	_, err = client.Quote(context.Background(), "Nonexistent Inc")
	assert.ErrorContains(t, err, "status 404")
}

func TestClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.ErrorIs(t, err, ErrNoEndpoint)
}
