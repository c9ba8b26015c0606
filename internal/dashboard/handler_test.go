package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/breaker"
)

type fakeAudit struct {
	body  []byte
	err   error
	calls int
}

func (a *fakeAudit) LastOperations(context.Context) ([]byte, error) {
	a.calls++
	return a.body, a.err
}

func getOperations(t *testing.T, audit AuditFetcher, b *breaker.Breaker) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewHub(), audit, b).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/operations", nil))
	return rec
}

func TestOperationsProxiesAuditService(t *testing.T) {
	audit := &fakeAudit{body: []byte(`[{"action":"BUY"}]`)}
	rec := getOperations(t, audit, breaker.New(breaker.Config{}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"action":"BUY"}]`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestOperationsFallsBackWhenAuditDown(t *testing.T) {
	audit := &fakeAudit{err: errors.New("connection refused")}
	b := breaker.New(breaker.Config{MaxFailures: 2}, nil)

	rec := getOperations(t, audit, b)
	require.Equal(t, http.StatusOK, rec.Code, "degraded responses still succeed")
	assert.JSONEq(t, FallbackBody, rec.Body.String())
}

func TestOperationsStopsCallingOnceOpen(t *testing.T) {
	audit := &fakeAudit{err: errors.New("connection refused")}
	b := breaker.New(breaker.Config{MaxFailures: 2}, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewHub(), audit, b).Register(router)

	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/operations", nil))
		assert.JSONEq(t, FallbackBody, rec.Body.String())
	}
	assert.Equal(t, 2, audit.calls, "open circuit rejects without calling")
	assert.Equal(t, breaker.StateOpen, b.State())
}
