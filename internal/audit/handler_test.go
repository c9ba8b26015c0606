package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
)

type fakeRecorder struct {
	events []model.TradeEvent
	err    error
	lastN  int
}

func (r *fakeRecorder) Last(_ context.Context, n int) ([]model.TradeEvent, error) {
	r.lastN = n
	return r.events, r.err
}

func serve(t *testing.T, store Recorder) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(store).Register(router)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerReturnsLastOperations(t *testing.T) {
	store := &fakeRecorder{events: []model.TradeEvent{
		{Action: model.TradeActionSell, Amount: 2, Owned: 3},
		{Action: model.TradeActionBuy, Amount: 5, Owned: 5},
	}}

	rec := serve(t, store)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultLastN, store.lastN)

	var events []model.TradeEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, model.TradeActionSell, events[0].Action)
}

func TestHandlerReportsStoreFailure(t *testing.T) {
	rec := serve(t, &fakeRecorder{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db down")
}
