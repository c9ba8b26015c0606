package quotes

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompany() Company {
	return Company{
		Name:      "Divinator",
		Symbol:    "DVN",
		Price:     decimal.NewFromInt(100),
		Variation: 100,
		Period:    time.Second,
		Volume:    10000,
	}
}

func TestNewMarketDataRequiresName(t *testing.T) {
	_, err := NewMarketData(Company{}, 1)
	assert.Error(t, err)
}

func TestNewMarketDataDefaults(t *testing.T) {
	m, err := NewMarketData(Company{Name: "MacroHard"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, m.Period())

	q := m.Quote(time.Now())
	assert.Equal(t, "MacroHard", q.Name)
	assert.Equal(t, "MacroHard", q.Symbol, "symbol defaults to the name")
	assert.Equal(t, int64(10000), q.Volume)
	assert.Equal(t, int64(5000), q.Shares, "initial shares are half the volume")
	assert.True(t, q.Open.Equal(decimal.NewFromInt(100)))
}

func TestComputeKeepsPricesPositive(t *testing.T) {
	m, err := NewMarketData(testCompany(), 42)
	require.NoError(t, err)

	one := decimal.NewFromInt(1)
	for i := 0; i < 1000; i++ {
		m.Compute()
		q := m.Quote(time.Now())
		assert.True(t, q.Ask.GreaterThanOrEqual(one), "ask dropped to %s at tick %d", q.Ask, i)
		assert.True(t, q.Bid.GreaterThanOrEqual(one), "bid dropped to %s at tick %d", q.Bid, i)
		assert.True(t, q.Shares > 0 && q.Shares < q.Volume,
			"shares out of range: %d of %d", q.Shares, q.Volume)
	}
}

func TestComputeIsDeterministicPerSeed(t *testing.T) {
	a, err := NewMarketData(testCompany(), 7)
	require.NoError(t, err)
	b, err := NewMarketData(testCompany(), 7)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		a.Compute()
		b.Compute()
	}
	now := time.Now()
	assert.Equal(t, a.Quote(now), b.Quote(now))
}
