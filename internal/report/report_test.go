package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/odinbot/internal/market"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func shanghai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return loc
}

func sampleSnapshot() *market.TokenSnapshot {
	return &market.TokenSnapshot{
		Name:        "Test Token",
		Ticker:      "TEST",
		Bonded:      true,
		CreatedTime: "2025-03-01T08:30:00.123Z",
		HolderCount: 1234567,
		HolderDev:   dec("10"),
		TotalSupply: dec("1000"),
		BuyCount:    5678,
		SellCount:   910,
		Price:       dec("1000000"),
		MarketCap:   dec("100000000000000"),
		Price5m:     dec("1000000"),
		Price1h:     dec("500000"),
		Price6h:     dec("0"),
		Price1d:     dec("2000000"),
		Twitter:     "https://x.com/test",
	}
}

func TestDerive_Scenario(t *testing.T) {
	loc := shanghai(t)
	now := time.Date(2025, 3, 3, 11, 45, 0, 0, time.UTC)

	r, err := Derive(sampleSnapshot(), 83000, now, loc)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, r.PriceSats, 1e-9)
	assert.InDelta(t, 0.83, r.PriceQuote, 1e-12)
	assert.InDelta(t, 1000.0, r.MarketCapBase, 1e-9)
	assert.InDelta(t, 83_000_000.0, r.MarketCapQuote, 1e-6)
	assert.InDelta(t, 1.0, r.DevPercent, 1e-12)

	assert.InDelta(t, 0.0, r.Change5m, 0)
	assert.InDelta(t, 100.0, r.Change1h, 1e-9)
	assert.InDelta(t, 0.0, r.Change6h, 0)
	assert.InDelta(t, -50.0, r.Change1d, 1e-9)

	assert.Equal(t, 2, r.RunningDays)
	assert.Equal(t, 3, r.RunningHours)
	assert.Equal(t, "2025-03-01 16:30", r.CreatedAt.Format(createdLayout))
	assert.Equal(t, loc, r.CreatedAt.Location())
}

func TestDerive_IsDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 3, 11, 45, 0, 0, time.UTC)
	a, err := Derive(sampleSnapshot(), 97000.5, now, time.UTC)
	require.NoError(t, err)
	b, err := Derive(sampleSnapshot(), 97000.5, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDerive_Errors(t *testing.T) {
	now := time.Now()

	snap := sampleSnapshot()
	snap.TotalSupply = decimal.Zero
	_, err := Derive(snap, 83000, now, time.UTC)
	require.ErrorIs(t, err, ErrZeroTotalSupply)

	snap = sampleSnapshot()
	snap.CreatedTime = "yesterday"
	_, err = Derive(snap, 83000, now, time.UTC)
	require.ErrorIs(t, err, ErrMalformedTimestamp)
	require.ErrorIs(t, err, market.ErrMalformedResponse)

	_, err = Derive(nil, 83000, now, time.UTC)
	require.Error(t, err)
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		historical string
		want       float64
	}{
		{"zero history", "1000", "0", 0},
		{"unchanged", "1000", "1000", 0},
		{"doubled", "1000", "500", 100},
		{"halved", "500", "1000", -50},
		{"small move", "1001", "1000", 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ChangePercent(dec(tt.current), dec(tt.historical)), 1e-9)
		})
	}
}

func TestElapsed(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		name      string
		now       time.Time
		wantDays  int
		wantHours int
	}{
		{"same instant", created, 0, 0},
		{"59 minutes", created.Add(59 * time.Minute), 0, 0},
		{"one hour", created.Add(time.Hour), 0, 1},
		{"hour boundary truncates", created.Add(25*time.Hour + 59*time.Minute), 1, 1},
		{"many days", created.Add(40*24*time.Hour + 23*time.Hour), 40, 23},
		{"future creation", created.Add(-time.Hour), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, hours := Elapsed(created, tt.now)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantHours, hours)
		})
	}
}

func TestParseCreatedTime(t *testing.T) {
	got, err := ParseCreatedTime("2025-03-01T08:30:00.123456Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 30, 0, 123456000, time.UTC), got)

	_, err = ParseCreatedTime("2025-03-01 08:30")
	require.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestFormat(t *testing.T) {
	now := time.Date(2025, 3, 3, 11, 45, 0, 0, time.UTC)
	r, err := Derive(sampleSnapshot(), 83000, now, shanghai(t))
	require.NoError(t, err)

	out := Format(r)

	for _, want := range []string{
		"• Name: Test Token (TEST)",
		"• Status: ✅ Bonded",
		"• Created: 2025-03-01 16:30",
		"• Running: 2 day(s) 3 hour(s)",
		"• Holders: 1,234,567",
		"• Dev🥷 share: 1.00%",
		"• Price: 1000.00 sats ($0.8300)",
		"• Market cap: $83,000,000.00",
		"• Buys🟢: 5,678",
		"• Sells🔴: 910",
		"• 5m: +0.00%",
		"• 1h: +100.00%",
		"• 6h: +0.00%",
		"• 24h: -50.00%",
		"🔗 Links\n• Twitter: https://x.com/test",
	} {
		assert.Contains(t, out, want)
	}

	assert.NotContains(t, out, "• Telegram:")
	assert.NotContains(t, out, "• Website:")

	order := []string{"🔍 Token Info", "📝 Basic Info", "💰 Price", "📊 Trades", "📈 Price Change", "🔗 Links"}
	last := -1
	for _, section := range order {
		idx := strings.Index(out, section)
		require.Greater(t, idx, last, section)
		last = idx
	}
}

func TestFormat_NoLinks(t *testing.T) {
	r := &DerivedReport{Name: "N", Ticker: "T", CreatedAt: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)}

	out := Format(r)

	assert.Contains(t, out, "• Status: ⏳ Not bonded")
	assert.NotContains(t, out, "🔗")
	assert.True(t, strings.HasSuffix(out, "• 24h: +0.00%"))
}
