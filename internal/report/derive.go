// Package report turns a token snapshot into display metrics and renders the
// reply text sent back to the chat.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgard/odinbot/internal/market"
)

var (
	// ErrZeroTotalSupply is returned when the dev share cannot be computed.
	ErrZeroTotalSupply = errors.New("token total supply is zero")

	// ErrMalformedTimestamp wraps market.ErrMalformedResponse for an unparsable created_time.
	ErrMalformedTimestamp = fmt.Errorf("%w: invalid created_time", market.ErrMalformedResponse)
)

// Raw API units. Prices are thousandths of a sat and market caps are 1e-11 of the base asset.
var (
	priceDivisor     = decimal.NewFromInt(1000)
	marketCapDivisor = decimal.New(1, 11)
	satsToBase       = decimal.New(1, -8)
	hundred          = decimal.NewFromInt(100)
)

// DerivedReport holds the computed metrics and the snapshot metadata shown in a report.
type DerivedReport struct {
	Name   string
	Ticker string
	Bonded bool

	CreatedAt    time.Time
	RunningDays  int
	RunningHours int

	Holders    int64
	DevPercent float64

	PriceSats      float64
	PriceQuote     float64
	MarketCapBase  float64
	MarketCapQuote float64

	Buys  int64
	Sells int64

	Change5m float64
	Change1h float64
	Change6h float64
	Change1d float64

	Twitter  string
	Telegram string
	Website  string
}

// Derive computes the report for snap at the given reference price. now and loc
// are injected so the result depends only on its arguments.
func Derive(snap *market.TokenSnapshot, refPrice float64, now time.Time, loc *time.Location) (*DerivedReport, error) {
	if snap == nil {
		return nil, errors.New("token snapshot is nil")
	}
	if snap.TotalSupply.IsZero() {
		return nil, ErrZeroTotalSupply
	}
	if loc == nil {
		loc = time.UTC
	}

	created, err := ParseCreatedTime(snap.CreatedTime)
	if err != nil {
		return nil, err
	}
	days, hours := Elapsed(created, now)

	ref := decimal.NewFromFloat(refPrice)
	priceSats := snap.Price.Div(priceDivisor)
	marketCapBase := snap.MarketCap.Div(marketCapDivisor)

	return &DerivedReport{
		Name:   snap.Name,
		Ticker: snap.Ticker,
		Bonded: snap.Bonded,

		CreatedAt:    created.In(loc),
		RunningDays:  days,
		RunningHours: hours,

		Holders:    snap.HolderCount,
		DevPercent: snap.HolderDev.Div(snap.TotalSupply).Mul(hundred).InexactFloat64(),

		PriceSats:      priceSats.InexactFloat64(),
		PriceQuote:     priceSats.Mul(satsToBase).Mul(ref).InexactFloat64(),
		MarketCapBase:  marketCapBase.InexactFloat64(),
		MarketCapQuote: marketCapBase.Mul(ref).InexactFloat64(),

		Buys:  snap.BuyCount,
		Sells: snap.SellCount,

		Change5m: ChangePercent(priceSats, snap.Price5m.Div(priceDivisor)),
		Change1h: ChangePercent(priceSats, snap.Price1h.Div(priceDivisor)),
		Change6h: ChangePercent(priceSats, snap.Price6h.Div(priceDivisor)),
		Change1d: ChangePercent(priceSats, snap.Price1d.Div(priceDivisor)),

		Twitter:  snap.Twitter,
		Telegram: snap.Telegram,
		Website:  snap.Website,
	}, nil
}

// ChangePercent returns the percentage change from historical to current.
// A zero historical price yields exactly 0.
func ChangePercent(current, historical decimal.Decimal) float64 {
	if historical.IsZero() {
		return 0
	}
	return current.Sub(historical).Div(historical).Mul(hundred).InexactFloat64()
}

// Elapsed splits now-created into whole days and the whole hours left over.
// A creation time after now counts as no elapsed time.
func Elapsed(created, now time.Time) (days, hours int) {
	d := now.Sub(created)
	if d <= 0 {
		return 0, 0
	}
	const day = 24 * time.Hour
	return int(d / day), int((d % day) / time.Hour)
}

// ParseCreatedTime parses an RFC 3339 timestamp such as 2025-03-01T08:30:00.123Z.
func ParseCreatedTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrMalformedTimestamp, s, err)
	}
	return t.UTC(), nil
}
