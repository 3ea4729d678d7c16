package market

import (
	"github.com/shopspring/decimal"
)

// TokenSnapshot is the token payload returned by the token endpoint.
// Raw amounts are in the API's minor units and are kept exact.
type TokenSnapshot struct {
	Name        string `json:"name"         validate:"required"`
	Ticker      string `json:"ticker"       validate:"required"`
	Bonded      bool   `json:"bonded"`
	CreatedTime string `json:"created_time" validate:"required"`

	HolderCount int64           `json:"holder_count" validate:"gte=0"`
	HolderDev   decimal.Decimal `json:"holder_dev"`
	TotalSupply decimal.Decimal `json:"total_supply"`
	BuyCount    int64           `json:"buy_count"  validate:"gte=0"`
	SellCount   int64           `json:"sell_count" validate:"gte=0"`

	Price     decimal.Decimal `json:"price"`
	MarketCap decimal.Decimal `json:"marketcap"`
	Price5m   decimal.Decimal `json:"price_5m"`
	Price1h   decimal.Decimal `json:"price_1h"`
	Price6h   decimal.Decimal `json:"price_6h"`
	Price1d   decimal.Decimal `json:"price_1d"`

	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
	Website  string `json:"website"`
}

// referencePriceResponse is {"<asset>": {"<quote>": price}}.
type referencePriceResponse map[string]map[string]float64
