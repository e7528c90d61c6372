package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents a row in the exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	EffectiveDate    time.Time       `db:"effective_date"`
	AuditFields
}
