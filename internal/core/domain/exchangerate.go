package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a dated conversion rate between two currencies, used to
// default a journal entry line's rate when the caller does not supply one.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	AuditFields
}
