package services

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencySvcFacade defines operations for currency reference data.
type CurrencySvcFacade interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a currency by ISO code.
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ExchangeRateSvcFacade defines operations for exchange rates.
type ExchangeRateSvcFacade interface {
	// CreateRate persists a new exchange rate.
	CreateRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// GetEffectiveRate returns the conversion rate between two currencies on a
	// date. Identical currencies yield 1.
	GetEffectiveRate(ctx context.Context, fromCode, toCode string, onDate time.Time) (decimal.Decimal, error)

	// ListRates retrieves the stored rates for a currency pair.
	ListRates(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error)
}
