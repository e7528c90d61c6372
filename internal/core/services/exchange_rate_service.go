package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// exchangeRateService manages dated conversion rates between currencies.
type exchangeRateService struct {
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{rateRepo: rateRepo, currencyRepo: currencyRepo}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateRate persists a new exchange rate after checking both currencies exist.
func (s *exchangeRateService) CreateRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from := strings.ToUpper(req.FromCurrencyCode)
	to := strings.ToUpper(req.ToCurrencyCode)
	if from == to {
		return nil, fmt.Errorf("%w: from and to currencies must differ", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	for _, code := range []string{from, to} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown currency code %s", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to look up currency: %w", err)
		}
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		EffectiveDate:    req.EffectiveDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveRate(ctx, rate); err != nil {
		logger.Error("Failed to save exchange rate", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	logger.Info("Exchange rate created", slog.String("from", from), slog.String("to", to), slog.String("rate", req.Rate.String()))
	return &rate, nil
}

// GetEffectiveRate returns the conversion rate between two currencies on a
// date. Identical currencies yield 1; otherwise the latest stored rate
// effective on or before the date is used, falling back to the inverse pair.
func (s *exchangeRateService) GetEffectiveRate(ctx context.Context, fromCode, toCode string, onDate time.Time) (decimal.Decimal, error) {
	from := strings.ToUpper(fromCode)
	to := strings.ToUpper(toCode)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindRate(ctx, from, to, onDate)
	if err == nil {
		return rate.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate: %w", err)
	}

	inverse, err := s.rateRepo.FindRate(ctx, to, from, onDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: no exchange rate for %s to %s on %s", apperrors.ErrNotFound, from, to, onDate.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate: %w", err)
	}
	if inverse.Rate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: stored rate for %s to %s is zero", apperrors.ErrInternal, to, from)
	}
	return decimal.NewFromInt(1).Div(inverse.Rate), nil
}

// ListRates retrieves the stored rates for a currency pair.
func (s *exchangeRateService) ListRates(ctx context.Context, fromCode, toCode string) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListRates(ctx, strings.ToUpper(fromCode), strings.ToUpper(toCode))
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}
