package dto

import (
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportPeriodParams identifies the fiscal window of a report request.
type ReportPeriodParams struct {
	Year       int  `form:"year" binding:"required"`
	Period     int  `form:"period" binding:"required,gte=1,lte=13"`
	FromYear   *int `form:"fromYear"`
	FromPeriod *int `form:"fromPeriod"`
}

// TrialBalanceResponse wraps trial balance rows with their grand totals.
type TrialBalanceResponse struct {
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}

// NewTrialBalanceResponse builds the response, summing the row totals.
func NewTrialBalanceResponse(rows []domain.TrialBalanceRow) TrialBalanceResponse {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}
	return TrialBalanceResponse{Rows: rows, TotalDebit: totalDebit, TotalCredit: totalCredit}
}
