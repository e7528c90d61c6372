package models

import "time"

// FiscalPeriod represents a row in the fiscal_periods table.
type FiscalPeriod struct {
	FiscalPeriodID string    `db:"fiscal_period_id"`
	CompanyID      string    `db:"company_id"`
	Year           int       `db:"year"`
	Period         int       `db:"period"`
	Name           string    `db:"name"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	Status         string    `db:"status"`
	AuditFields
}
