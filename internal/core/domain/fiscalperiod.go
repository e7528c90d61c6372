package domain

import "time"

// PeriodStatus is the lifecycle state of a fiscal period. Only Open permits
// unrestricted posting.
type PeriodStatus string

const (
	PeriodFuture    PeriodStatus = "FUTURE"
	PeriodOpen      PeriodStatus = "OPEN"
	PeriodSoftClose PeriodStatus = "SOFT_CLOSE"
	PeriodClosed    PeriodStatus = "CLOSED"
	PeriodLocked    PeriodStatus = "LOCKED"
)

// periodTransitions is the closed set of allowed period state changes.
// Locked is terminal; Closed may be reopened until it is locked.
var periodTransitions = map[PeriodStatus][]PeriodStatus{
	PeriodFuture:    {PeriodOpen},
	PeriodOpen:      {PeriodSoftClose, PeriodClosed},
	PeriodSoftClose: {PeriodOpen, PeriodClosed},
	PeriodClosed:    {PeriodOpen, PeriodLocked},
	PeriodLocked:    {},
}

// CanTransitionPeriod reports whether a fiscal period may move between the two statuses.
func CanTransitionPeriod(from, to PeriodStatus) bool {
	for _, next := range periodTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FiscalPeriod is a year + period-number accounting window for one company.
type FiscalPeriod struct {
	FiscalPeriodID string       `json:"fiscalPeriodID"` // Primary Key (UUID)
	CompanyID      string       `json:"companyID"`
	Year           int          `json:"year"`
	Period         int          `json:"period"` // 1..12 (13 for adjustment periods)
	Name           string       `json:"name"`   // e.g. "2026-03"
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	AuditFields
}
