package domain_test

import (
	"testing"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to domain.EntryStatus }{
		{domain.Draft, domain.PendingApproval},
		{domain.PendingApproval, domain.Approved},
		{domain.PendingApproval, domain.Draft},
		{domain.Approved, domain.Posted},
		{domain.Posted, domain.Reversed},
	}
	for _, tr := range allowed {
		assert.True(t, domain.CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	rejected := []struct{ from, to domain.EntryStatus }{
		{domain.Draft, domain.Posted},
		{domain.Draft, domain.Approved},
		{domain.Approved, domain.Draft},
		{domain.Posted, domain.Draft},
		{domain.Reversed, domain.Posted},
		{domain.Posted, domain.Posted},
	}
	for _, tr := range rejected {
		assert.False(t, domain.CanTransition(tr.from, tr.to), "%s -> %s should be rejected", tr.from, tr.to)
	}
}

func TestCanTransitionPeriod(t *testing.T) {
	assert.True(t, domain.CanTransitionPeriod(domain.PeriodFuture, domain.PeriodOpen))
	assert.True(t, domain.CanTransitionPeriod(domain.PeriodOpen, domain.PeriodSoftClose))
	assert.True(t, domain.CanTransitionPeriod(domain.PeriodSoftClose, domain.PeriodOpen))
	assert.True(t, domain.CanTransitionPeriod(domain.PeriodClosed, domain.PeriodLocked))
	assert.False(t, domain.CanTransitionPeriod(domain.PeriodLocked, domain.PeriodOpen))
	assert.False(t, domain.CanTransitionPeriod(domain.PeriodFuture, domain.PeriodClosed))
}
