package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// JournalEntryReaderSvc defines read operations for journal entry data
type JournalEntryReaderSvc interface {
	// GetEntryByID retrieves a specific entry with its lines.
	GetEntryByID(ctx context.Context, companyID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a company.
	ListEntries(ctx context.Context, companyID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves lines hitting a specific account.
	ListLinesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// JournalEntryWriterSvc defines the lifecycle operations for journal entries.
type JournalEntryWriterSvc interface {
	// CreateEntry validates and persists a new draft entry with its lines.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry updates a draft entry; a non-nil line set replaces all lines.
	UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error)

	// SubmitEntry moves a draft entry to pending approval.
	SubmitEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)

	// ApproveEntry approves a pending entry.
	ApproveEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)

	// RejectEntry sends a pending entry back to draft, recording the reason.
	RejectEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error)

	// PostEntry posts an approved entry, re-checking the fiscal period gate.
	PostEntry(ctx context.Context, companyID string, entryID string, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts the reversal of a posted entry.
	ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteEntry deletes a draft entry and its lines.
	DeleteEntry(ctx context.Context, companyID string, entryID string, userID string) error
}

// JournalSvcFacade combines all journal-entry-related service interfaces
type JournalSvcFacade interface {
	JournalEntryReaderSvc
	JournalEntryWriterSvc
}
