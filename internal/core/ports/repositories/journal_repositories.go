package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry data
type JournalEntryReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByCompany retrieves a paginated list of entries for a company using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entry data
type JournalEntryWriter interface {
	// SaveEntry persists an entry together with its lines in a single database transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateEntry updates the mutable header fields and, when lines is non-nil,
	// replaces the entire line set, all in one database transaction.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateEntryStatus advances an entry's lifecycle status.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, rejectionReason string, updatedBy string, updatedAt time.Time) error

	// MarkEntryPosted records the posting fields along with the status change.
	MarkEntryPosted(ctx context.Context, entryID string, postingDate time.Time, postedBy string, postedAt time.Time) error

	// SaveReversal persists the reversal entry with its lines and links the
	// original entry to it (status -> REVERSED) atomically. Implementations
	// must fail with an ALREADY_REVERSED rule error if the original is no
	// longer POSTED or already carries a reversal link.
	SaveReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine) error

	// DeleteEntry removes a draft entry and cascades its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// NextEntryNumber returns the next sequential entry number for a company and
	// fiscal year. Implementations must serialize concurrent callers so numbers
	// are never duplicated.
	NextEntryNumber(ctx context.Context, companyID string, fiscalYear int) (string, error)
}

// JournalEntryLineReader defines read operations for journal entry lines
type JournalEntryLineReader interface {
	// FindLinesByEntryID retrieves all lines of one entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// ListLinesByAccountID retrieves a paginated list of lines hitting one account.
	ListLinesByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error)
}

// JournalEntryRepositoryFacade combines all journal-entry-related repository interfaces
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	JournalEntryLineReader
}

// JournalEntryRepositoryWithTx extends JournalEntryRepositoryFacade with transaction capabilities
type JournalEntryRepositoryWithTx interface {
	JournalEntryRepositoryFacade
	TransactionManager
}
