package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

type PgxJournalEntryRepository struct {
	BaseRepository
}

// newPgxJournalEntryRepository creates a new repository for journal entry data.
func newPgxJournalEntryRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepositoryWithTx {
	return &PgxJournalEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalEntryRepositoryWithTx = (*PgxJournalEntryRepository)(nil)

const journalEntryColumns = `
	entry_id, company_id, entry_number, reference_number, description,
	transaction_date, document_date, fiscal_year, fiscal_period,
	entry_type, source_module, is_multi_currency, status, is_reversing,
	reversed_entry_id, reversing_entry_id, rejection_reason,
	posting_date, posted_by, posted_at,
	created_at, created_by, last_updated_at, last_updated_by
`

const journalEntryLineColumns = `
	line_id, entry_id, line_number, account_id,
	debit_amount, credit_amount, currency_code, exchange_rate,
	functional_debit_amount, functional_credit_amount,
	memo, dimensions, intercompany_partner_id, matching_line_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanJournalEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryNumber,
		&m.ReferenceNumber,
		&m.Description,
		&m.TransactionDate,
		&m.DocumentDate,
		&m.FiscalYear,
		&m.FiscalPeriod,
		&m.EntryType,
		&m.SourceModule,
		&m.IsMultiCurrency,
		&m.Status,
		&m.IsReversing,
		&m.ReversedEntryID,
		&m.ReversingEntryID,
		&m.RejectionReason,
		&m.PostingDate,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanJournalEntryLine(row pgx.Row) (*models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.LineNumber,
		&m.AccountID,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.FunctionalCurrencyDebitAmount,
		&m.FunctionalCurrencyCreditAmount,
		&m.Memo,
		&m.Dimensions,
		&m.IntercompanyPartnerID,
		&m.MatchingLineID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	return &entry, nil
}

func (r *PgxJournalEntryRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE company_id = $1`
	args := []any{companyID}
	argPos := 2

	if !includeReversals {
		query += ` AND is_reversing = FALSE`
	}

	if nextToken != nil && *nextToken != "" {
		txnDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		// Tuple comparison keeps the cursor stable across entries sharing a
		// transaction date.
		query += fmt.Sprintf(` AND (transaction_date, created_at) < ($%d, $%d)`, argPos, argPos+1)
		args = append(args, txnDate, createdAt)
		argPos += 2
	}

	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, created_at DESC LIMIT $%d;`, argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journal entries for company "+companyID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}

func insertEntryTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID, m.CompanyID, m.EntryNumber, m.ReferenceNumber, m.Description,
		m.TransactionDate, m.DocumentDate, m.FiscalYear, m.FiscalPeriod,
		m.EntryType, m.SourceModule, m.IsMultiCurrency, m.Status, m.IsReversing,
		m.ReversedEntryID, m.ReversingEntryID, m.RejectionReason,
		m.PostingDate, m.PostedBy, m.PostedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

func insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_entry_lines (` + journalEntryLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalEntryLine(line)
		batch.Queue(query,
			m.LineID, m.EntryID, m.LineNumber, m.AccountID,
			m.DebitAmount, m.CreditAmount, m.CurrencyCode, m.ExchangeRate,
			m.FunctionalCurrencyDebitAmount, m.FunctionalCurrencyCreditAmount,
			m.Memo, m.Dimensions, m.IntercompanyPartnerID, m.MatchingLineID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (r *PgxJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}
	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines of entry "+entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET reference_number = $2,
		    description = $3,
		    transaction_date = $4,
		    document_date = $5,
		    fiscal_year = $6,
		    fiscal_period = $7,
		    is_multi_currency = $8,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.EntryID,
		m.ReferenceNumber,
		m.Description,
		m.TransactionDate,
		m.DocumentDate,
		m.FiscalYear,
		m.FiscalPeriod,
		m.IsMultiCurrency,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal entry "+m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if lines != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return apperrors.NewAppError(500, "failed to clear lines of entry "+m.EntryID, err)
		}
		if err := insertLinesTx(ctx, tx, lines); err != nil {
			return apperrors.NewAppError(500, "failed to insert lines of entry "+m.EntryID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, rejectionReason string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
		    rejection_reason = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), rejectionReason, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, postingDate time.Time, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
		    posting_date = $3,
		    posted_by = $4,
		    posted_at = $5,
		    last_updated_at = $5,
		    last_updated_by = $4
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(domain.Posted), postingDate, postedBy, postedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry "+entryID+" posted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalEntryRepository) SaveReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, mapping.ToModelJournalEntry(reversal)); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert reversal entry "+reversal.EntryID, err)
	}
	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines of reversal "+reversal.EntryID, err)
	}

	// The status and reversing_entry_id guards make concurrent reversals of
	// the same entry race safely: only one link UPDATE can match, and the
	// loser's transaction rolls back its reversal entry.
	linkQuery := `
		UPDATE journal_entries
		SET status = $2,
		    reversing_entry_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1
		  AND status = $6
		  AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, linkQuery,
		originalEntryID,
		string(domain.Reversed),
		reversal.EntryID,
		reversal.CreatedAt,
		reversal.CreatedBy,
		string(domain.Posted),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link reversal to entry "+originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewBusinessRuleError(apperrors.CodeAlreadyReversed,
			"entry %s is no longer POSTED or was reversed concurrently", originalEntryID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	// Lines are removed by the ON DELETE CASCADE constraint.
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalEntryRepository) NextEntryNumber(ctx context.Context, companyID string, fiscalYear int) (string, error) {
	// The upsert takes a row lock on the sequence row, so concurrent callers
	// are serialized by the database and never see the same value.
	query := `
		INSERT INTO entry_number_sequences (company_id, fiscal_year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, fiscal_year)
		DO UPDATE SET last_value = entry_number_sequences.last_value + 1
		RETURNING last_value;
	`
	var n int64
	if err := r.Pool.QueryRow(ctx, query, companyID, fiscalYear).Scan(&n); err != nil {
		return "", apperrors.NewAppError(500, "failed to allocate entry number for company "+companyID, err)
	}
	return fmt.Sprintf("JE-%d-%06d", fiscalYear, n), nil
}

func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + journalEntryLineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_number;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines of entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		m, err := scanJournalEntryLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry line row", err)
		}
		lines = append(lines, mapping.ToDomainJournalEntryLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry line rows", err)
	}
	return lines, nil
}

func (r *PgxJournalEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryLine{}, nil
	}

	query := `SELECT ` + journalEntryLineColumns + ` FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_number;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines by entry IDs", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for rows.Next() {
		m, err := scanJournalEntryLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry line row", err)
		}
		grouped[m.EntryID] = append(grouped[m.EntryID], mapping.ToDomainJournalEntryLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry line rows", err)
	}
	return grouped, nil
}

func (r *PgxJournalEntryRepository) ListLinesByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT l.line_id, l.entry_id, l.line_number, l.account_id,
		       l.debit_amount, l.credit_amount, l.currency_code, l.exchange_rate,
		       l.functional_debit_amount, l.functional_credit_amount,
		       l.memo, l.dimensions, l.intercompany_partner_id, l.matching_line_id,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND l.account_id = $2
	`
	args := []any{companyID, accountID}
	argPos := 3

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(` AND (l.created_at, l.line_id) < ($%d, $%d)`, argPos, argPos+1)
		args = append(args, createdAt, fields[1])
		argPos += 2
	}

	query += fmt.Sprintf(` ORDER BY l.created_at DESC, l.line_id DESC LIMIT $%d;`, argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		m, err := scanJournalEntryLine(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry line row", err)
		}
		lines = append(lines, mapping.ToDomainJournalEntryLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry line rows", err)
	}

	var newNextToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.LineID)
		newNextToken = &token
	}
	return lines, newNextToken, nil
}
