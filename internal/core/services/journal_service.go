package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/accounting"
)

// UnbalancedEntryError reports that functional-currency debits and credits of
// a line set do not match. Both totals are carried for the caller.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("%s: functional debits %s do not equal functional credits %s",
		apperrors.CodeUnbalancedEntry, e.Debits.String(), e.Credits.String())
}

func (e *UnbalancedEntryError) Code() string { return apperrors.CodeUnbalancedEntry }

func (e *UnbalancedEntryError) Unwrap() error { return apperrors.ErrBusinessRule }

// journalService implements the journal entry lifecycle: creation, approval
// workflow, posting, and reversal.
type journalService struct {
	journalRepo  portsrepo.JournalEntryRepositoryWithTx
	accountSvc   portssvc.AccountSvcFacade
	companySvc   portssvc.CompanySvcFacade
	periodSvc    portssvc.FiscalPeriodSvcFacade
	rateSvc      portssvc.ExchangeRateSvcFacade
	authzSvc     portssvc.AuthorizationSvc
}

// NewJournalService creates a new journal entry service.
func NewJournalService(
	journalRepo portsrepo.JournalEntryRepositoryWithTx,
	accountSvc portssvc.AccountSvcFacade,
	companySvc portssvc.CompanySvcFacade,
	periodSvc portssvc.FiscalPeriodSvcFacade,
	rateSvc portssvc.ExchangeRateSvcFacade,
	authzSvc portssvc.AuthorizationSvc,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
		periodSvc:   periodSvc,
		rateSvc:     rateSvc,
		authzSvc:    authzSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// resolveCompanyAndAuthorize loads the company and runs the policy engine for
// the requested action. Authorization failures come back wrapping ErrForbidden.
func (s *journalService) resolveCompanyAndAuthorize(ctx context.Context, companyID, userID, action string, resourceID string) (*domain.Company, error) {
	company, err := s.companySvc.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if s.authzSvc != nil {
		resource := domain.Resource{Type: "journal_entry", ID: resourceID}
		if _, err := s.authzSvc.Authorize(ctx, userID, company.OrganizationID, resource, action); err != nil {
			return nil, err
		}
	}
	return company, nil
}

// validateEntryBalance checks the double-entry invariant over functional amounts.
func validateEntryBalance(lines []domain.JournalEntryLine) error {
	debits, credits := accounting.FunctionalTotals(lines)
	if !debits.Equal(credits) {
		return &UnbalancedEntryError{Debits: debits, Credits: credits}
	}
	return nil
}

// buildLines turns line requests into domain lines, resolving exchange rates
// and computing functional-currency amounts. It also enforces per-line shape
// rules and line number uniqueness.
func (s *journalService) buildLines(ctx context.Context, entryID string, company *domain.Company, transactionDate time.Time, reqs []dto.CreateEntryLineRequest, userID string, now time.Time) ([]domain.JournalEntryLine, error) {
	seenNumbers := make(map[int]struct{}, len(reqs))
	lines := make([]domain.JournalEntryLine, len(reqs))

	for i, lr := range reqs {
		if lr.LineNumber <= 0 {
			return nil, fmt.Errorf("%w: line number must be positive", apperrors.ErrValidation)
		}
		if _, dup := seenNumbers[lr.LineNumber]; dup {
			return nil, apperrors.NewBusinessRuleError(apperrors.CodeDuplicateLineNumber, "line number %d appears more than once", lr.LineNumber)
		}
		seenNumbers[lr.LineNumber] = struct{}{}

		debit := decimal.Zero
		if lr.DebitAmount != nil {
			debit = *lr.DebitAmount
		}
		credit := decimal.Zero
		if lr.CreditAmount != nil {
			credit = *lr.CreditAmount
		}
		if debit.IsNegative() || credit.IsNegative() {
			return nil, fmt.Errorf("%w: amounts must not be negative on line %d", apperrors.ErrValidation, lr.LineNumber)
		}
		if debit.IsPositive() && credit.IsPositive() {
			return nil, fmt.Errorf("%w: line %d carries both a debit and a credit amount", apperrors.ErrValidation, lr.LineNumber)
		}
		if debit.IsZero() && credit.IsZero() {
			return nil, fmt.Errorf("%w: line %d carries no amount", apperrors.ErrValidation, lr.LineNumber)
		}

		rate := decimal.NewFromInt(1)
		switch {
		case lr.CurrencyCode == company.FunctionalCurrencyCode:
			// Same currency, rate stays 1 even if the caller sent one.
		case lr.ExchangeRate != nil:
			if !lr.ExchangeRate.IsPositive() {
				return nil, fmt.Errorf("%w: exchange rate must be positive on line %d", apperrors.ErrValidation, lr.LineNumber)
			}
			rate = *lr.ExchangeRate
		default:
			looked, err := s.rateSvc.GetEffectiveRate(ctx, lr.CurrencyCode, company.FunctionalCurrencyCode, transactionDate)
			if err != nil {
				return nil, fmt.Errorf("no exchange rate for %s -> %s on line %d: %w",
					lr.CurrencyCode, company.FunctionalCurrencyCode, lr.LineNumber, err)
			}
			rate = looked
		}

		lines[i] = domain.JournalEntryLine{
			LineID:                         uuid.NewString(),
			EntryID:                        entryID,
			LineNumber:                     lr.LineNumber,
			AccountID:                      lr.AccountID,
			DebitAmount:                    debit,
			CreditAmount:                   credit,
			CurrencyCode:                   lr.CurrencyCode,
			ExchangeRate:                   rate,
			FunctionalCurrencyDebitAmount:  debit.Mul(rate),
			FunctionalCurrencyCreditAmount: credit.Mul(rate),
			Memo:                           lr.Memo,
			Dimensions:                     lr.Dimensions,
			IntercompanyPartnerID:          lr.IntercompanyPartnerID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines, nil
}

// validateAccounts checks that every referenced account exists in the company,
// is active, and is postable.
func (s *journalService) validateAccounts(ctx context.Context, companyID string, lines []domain.JournalEntryLine) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accounts[id]
		if !found || acc.CompanyID != companyID {
			return apperrors.NewBusinessRuleError(apperrors.CodeAccountNotFound, "account %s does not exist in this company", id)
		}
		if !acc.IsActive {
			return apperrors.NewBusinessRuleError(apperrors.CodeAccountNotActive, "account %s (%s) is not active", acc.AccountNumber, id)
		}
		if !acc.IsPostable {
			return apperrors.NewBusinessRuleError(apperrors.CodeAccountNotPostable, "account %s (%s) is a summary account and cannot be posted to", acc.AccountNumber, id)
		}
	}
	return nil
}

// isMultiCurrency reports whether the line currencies span more than one code.
func isMultiCurrency(lines []domain.JournalEntryLine) bool {
	var first string
	for i, line := range lines {
		if i == 0 {
			first = line.CurrencyCode
			continue
		}
		if line.CurrencyCode != first {
			return true
		}
	}
	return false
}

// CreateEntry validates and persists a new draft journal entry with its lines.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.resolveCompanyAndAuthorize(ctx, companyID, creatorUserID, "journal_entry:create", "")
	if err != nil {
		return nil, err
	}

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: a journal entry needs at least one line", apperrors.ErrValidation)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	periodRef := domain.FiscalPeriodRef{Year: req.FiscalYear, Period: req.FiscalPeriod}
	if err := s.periodSvc.EnsurePeriodOpen(ctx, companyID, periodRef); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := s.buildLines(ctx, entryID, company, req.TransactionDate, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	if err := s.validateAccounts(ctx, companyID, lines); err != nil {
		return nil, err
	}
	if err := validateEntryBalance(lines); err != nil {
		return nil, err
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, companyID, req.FiscalYear)
	if err != nil {
		logger.Error("Failed to allocate entry number", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.EntryStandard
	}
	sourceModule := req.SourceModule
	if sourceModule == "" {
		sourceModule = "GL"
	}

	entry := domain.JournalEntry{
		EntryID:         entryID,
		CompanyID:       companyID,
		EntryNumber:     entryNumber,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
		DocumentDate:    req.DocumentDate,
		FiscalPeriod:    periodRef,
		EntryType:       entryType,
		SourceModule:    sourceModule,
		IsMultiCurrency: isMultiCurrency(lines),
		Status:          domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entryID), slog.String("entry_number", entryNumber))
	entry.Lines = lines
	return &entry, nil
}

// fetchScopedEntry loads an entry and obscures cross-company IDs as not found.
func (s *journalService) fetchScopedEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, requestingUserID, "journal_entry:read", entryID); err != nil {
		return nil, err
	}

	entry, err := s.fetchScopedEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for a company.
func (s *journalService) ListEntries(ctx context.Context, companyID string, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, userID, "journal_entry:read", ""); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	var linesByEntry map[string][]domain.JournalEntryLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, e := range entries {
			entryIDs[i] = e.EntryID
		}
		linesByEntry, err = s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			logger.Warn("Failed to fetch lines for entries", slog.String("error", err.Error()))
			// Continue without lines rather than failing the whole request.
		}
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		if linesByEntry != nil {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// UpdateEntry updates a draft entry; a non-nil line set replaces all lines and
// re-runs account, period, and balance validation.
func (s *journalService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.resolveCompanyAndAuthorize(ctx, companyID, requestingUserID, "journal_entry:update", entryID)
	if err != nil {
		return nil, err
	}

	entry, err := s.fetchScopedEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		// The entry exists but is past editing; this is a state conflict, not
		// a validation failure.
		return nil, fmt.Errorf("%w: entry %s has status %s, only drafts can be updated", apperrors.ErrConflict, entryID, entry.Status)
	}

	now := time.Now().UTC()
	if req.ReferenceNumber != nil {
		entry.ReferenceNumber = *req.ReferenceNumber
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.TransactionDate != nil {
		entry.TransactionDate = *req.TransactionDate
	}
	if req.DocumentDate != nil {
		entry.DocumentDate = req.DocumentDate
	}

	var newLines []domain.JournalEntryLine
	if req.Lines != nil {
		newLines, err = s.buildLines(ctx, entryID, company, entry.TransactionDate, *req.Lines, requestingUserID, now)
		if err != nil {
			return nil, err
		}
		if err := s.validateAccounts(ctx, companyID, newLines); err != nil {
			return nil, err
		}
		if err := validateEntryBalance(newLines); err != nil {
			return nil, err
		}
		entry.IsMultiCurrency = isMultiCurrency(newLines)
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.UpdateEntry(ctx, *entry, newLines); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID))
	entry.Lines = newLines
	return entry, nil
}

// transition moves an entry between lifecycle statuses after checking the table.
func (s *journalService) transition(ctx context.Context, companyID, entryID, userID, action string, target domain.EntryStatus, reason string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, userID, action, entryID); err != nil {
		return nil, err
	}

	entry, err := s.fetchScopedEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(entry.Status, target) {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeInvalidStatusTransition,
			"cannot move entry %s from %s to %s", entryID, entry.Status, target)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, target, reason, userID, now); err != nil {
		logger.Error("Failed to update entry status", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry status: %w", err)
	}

	entry.Status = target
	entry.RejectionReason = reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	logger.Info("Journal entry status changed", slog.String("entry_id", entryID), slog.String("status", string(target)))
	return entry, nil
}

// SubmitEntry moves a draft entry to pending approval.
func (s *journalService) SubmitEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, companyID, entryID, userID, "journal_entry:submit", domain.PendingApproval, "")
}

// ApproveEntry approves a pending entry.
func (s *journalService) ApproveEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, companyID, entryID, userID, "journal_entry:approve", domain.Approved, "")
}

// RejectEntry sends a pending entry back to draft.
func (s *journalService) RejectEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, companyID, entryID, userID, "journal_entry:reject", domain.Draft, reason)
}

// PostEntry posts an approved entry. The fiscal period is re-checked because
// it may have closed between approval and posting.
func (s *journalService) PostEntry(ctx context.Context, companyID string, entryID string, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, userID, "journal_entry:post", entryID); err != nil {
		return nil, err
	}

	entry, err := s.fetchScopedEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(entry.Status, domain.Posted) {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeInvalidStatusTransition,
			"cannot post entry %s with status %s", entryID, entry.Status)
	}
	if err := s.periodSvc.EnsurePeriodOpen(ctx, companyID, entry.FiscalPeriod); err != nil {
		return nil, err
	}

	postingDate := entry.TransactionDate
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}
	now := time.Now().UTC()

	if err := s.journalRepo.MarkEntryPosted(ctx, entryID, postingDate, userID, now); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	entry.Status = domain.Posted
	entry.PostingDate = &postingDate
	entry.PostedBy = &userID
	entry.PostedAt = &now
	middleware.RecordEntryPosted()
	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// reverseLines builds the negating line set: same accounts, memos, dimensions,
// and rates, with debit and credit amounts swapped. Line numbers restart at 1.
func reverseLines(reversalEntryID string, original []domain.JournalEntryLine, userID string, now time.Time) []domain.JournalEntryLine {
	reversed := make([]domain.JournalEntryLine, len(original))
	for i, line := range original {
		reversed[i] = domain.JournalEntryLine{
			LineID:                         uuid.NewString(),
			EntryID:                        reversalEntryID,
			LineNumber:                     i + 1,
			AccountID:                      line.AccountID,
			DebitAmount:                    line.CreditAmount,
			CreditAmount:                   line.DebitAmount,
			CurrencyCode:                   line.CurrencyCode,
			ExchangeRate:                   line.ExchangeRate,
			FunctionalCurrencyDebitAmount:  line.FunctionalCurrencyCreditAmount,
			FunctionalCurrencyCreditAmount: line.FunctionalCurrencyDebitAmount,
			Memo:                           line.Memo,
			Dimensions:                     line.Dimensions,
			IntercompanyPartnerID:          line.IntercompanyPartnerID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return reversed
}

// ReverseEntry creates and posts the reversal of a posted entry, linking the
// two entries both ways. An entry can be reversed at most once.
func (s *journalService) ReverseEntry(ctx context.Context, companyID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, userID, "journal_entry:reverse", entryID); err != nil {
		return nil, err
	}

	original, err := s.fetchScopedEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(original.Status, domain.Reversed) {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeInvalidStatusTransition,
			"cannot reverse entry %s with status %s", entryID, original.Status)
	}
	if original.ReversingEntryID != nil {
		return nil, apperrors.NewBusinessRuleError(apperrors.CodeAlreadyReversed,
			"entry %s has already been reversed by %s", entryID, *original.ReversingEntryID)
	}
	if err := s.periodSvc.EnsurePeriodOpen(ctx, companyID, original.FiscalPeriod); err != nil {
		return nil, err
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines of entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversalDate := original.TransactionDate
	if req.ReversalDate != nil {
		reversalDate = *req.ReversalDate
	}
	description := fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description)
	if req.Description != nil {
		description = *req.Description
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, companyID, original.FiscalPeriod.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number for reversal: %w", err)
	}

	reversalID := uuid.NewString()
	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		CompanyID:       companyID,
		EntryNumber:     entryNumber,
		ReferenceNumber: original.ReferenceNumber,
		Description:     description,
		TransactionDate: reversalDate,
		FiscalPeriod:    original.FiscalPeriod,
		EntryType:       domain.EntryReversing,
		SourceModule:    original.SourceModule,
		IsMultiCurrency: original.IsMultiCurrency,
		Status:          domain.Posted, // Reversals are posted atomically, never drafted.
		IsReversing:     true,
		ReversedEntryID: &original.EntryID,
		PostingDate:     &reversalDate,
		PostedBy:        &userID,
		PostedAt:        &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	reversalLines := reverseLines(reversalID, originalLines, userID, now)

	if err := s.journalRepo.SaveReversal(ctx, original.EntryID, reversal, reversalLines); err != nil {
		if errors.Is(err, apperrors.ErrBusinessRule) {
			// A concurrent reversal won the link update.
			return nil, err
		}
		logger.Error("Failed to save reversal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	middleware.RecordEntryPosted()
	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversalID))
	reversal.Lines = reversalLines
	return &reversal, nil
}

// DeleteEntry deletes a draft entry and cascades its lines.
func (s *journalService) DeleteEntry(ctx context.Context, companyID string, entryID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, userID, "journal_entry:delete", entryID); err != nil {
		return err
	}

	entry, err := s.fetchScopedEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry %s has status %s, only drafts can be deleted", apperrors.ErrConflict, entryID, entry.Status)
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

// ListLinesByAccount retrieves lines hitting a specific account.
func (s *journalService) ListLinesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if _, err := s.resolveCompanyAndAuthorize(ctx, companyID, userID, "journal_entry:read", ""); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, companyID, accountID, limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve lines: %w", err)
	}

	return &dto.ListLinesResponse{Lines: dto.ToEntryLineResponses(lines), NextToken: nextToken}, nil
}
