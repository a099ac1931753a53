package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	"github.com/arkastudio/studio_ledger/internal/core/domain"
	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and
// their line items.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, posting_date, description, source_type, source_id, document_ref, status, fiscal_period_id, is_reversing, reversed_entry_id, posted_by, created_at, created_by, last_updated_at, last_updated_by`

const insertEntryQuery = `
	INSERT INTO journal_entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
`

const insertLineQuery = `
	INSERT INTO journal_lines (line_id, entry_id, position, account_code, debit, credit, description, tax_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.PostingDate,
		&e.Description,
		&e.SourceType,
		&e.SourceID,
		&e.DocumentRef,
		&e.Status,
		&e.FiscalPeriodID,
		&e.IsReversing,
		&e.ReversedEntryID,
		&e.PostedBy,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func entryArgs(e domain.JournalEntry) []any {
	return []any{
		e.EntryID,
		e.EntryNumber,
		e.EntryDate,
		e.PostingDate,
		e.Description,
		e.SourceType,
		e.SourceID,
		e.DocumentRef,
		e.Status,
		e.FiscalPeriodID,
		e.IsReversing,
		e.ReversedEntryID,
		e.PostedBy,
		e.CreatedAt,
		e.CreatedBy,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	}
}

// SaveEntry inserts the entry header and all of its lines in one database
// transaction. Lines have no independent lifecycle.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, insertEntryQuery, entryArgs(entry)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for i, line := range entry.Lines {
		batch.Queue(insertLineQuery,
			line.LineID,
			entry.EntryID,
			i,
			line.AccountCode,
			line.Debit,
			line.Credit,
			line.Description,
			line.TaxCode,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// loadLines fetches the lines for the given entry IDs grouped by entry.
func (r *PgxJournalRepository) loadLines(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `
		SELECT line_id, entry_id, account_code, debit, credit, description, tax_code
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	byEntry := make(map[string][]domain.JournalLine)
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountCode, &l.Debit, &l.Credit, &l.Description, &l.TaxCode); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		byEntry[l.EntryID] = append(byEntry[l.EntryID], l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", rows.Err())
	}
	return byEntry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	lines, err := r.loadLines(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.FiscalPeriodID != "" {
		args = append(args, filter.FiscalPeriodID)
		query += ` AND fiscal_period_id = $` + strconv.Itoa(len(args))
	}
	if filter.SourceType != "" {
		args = append(args, filter.SourceType)
		query += ` AND source_type = $` + strconv.Itoa(len(args))
	}
	if filter.AccountCodePrefix != "" {
		args = append(args, filter.AccountCodePrefix+"%")
		query += ` AND entry_id IN (SELECT entry_id FROM journal_lines WHERE account_code LIKE $` + strconv.Itoa(len(args)) + `)`
	}
	query += ` ORDER BY entry_date, entry_number;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	entryIDs := []string{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
		entryIDs = append(entryIDs, entry.EntryID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", rows.Err())
	}

	lines, err := r.loadLines(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, nil
}

// UpdateEntry rewrites the header and replaces the line set in one database
// transaction.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET entry_number = $2, entry_date = $3, posting_date = $4, description = $5,
		    source_type = $6, source_id = $7, document_ref = $8, status = $9,
		    fiscal_period_id = $10, is_reversing = $11, reversed_entry_id = $12,
		    posted_by = $13, last_updated_at = $14, last_updated_by = $15
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.PostingDate,
		entry.Description,
		entry.SourceType,
		entry.SourceID,
		entry.DocumentRef,
		entry.Status,
		entry.FiscalPeriodID,
		entry.IsReversing,
		entry.ReversedEntryID,
		entry.PostedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entry.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return fmt.Errorf("failed to clear lines for entry %s: %w", entry.EntryID, err)
	}
	batch := &pgx.Batch{}
	for i, line := range entry.Lines {
		batch.Queue(insertLineQuery,
			line.LineID,
			entry.EntryID,
			i,
			line.AccountCode,
			line.Debit,
			line.Credit,
			line.Description,
			line.TaxCode,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to rewrite lines for entry %s: %w", entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	// journal_lines rows go with the header via ON DELETE CASCADE.
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reversed_entry_id = $1 AND status = 'POSTED';`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no reversal of entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find reversal of entry %s: %w", entryID, err)
	}

	lines, err := r.loadLines(ctx, []string{entry.EntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.EntryID]
	return &entry, nil
}

func (r *PgxJournalRepository) ListPostedLines(ctx context.Context, filter portsrepo.LineFilter) ([]domain.PostedLine, error) {
	query := `
		SELECT e.entry_id, e.entry_date, e.source_type, l.account_code, l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = 'POSTED'`
	args := []any{}

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND e.entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND e.entry_date <= $` + strconv.Itoa(len(args))
	}
	if filter.AccountCode != "" {
		args = append(args, filter.AccountCode)
		query += ` AND l.account_code = $` + strconv.Itoa(len(args))
	}
	if filter.AccountCodePrefix != "" {
		args = append(args, filter.AccountCodePrefix+"%")
		query += ` AND l.account_code LIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY e.entry_date, e.entry_id, l.account_code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.PostedLine{}
	for rows.Next() {
		var l domain.PostedLine
		if err := rows.Scan(&l.EntryID, &l.EntryDate, &l.SourceType, &l.AccountCode, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan posted line row: %w", err)
		}
		lines = append(lines, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating posted line rows: %w", rows.Err())
	}
	return lines, nil
}

func (r *PgxJournalRepository) HasPostedLinesForAccount(ctx context.Context, accountCode string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status = 'POSTED' AND l.account_code = $1
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check posted lines for account %s: %w", accountCode, err)
	}
	return exists, nil
}

// NextEntrySequence issues the next per-year entry number. The upsert makes
// the increment atomic under concurrent posting.
func (r *PgxJournalRepository) NextEntrySequence(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO entry_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = entry_sequences.last_value + 1
		RETURNING last_value;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to advance entry sequence for year %d: %w", year, err)
	}
	return next, nil
}
