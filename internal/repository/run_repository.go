package repository

import (
	"database/sql"
	"fmt"

	"conciliador/internal/domain"
	"conciliador/pkg/logger"
)

// RunRepository persists reconciliation runs and their reports. The engine
// itself is stateless; storage happens entirely at this layer so finished
// reports can be fetched later.
type RunRepository interface {
	CreateRun(run *domain.ReconciliationRun) error
	UpdateRun(run *domain.ReconciliationRun) error
	GetRunByID(runID string) (*domain.ReconciliationRun, error)
	SaveReport(runID string, report *domain.CorrectionReport) error
	GetReport(runID string) (*domain.CorrectionReport, error)
}

type runRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) CreateRun(run *domain.ReconciliationRun) error {
	query := `
		INSERT INTO reconciliation_runs (
			run_id, status, total_entries, total_matched, total_unmatched, total_unparsed
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		run.RunID,
		run.Status,
		run.TotalEntries,
		run.TotalMatched,
		run.TotalUnmatched,
		run.TotalUnparsed,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create reconciliation run")
		return err
	}

	return nil
}

func (r *runRepository) UpdateRun(run *domain.ReconciliationRun) error {
	query := `
		UPDATE reconciliation_runs
		SET status = $1, total_entries = $2, total_matched = $3,
			total_unmatched = $4, total_unparsed = $5, error_message = $6,
			updated_at = NOW()
		WHERE run_id = $7
	`

	_, err := r.db.Exec(
		query,
		run.Status,
		run.TotalEntries,
		run.TotalMatched,
		run.TotalUnmatched,
		run.TotalUnparsed,
		run.ErrorMessage,
		run.RunID,
	)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to update reconciliation run")
		return err
	}

	return nil
}

func (r *runRepository) GetRunByID(runID string) (*domain.ReconciliationRun, error) {
	query := `
		SELECT id, run_id, status, total_entries, total_matched, total_unmatched,
			   total_unparsed, error_message, created_at, updated_at
		FROM reconciliation_runs
		WHERE run_id = $1
	`

	var run domain.ReconciliationRun
	err := r.db.QueryRow(query, runID).Scan(
		&run.ID,
		&run.RunID,
		&run.Status,
		&run.TotalEntries,
		&run.TotalMatched,
		&run.TotalUnmatched,
		&run.TotalUnparsed,
		&run.ErrorMessage,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reconciliation run not found")
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get reconciliation run")
		return nil, err
	}

	return &run, nil
}

func (r *runRepository) SaveReport(runID string, report *domain.CorrectionReport) error {
	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	entryStmt, err := tx.Prepare(`
		INSERT INTO journal_corrections (
			run_id, position, partition, kind, transaction_type, voucher_key,
			amount, original_account_code, corrected_account_code,
			match_status, ambiguous_match, raw_row_index
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer entryStmt.Close()

	insertEntries := func(partition string, entries []domain.JournalEntry) error {
		for pos, e := range entries {
			_, err := entryStmt.Exec(
				runID, pos, partition, e.Kind, e.TransactionType, e.VoucherKey,
				e.Amount, e.OriginalAccountCode, e.CorrectedAccountCode,
				e.MatchStatus, e.AmbiguousMatch, e.RawRowIndex,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := insertEntries("CORRECTED", report.CorrectedEntries); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to insert corrected entries")
		return err
	}
	if err := insertEntries("UNMATCHED", report.UnmatchedEntries); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to insert unmatched entries")
		return err
	}

	unparsedStmt, err := tx.Prepare(`
		INSERT INTO unparsed_ledger_rows (run_id, position, source, raw_row_index)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer unparsedStmt.Close()

	for pos, row := range report.UnparsedLedgerRows {
		if _, err := unparsedStmt.Exec(runID, pos, row.Source, row.RawRowIndex); err != nil {
			logger.GetLogger().WithError(err).Error("Failed to insert unparsed ledger row")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *runRepository) GetReport(runID string) (*domain.CorrectionReport, error) {
	report := &domain.CorrectionReport{
		CorrectedEntries:   make([]domain.JournalEntry, 0),
		UnmatchedEntries:   make([]domain.JournalEntry, 0),
		UnparsedLedgerRows: make([]domain.UnparsedRow, 0),
	}

	query := `
		SELECT partition, kind, transaction_type, voucher_key, amount,
			   original_account_code, corrected_account_code, match_status,
			   ambiguous_match, raw_row_index
		FROM journal_corrections
		WHERE run_id = $1
		ORDER BY partition, position
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query journal corrections")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			partition string
			entry     domain.JournalEntry
		)
		err := rows.Scan(
			&partition,
			&entry.Kind,
			&entry.TransactionType,
			&entry.VoucherKey,
			&entry.Amount,
			&entry.OriginalAccountCode,
			&entry.CorrectedAccountCode,
			&entry.MatchStatus,
			&entry.AmbiguousMatch,
			&entry.RawRowIndex,
		)
		if err != nil {
			return nil, err
		}

		if partition == "UNMATCHED" {
			report.UnmatchedEntries = append(report.UnmatchedEntries, entry)
		} else {
			report.CorrectedEntries = append(report.CorrectedEntries, entry)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	unparsedQuery := `
		SELECT source, raw_row_index
		FROM unparsed_ledger_rows
		WHERE run_id = $1
		ORDER BY position
	`

	unparsedRows, err := r.db.Query(unparsedQuery, runID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query unparsed ledger rows")
		return nil, err
	}
	defer unparsedRows.Close()

	for unparsedRows.Next() {
		var row domain.UnparsedRow
		if err := unparsedRows.Scan(&row.Source, &row.RawRowIndex); err != nil {
			return nil, err
		}
		report.UnparsedLedgerRows = append(report.UnparsedLedgerRows, row)
	}
	if err := unparsedRows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
