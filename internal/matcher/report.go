package matcher

import "conciliador/internal/domain"

// BuildReport partitions processed entries into corrected and unmatched
// sequences, preserving original order within each partition, and attaches
// the unparsed ledger rows collected during normalization.
func BuildReport(entries []domain.JournalEntry, unparsed []domain.UnparsedRow) *domain.CorrectionReport {
	report := &domain.CorrectionReport{
		CorrectedEntries:   make([]domain.JournalEntry, 0, len(entries)),
		UnmatchedEntries:   make([]domain.JournalEntry, 0),
		UnparsedLedgerRows: unparsed,
	}
	if report.UnparsedLedgerRows == nil {
		report.UnparsedLedgerRows = make([]domain.UnparsedRow, 0)
	}

	for _, entry := range entries {
		if entry.MatchStatus == domain.Unmatched {
			report.UnmatchedEntries = append(report.UnmatchedEntries, entry)
		} else {
			report.CorrectedEntries = append(report.CorrectedEntries, entry)
		}
	}

	return report
}
