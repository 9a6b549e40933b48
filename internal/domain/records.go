package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTable is a tabular dataset as handed over by the ingestion layer:
// already sliced to the correct sheet and header offset, one []string per
// row. The engine never sees file formats or sheet names.
type RawTable [][]string

// AccountCode is one entry of the chart of accounts.
type AccountCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// LedgerSource identifies which book a ledger record came from.
type LedgerSource string

const (
	SourceCash LedgerSource = "CASH"
	SourceBank LedgerSource = "BANK"
)

// LedgerRecord is one normalized cash/bank ledger movement. VoucherKey is
// empty when no recognizable key was found in the row's description.
// Records are immutable once created.
type LedgerRecord struct {
	Source      LedgerSource    `json:"source"`
	VoucherKey  string          `json:"voucher_key,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	RawRowIndex int             `json:"raw_row_index"`
}

// UnparsedRow points at a ledger row that produced a record without a
// voucher key, kept for auditing.
type UnparsedRow struct {
	Source      LedgerSource `json:"source" db:"source"`
	RawRowIndex int          `json:"raw_row_index" db:"raw_row_index"`
}

// JournalKind tells which journal an entry came from.
type JournalKind string

const (
	KindSale     JournalKind = "SALE"
	KindPurchase JournalKind = "PURCHASE"
)

// TransactionType is the classified nature of a journal row.
type TransactionType string

const (
	Collection TransactionType = "COLLECTION"
	Payment    TransactionType = "PAYMENT"
	Other      TransactionType = "OTHER"
)

// MatchStatus is the reconciliation outcome for one journal entry.
type MatchStatus string

const (
	MatchedCash   MatchStatus = "MATCHED_CASH"
	MatchedBank   MatchStatus = "MATCHED_BANK"
	Unmatched     MatchStatus = "UNMATCHED"
	NotApplicable MatchStatus = "NOT_APPLICABLE"
)

// JournalEntry is one classified sales/purchase journal row. The matcher
// sets CorrectedAccountCode and MatchStatus exactly once; afterwards the
// entry is an append-only result.
type JournalEntry struct {
	Kind                 JournalKind     `json:"kind" db:"kind"`
	TransactionType      TransactionType `json:"transaction_type" db:"transaction_type"`
	VoucherKey           string          `json:"voucher_key,omitempty" db:"voucher_key"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	OriginalAccountCode  string          `json:"original_account_code,omitempty" db:"original_account_code"`
	CorrectedAccountCode string          `json:"corrected_account_code,omitempty" db:"corrected_account_code"`
	MatchStatus          MatchStatus     `json:"match_status" db:"match_status"`
	AmbiguousMatch       bool            `json:"ambiguous_match,omitempty" db:"ambiguous_match"`
	RawRowIndex          int             `json:"raw_row_index" db:"raw_row_index"`
}

// Eligible reports whether the entry is a candidate for reconciliation:
// collections on the sales side, payments on the purchases side.
func (e JournalEntry) Eligible() bool {
	return (e.Kind == KindSale && e.TransactionType == Collection) ||
		(e.Kind == KindPurchase && e.TransactionType == Payment)
}

// CorrectionReport is the immutable result of one reconciliation run.
// CorrectedEntries holds everything with a MATCHED_* or NOT_APPLICABLE
// status; UnmatchedEntries everything UNMATCHED. Original row order is
// preserved within each partition.
type CorrectionReport struct {
	CorrectedEntries   []JournalEntry `json:"corrected_entries"`
	UnmatchedEntries   []JournalEntry `json:"unmatched_entries"`
	UnparsedLedgerRows []UnparsedRow  `json:"unparsed_ledger_rows"`
}

// RunStatus is the lifecycle state of a stored reconciliation run.
type RunStatus string

const (
	RunProcessing RunStatus = "PROCESSING"
	RunCompleted  RunStatus = "COMPLETED"
	RunFailed     RunStatus = "FAILED"
)

// ReconciliationRun is the persisted record of one engine invocation.
type ReconciliationRun struct {
	ID             int       `json:"id" db:"id"`
	RunID          string    `json:"run_id" db:"run_id"`
	Status         RunStatus `json:"status" db:"status"`
	TotalEntries   int       `json:"total_entries" db:"total_entries"`
	TotalMatched   int       `json:"total_matched" db:"total_matched"`
	TotalUnmatched int       `json:"total_unmatched" db:"total_unmatched"`
	TotalUnparsed  int       `json:"total_unparsed" db:"total_unparsed"`
	ErrorMessage   *string   `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RunSummary is the API-facing view of a completed run.
type RunSummary struct {
	RunID          string            `json:"run_id"`
	TotalEntries   int               `json:"total_entries"`
	TotalMatched   int               `json:"total_matched"`
	TotalUnmatched int               `json:"total_unmatched"`
	TotalUnparsed  int               `json:"total_unparsed"`
	Report         *CorrectionReport `json:"report,omitempty"`
}
