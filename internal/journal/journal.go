// Package journal scans raw sales/purchase journal tables and classifies
// each row as a collection, a payment, or neither.
package journal

import (
	"strings"

	"conciliador/internal/domain"
	"conciliador/internal/voucher"
)

// Config declares how to read one journal table. FlagCol points at a
// dedicated transaction-type column; set it to -1 when the journal only
// carries the type inside the description. AccountCol is the original
// account code column (-1 when absent).
type Config struct {
	Kind           domain.JournalKind
	DescriptionCol int
	FlagCol        int
	AmountCol      int
	AccountCol     int
}

// SalesDefaults matches the sales journal (A.C.) layout.
func SalesDefaults() Config {
	return Config{
		Kind:           domain.KindSale,
		DescriptionCol: 1,
		FlagCol:        -1,
		AmountCol:      2,
		AccountCol:     3,
	}
}

// PurchasesDefaults matches the purchase journal (Hoja3) layout.
func PurchasesDefaults() Config {
	return Config{
		Kind:           domain.KindPurchase,
		DescriptionCol: 1,
		FlagCol:        -1,
		AmountCol:      2,
		AccountCol:     3,
	}
}

var (
	collectionTerms = []string{"cobro", "cobranza", "collection"}
	paymentTerms    = []string{"pago", "payment"}
)

// Classify turns one raw journal table into ordered JournalEntries. Rows
// without a numeric amount are structural noise (headers repeated mid-sheet,
// subtotals) and produce no entry. Entries that are not eligible for
// reconciliation get NOT_APPLICABLE immediately; eligible entries without a
// voucher key get UNMATCHED without ever consulting the ledger indices.
// Eligible entries with a key are left for the matcher (empty MatchStatus).
func Classify(table domain.RawTable, cfg Config) []domain.JournalEntry {
	entries := make([]domain.JournalEntry, 0, len(table))

	for i, row := range table {
		amount, ok := domain.ParseAmount(cell(row, cfg.AmountCol))
		if !ok {
			continue
		}

		entry := domain.JournalEntry{
			Kind:                cfg.Kind,
			TransactionType:     classifyRow(row, cfg),
			Amount:              amount,
			OriginalAccountCode: strings.TrimSpace(cell(row, cfg.AccountCol)),
			RawRowIndex:         i,
		}

		if key, found := voucher.Extract(cell(row, cfg.DescriptionCol)); found {
			entry.VoucherKey = key
		}

		switch {
		case !entry.Eligible():
			entry.MatchStatus = domain.NotApplicable
		case entry.VoucherKey == "":
			entry.MatchStatus = domain.Unmatched
		}

		entries = append(entries, entry)
	}

	return entries
}

// classifyRow decides the transaction type from the flag column when the
// journal has one, otherwise from the free-text description.
func classifyRow(row []string, cfg Config) domain.TransactionType {
	text := cell(row, cfg.DescriptionCol)
	if cfg.FlagCol >= 0 {
		if flag := strings.TrimSpace(cell(row, cfg.FlagCol)); flag != "" {
			text = flag
		}
	}

	lowered := strings.ToLower(text)
	for _, term := range collectionTerms {
		if strings.Contains(lowered, term) {
			return domain.Collection
		}
	}
	for _, term := range paymentTerms {
		if strings.Contains(lowered, term) {
			return domain.Payment
		}
	}
	return domain.Other
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
