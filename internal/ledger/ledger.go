// Package ledger normalizes raw cash/bank ledger tables into LedgerRecord
// sequences ready for indexing.
package ledger

import (
	"conciliador/internal/domain"
	"conciliador/internal/voucher"
)

// Config declares how to read one ledger source. Column indexes are
// positions within the already-sliced raw rows; InflowIsDebit declares
// which money column counts as positive for this source.
type Config struct {
	Source         domain.LedgerSource
	DescriptionCol int
	DebitCol       int
	CreditCol      int
	InflowIsDebit  bool
}

// CashDefaults matches the Formato 1.1 cash book layout.
func CashDefaults() Config {
	return Config{
		Source:         domain.SourceCash,
		DescriptionCol: 2,
		DebitCol:       3,
		CreditCol:      4,
		InflowIsDebit:  true,
	}
}

// BankDefaults matches the Formato 1.2 current-account book layout.
func BankDefaults() Config {
	return Config{
		Source:         domain.SourceBank,
		DescriptionCol: 2,
		DebitCol:       3,
		CreditCol:      4,
		InflowIsDebit:  true,
	}
}

// Normalize turns one raw ledger table into ordered LedgerRecords.
// Rows without a numeric amount in either money column are skipped
// (blank lines, subtotals). Rows whose description yields no voucher key
// still become records but are also listed as unparsed for auditing.
// Amount sign: the configured inflow column contributes positive, the
// other negative.
func Normalize(table domain.RawTable, cfg Config) ([]domain.LedgerRecord, []domain.UnparsedRow) {
	records := make([]domain.LedgerRecord, 0, len(table))
	unparsed := make([]domain.UnparsedRow, 0)

	for i, row := range table {
		debit, hasDebit := domain.ParseAmount(cell(row, cfg.DebitCol))
		credit, hasCredit := domain.ParseAmount(cell(row, cfg.CreditCol))
		if !hasDebit && !hasCredit {
			continue
		}

		amount := debit.Sub(credit)
		if !cfg.InflowIsDebit {
			amount = credit.Sub(debit)
		}

		record := domain.LedgerRecord{
			Source:      cfg.Source,
			Amount:      amount,
			RawRowIndex: i,
		}

		if key, ok := voucher.Extract(cell(row, cfg.DescriptionCol)); ok {
			record.VoucherKey = key
		} else {
			unparsed = append(unparsed, domain.UnparsedRow{Source: cfg.Source, RawRowIndex: i})
		}

		records = append(records, record)
	}

	return records, unparsed
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
