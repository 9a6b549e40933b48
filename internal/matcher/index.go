package matcher

import "conciliador/internal/domain"

// Index maps voucher keys to the ledger records carrying them. A key may
// hold several records (partial transactions split across rows); they are
// kept in source order, never collapsed. The index is built once per run
// and read-only during matching.
type Index struct {
	source  domain.LedgerSource
	records map[string][]domain.LedgerRecord
}

// BuildIndex indexes the normalized records of one ledger source.
// Records without a voucher key are not indexable and are skipped.
func BuildIndex(source domain.LedgerSource, records []domain.LedgerRecord) *Index {
	idx := &Index{
		source:  source,
		records: make(map[string][]domain.LedgerRecord, len(records)),
	}
	for _, r := range records {
		if r.VoucherKey == "" {
			continue
		}
		idx.records[r.VoucherKey] = append(idx.records[r.VoucherKey], r)
	}
	return idx
}

// Lookup returns all records indexed under key, in source order.
func (i *Index) Lookup(key string) []domain.LedgerRecord {
	return i.records[key]
}

// Len returns the number of distinct voucher keys.
func (i *Index) Len() int {
	return len(i.records)
}
