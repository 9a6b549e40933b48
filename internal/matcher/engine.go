// Package matcher hosts the reconciliation pipeline: it normalizes the raw
// tables, builds voucher-keyed indices over the cash and bank ledgers,
// resolves each eligible journal entry against them, and assembles the
// final correction report.
package matcher

import (
	"sync"

	"conciliador/internal/chart"
	"conciliador/internal/domain"
	"conciliador/internal/journal"
	"conciliador/internal/ledger"
	"conciliador/pkg/logger"
)

// Config wires the engine's per-source conventions: how to read each raw
// table and which chart descriptions name the cash and bank accounts.
type Config struct {
	CashLedger      ledger.Config
	BankLedger      ledger.Config
	Sales           journal.Config
	Purchases       journal.Config
	CashAccountTerm string
	BankAccountTerm string
}

// DefaultConfig matches the original workbook formats: Formato 1.1/1.2
// ledgers, A.C./Hoja3 journals, "caja" and "banco" chart descriptions.
func DefaultConfig() Config {
	return Config{
		CashLedger:      ledger.CashDefaults(),
		BankLedger:      ledger.BankDefaults(),
		Sales:           journal.SalesDefaults(),
		Purchases:       journal.PurchasesDefaults(),
		CashAccountTerm: "caja",
		BankAccountTerm: "banco",
	}
}

// Engine runs the reconciliation pipeline. It holds configuration only, no
// per-run state: re-running with new inputs is always safe.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Input carries the raw tables for one run, already sliced to their header
// offsets by the ingestion layer.
type Input struct {
	Chart        domain.RawTable
	CashRows     domain.RawTable
	BankRows     domain.RawTable
	SalesRows    domain.RawTable
	PurchaseRows domain.RawTable
}

// Reconcile executes one full run: chart normalization, concurrent
// normalization of the four remaining tables, indexing, matching, report.
// Structural errors (chart problems, unresolvable account codes, missing
// inputs) abort the run; row-level issues end up as data in the report.
func (e *Engine) Reconcile(input Input) (*domain.CorrectionReport, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	log := logger.GetLogger()
	log.WithFields(map[string]interface{}{
		"chart_rows":    len(input.Chart),
		"cash_rows":     len(input.CashRows),
		"bank_rows":     len(input.BankRows),
		"sales_rows":    len(input.SalesRows),
		"purchase_rows": len(input.PurchaseRows),
	}).Info("Starting reconciliation")

	accounts, err := chart.Normalize(input.Chart)
	if err != nil {
		return nil, err
	}

	// The four remaining normalization paths are independent; each writes
	// into its own slot before the join.
	var (
		wg                         sync.WaitGroup
		cashRecords, bankRecords   []domain.LedgerRecord
		cashUnparsed, bankUnparsed []domain.UnparsedRow
		salesEntries, purchEntries []domain.JournalEntry
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		cashRecords, cashUnparsed = ledger.Normalize(input.CashRows, e.cfg.CashLedger)
	}()
	go func() {
		defer wg.Done()
		bankRecords, bankUnparsed = ledger.Normalize(input.BankRows, e.cfg.BankLedger)
	}()
	go func() {
		defer wg.Done()
		salesEntries = journal.Classify(input.SalesRows, e.cfg.Sales)
	}()
	go func() {
		defer wg.Done()
		purchEntries = journal.Classify(input.PurchaseRows, e.cfg.Purchases)
	}()
	wg.Wait()

	cashIdx := BuildIndex(domain.SourceCash, cashRecords)
	bankIdx := BuildIndex(domain.SourceBank, bankRecords)

	entries := make([]domain.JournalEntry, 0, len(salesEntries)+len(purchEntries))
	entries = append(entries, salesEntries...)
	entries = append(entries, purchEntries...)

	for i := range entries {
		if entries[i].MatchStatus != "" {
			continue // classifier already settled it
		}
		if err := e.resolve(&entries[i], cashIdx, bankIdx, accounts); err != nil {
			return nil, err
		}
	}

	unparsed := append(append([]domain.UnparsedRow{}, cashUnparsed...), bankUnparsed...)
	report := BuildReport(entries, unparsed)

	log.WithFields(map[string]interface{}{
		"entries":   len(entries),
		"corrected": len(report.CorrectedEntries),
		"unmatched": len(report.UnmatchedEntries),
		"unparsed":  len(report.UnparsedLedgerRows),
	}).Info("Reconciliation completed")

	return report, nil
}

// resolve matches one open entry against the indices. The cash index takes
// precedence when a key exists in both.
func (e *Engine) resolve(entry *domain.JournalEntry, cashIdx, bankIdx *Index, accounts *chart.Chart) error {
	if records := cashIdx.Lookup(entry.VoucherKey); len(records) > 0 {
		acct, ok := accounts.FindByDescription(e.cfg.CashAccountTerm)
		if !ok {
			return &AccountCodeNotConfiguredError{Source: domain.SourceCash, Term: e.cfg.CashAccountTerm}
		}
		entry.MatchStatus = domain.MatchedCash
		entry.CorrectedAccountCode = acct.Code
		entry.AmbiguousMatch = isAmbiguous(*entry, records)
		return nil
	}

	if records := bankIdx.Lookup(entry.VoucherKey); len(records) > 0 {
		acct, ok := accounts.FindByDescription(e.cfg.BankAccountTerm)
		if !ok {
			return &AccountCodeNotConfiguredError{Source: domain.SourceBank, Term: e.cfg.BankAccountTerm}
		}
		entry.MatchStatus = domain.MatchedBank
		entry.CorrectedAccountCode = acct.Code
		entry.AmbiguousMatch = isAmbiguous(*entry, records)
		return nil
	}

	entry.MatchStatus = domain.Unmatched
	return nil
}

// isAmbiguous applies the tie-break policy for keys carried by several
// ledger records: an exact amount match (ignoring sign convention) singles
// out one record; otherwise the entry is matched on key alone and flagged.
func isAmbiguous(entry domain.JournalEntry, records []domain.LedgerRecord) bool {
	if len(records) == 1 {
		return false
	}

	exact := 0
	for _, r := range records {
		if r.Amount.Abs().Equal(entry.Amount.Abs()) {
			exact++
		}
	}
	return exact != 1
}

func validateInput(input Input) error {
	required := []struct {
		name  string
		table domain.RawTable
	}{
		{"chart", input.Chart},
		{"cash_rows", input.CashRows},
		{"bank_rows", input.BankRows},
		{"sales_rows", input.SalesRows},
		{"purchase_rows", input.PurchaseRows},
	}
	for _, in := range required {
		if len(in.table) == 0 {
			return &MissingInputError{Input: in.name}
		}
	}
	return nil
}
