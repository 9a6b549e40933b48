package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conciliador/internal/domain"
)

func TestClassify_SalesJournal(t *testing.T) {
	table := domain.RawTable{
		{"1", "Venta mercadería E001-001", "500.00", "701"},
		{"2", "Cobro factura E001-001", "150.00", "121"},
		{"3", "COBRANZA recibo E001-002", "200.00", "121"},
		{"4", "Ajuste por redondeo", "0.10", "659"},
		{"", "TOTAL FEBRERO", "", ""},
	}

	entries := Classify(table, SalesDefaults())
	require.Len(t, entries, 4)

	// Plain sale: not eligible, passes through.
	assert.Equal(t, domain.Other, entries[0].TransactionType)
	assert.Equal(t, domain.NotApplicable, entries[0].MatchStatus)
	assert.Empty(t, entries[0].CorrectedAccountCode)

	// Collections stay open for the matcher.
	assert.Equal(t, domain.Collection, entries[1].TransactionType)
	assert.Equal(t, domain.MatchStatus(""), entries[1].MatchStatus)
	assert.Equal(t, "E001-001", entries[1].VoucherKey)
	assert.True(t, entries[1].Amount.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, "121", entries[1].OriginalAccountCode)

	assert.Equal(t, domain.Collection, entries[2].TransactionType)

	assert.Equal(t, domain.Other, entries[3].TransactionType)
	assert.Equal(t, domain.NotApplicable, entries[3].MatchStatus)
}

func TestClassify_PurchaseJournalWithFlagColumn(t *testing.T) {
	cfg := PurchasesDefaults()
	cfg.FlagCol = 4

	table := domain.RawTable{
		{"1", "Factura B002-010 proveedor SAC", "80.00", "421", "PAGO"},
		{"2", "Factura B002-011 proveedor SAC", "60.00", "601", ""},
	}

	entries := Classify(table, cfg)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.Payment, entries[0].TransactionType)
	assert.Equal(t, domain.MatchStatus(""), entries[0].MatchStatus)

	// Empty flag falls back to the description, which has no keyword.
	assert.Equal(t, domain.Other, entries[1].TransactionType)
	assert.Equal(t, domain.NotApplicable, entries[1].MatchStatus)
}

func TestClassify_EligibleWithoutVoucherKeyIsUnmatched(t *testing.T) {
	table := domain.RawTable{
		{"1", "Cobro en efectivo sin comprobante", "90.00", "121"},
	}

	entries := Classify(table, SalesDefaults())
	require.Len(t, entries, 1)
	assert.Equal(t, domain.Collection, entries[0].TransactionType)
	assert.Equal(t, domain.Unmatched, entries[0].MatchStatus)
	assert.Empty(t, entries[0].VoucherKey)
}

func TestClassify_KindMismatchIsNotApplicable(t *testing.T) {
	// A payment row inside the sales journal is not eligible.
	table := domain.RawTable{
		{"1", "Pago devolución E001-009", "45.00", "121"},
	}

	entries := Classify(table, SalesDefaults())
	require.Len(t, entries, 1)
	assert.Equal(t, domain.Payment, entries[0].TransactionType)
	assert.Equal(t, domain.NotApplicable, entries[0].MatchStatus)
}

func TestClassify_NonNumericAmountRowsSkipped(t *testing.T) {
	table := domain.RawTable{
		{"", "", "", ""},
		{"1", "Cobro E001-001", "---", "121"},
	}

	entries := Classify(table, SalesDefaults())
	assert.Empty(t, entries)
}
