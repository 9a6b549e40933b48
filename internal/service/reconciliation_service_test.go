package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conciliador/internal/domain"
	"conciliador/internal/matcher"
	"conciliador/internal/parser"
)

// fakeRunRepository records calls in memory; persistence behavior itself is
// the database's job, not this test's.
type fakeRunRepository struct {
	runs    map[string]*domain.ReconciliationRun
	reports map[string]*domain.CorrectionReport
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{
		runs:    make(map[string]*domain.ReconciliationRun),
		reports: make(map[string]*domain.CorrectionReport),
	}
}

func (f *fakeRunRepository) CreateRun(run *domain.ReconciliationRun) error {
	copied := *run
	f.runs[run.RunID] = &copied
	return nil
}

func (f *fakeRunRepository) UpdateRun(run *domain.ReconciliationRun) error {
	copied := *run
	f.runs[run.RunID] = &copied
	return nil
}

func (f *fakeRunRepository) GetRunByID(runID string) (*domain.ReconciliationRun, error) {
	run, ok := f.runs[runID]
	if !ok {
		return nil, errors.New("reconciliation run not found")
	}
	return run, nil
}

func (f *fakeRunRepository) SaveReport(runID string, report *domain.CorrectionReport) error {
	f.reports[runID] = report
	return nil
}

func (f *fakeRunRepository) GetReport(runID string) (*domain.CorrectionReport, error) {
	report, ok := f.reports[runID]
	if !ok {
		return nil, errors.New("report not found")
	}
	return report, nil
}

func testTables() map[string]domain.RawTable {
	return map[string]domain.RawTable{
		"chart.csv": {
			{"101", "Caja"},
			{"104", "Bancos - Cuenta Corriente"},
		},
		"cash.xlsx": {
			{"1", "01/02", "Cobro factura E001-001", "150.00", ""},
		},
		"bank.xlsx": {
			{"1", "02/02", "Pago B002-010", "", "80.00"},
		},
		"sales.xlsx": {
			{"1", "Cobro factura E001-001", "150.00", "121"},
		},
		"purchases.xlsx": {
			{"1", "Pago factura B002-010", "80.00", "421"},
		},
	}
}

func tableLoaderFor(tables map[string]domain.RawTable) TableLoader {
	return func(src parser.TableSource) (domain.RawTable, error) {
		table, ok := tables[src.FilePath]
		if !ok {
			return nil, errors.New("no such table")
		}
		return table, nil
	}
}

func testRequest() ReconcileRequest {
	return ReconcileRequest{
		Chart:     parser.TableSource{FilePath: "chart.csv"},
		Cash:      parser.TableSource{FilePath: "cash.xlsx"},
		Bank:      parser.TableSource{FilePath: "bank.xlsx"},
		Sales:     parser.TableSource{FilePath: "sales.xlsx"},
		Purchases: parser.TableSource{FilePath: "purchases.xlsx"},
	}
}

func TestReconcile(t *testing.T) {
	repo := newFakeRunRepository()
	svc := NewReconciliationService(repo, matcher.NewEngine(matcher.DefaultConfig()), tableLoaderFor(testTables()))

	summary, err := svc.Reconcile(testRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalEntries)
	assert.Equal(t, 2, summary.TotalMatched)
	assert.Equal(t, 0, summary.TotalUnmatched)
	require.NotNil(t, summary.Report)

	run, err := svc.GetRunStatus(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, run.Status)

	stored, err := svc.GetRunReport(summary.RunID)
	require.NoError(t, err)
	assert.Len(t, stored.Report.CorrectedEntries, 2)
}

func TestReconcile_EngineErrorMarksRunFailed(t *testing.T) {
	tables := testTables()
	tables["chart.csv"] = domain.RawTable{
		{"101", "Caja"},
		{"101", "Caja chica"},
	}

	repo := newFakeRunRepository()
	svc := NewReconciliationService(repo, matcher.NewEngine(matcher.DefaultConfig()), tableLoaderFor(tables))

	_, err := svc.Reconcile(testRequest())
	require.Error(t, err)

	require.Len(t, repo.runs, 1)
	for _, run := range repo.runs {
		assert.Equal(t, domain.RunFailed, run.Status)
		require.NotNil(t, run.ErrorMessage)
		assert.Contains(t, *run.ErrorMessage, "duplicate account code")
	}
}

func TestReconcile_LoaderErrorMarksRunFailed(t *testing.T) {
	tables := testTables()
	delete(tables, "bank.xlsx")

	repo := newFakeRunRepository()
	svc := NewReconciliationService(repo, matcher.NewEngine(matcher.DefaultConfig()), tableLoaderFor(tables))

	_, err := svc.Reconcile(testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bank")
}

func TestReconcile_DefaultHeaderRowsApplied(t *testing.T) {
	tables := testTables()
	seen := make(map[string]*int)
	loader := func(src parser.TableSource) (domain.RawTable, error) {
		seen[src.FilePath] = src.HeaderRow
		return tableLoaderFor(tables)(src)
	}

	repo := newFakeRunRepository()
	svc := NewReconciliationService(repo, matcher.NewEngine(matcher.DefaultConfig()), loader)

	req := testRequest()
	explicit := 3
	req.Sales.HeaderRow = &explicit

	_, err := svc.Reconcile(req)
	require.NoError(t, err)

	// Formats that did not name a header row get the original workbooks'
	// offsets; an explicit value wins.
	require.NotNil(t, seen["chart.csv"])
	assert.Equal(t, parser.DefaultChartHeaderRow, *seen["chart.csv"])
	require.NotNil(t, seen["cash.xlsx"])
	assert.Equal(t, parser.DefaultLedgerHeaderRow, *seen["cash.xlsx"])
	require.NotNil(t, seen["bank.xlsx"])
	assert.Equal(t, parser.DefaultLedgerHeaderRow, *seen["bank.xlsx"])
	require.NotNil(t, seen["purchases.xlsx"])
	assert.Equal(t, parser.DefaultPurchaseHeaderRow, *seen["purchases.xlsx"])
	require.NotNil(t, seen["sales.xlsx"])
	assert.Equal(t, 3, *seen["sales.xlsx"])
}

func TestGetRunStatus_UnknownRun(t *testing.T) {
	svc := NewReconciliationService(newFakeRunRepository(), matcher.NewEngine(matcher.DefaultConfig()), tableLoaderFor(nil))

	_, err := svc.GetRunStatus("no-such-run")
	assert.Error(t, err)
}
