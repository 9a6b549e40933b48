package service

import (
	"fmt"

	"github.com/google/uuid"

	"conciliador/internal/domain"
	"conciliador/internal/matcher"
	"conciliador/internal/parser"
	"conciliador/internal/repository"
	"conciliador/pkg/logger"
)

// ReconcileRequest names the five raw tables of one run, each already
// located inside an uploaded file by the caller.
type ReconcileRequest struct {
	Chart     parser.TableSource `json:"chart" binding:"required"`
	Cash      parser.TableSource `json:"cash" binding:"required"`
	Bank      parser.TableSource `json:"bank" binding:"required"`
	Sales     parser.TableSource `json:"sales" binding:"required"`
	Purchases parser.TableSource `json:"purchases" binding:"required"`
}

type ReconciliationService interface {
	Reconcile(req ReconcileRequest) (*domain.RunSummary, error)
	GetRunStatus(runID string) (*domain.ReconciliationRun, error)
	GetRunReport(runID string) (*domain.RunSummary, error)
}

// TableLoader resolves a TableSource into a raw table. Indirection over
// parser.LoadTable so tests can feed tables without files on disk.
type TableLoader func(parser.TableSource) (domain.RawTable, error)

type reconciliationService struct {
	repo   repository.RunRepository
	engine *matcher.Engine
	load   TableLoader
}

func NewReconciliationService(repo repository.RunRepository, engine *matcher.Engine, load TableLoader) ReconciliationService {
	if load == nil {
		load = parser.LoadTable
	}
	return &reconciliationService{
		repo:   repo,
		engine: engine,
		load:   load,
	}
}

func (s *reconciliationService) Reconcile(req ReconcileRequest) (*domain.RunSummary, error) {
	runID := uuid.New().String()
	run := &domain.ReconciliationRun{
		RunID:  runID,
		Status: domain.RunProcessing,
	}

	if err := s.repo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	logger.GetLogger().WithField("run_id", runID).Info("Starting reconciliation run")

	input, err := s.loadInput(req)
	if err != nil {
		s.failRun(run, err)
		return nil, err
	}

	report, err := s.engine.Reconcile(input)
	if err != nil {
		s.failRun(run, err)
		return nil, err
	}

	if err := s.repo.SaveReport(runID, report); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to save report")
	}

	matched := 0
	for _, e := range report.CorrectedEntries {
		if e.MatchStatus == domain.MatchedCash || e.MatchStatus == domain.MatchedBank {
			matched++
		}
	}

	run.TotalEntries = len(report.CorrectedEntries) + len(report.UnmatchedEntries)
	run.TotalMatched = matched
	run.TotalUnmatched = len(report.UnmatchedEntries)
	run.TotalUnparsed = len(report.UnparsedLedgerRows)
	run.Status = domain.RunCompleted

	if err := s.repo.UpdateRun(run); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to update run")
	}

	logger.GetLogger().WithField("run_id", runID).Info("Reconciliation run completed")

	return &domain.RunSummary{
		RunID:          runID,
		TotalEntries:   run.TotalEntries,
		TotalMatched:   run.TotalMatched,
		TotalUnmatched: run.TotalUnmatched,
		TotalUnparsed:  run.TotalUnparsed,
		Report:         report,
	}, nil
}

func (s *reconciliationService) GetRunStatus(runID string) (*domain.ReconciliationRun, error) {
	return s.repo.GetRunByID(runID)
}

func (s *reconciliationService) GetRunReport(runID string) (*domain.RunSummary, error) {
	run, err := s.repo.GetRunByID(runID)
	if err != nil {
		return nil, err
	}

	report, err := s.repo.GetReport(runID)
	if err != nil {
		return nil, err
	}

	return &domain.RunSummary{
		RunID:          run.RunID,
		TotalEntries:   run.TotalEntries,
		TotalMatched:   run.TotalMatched,
		TotalUnmatched: run.TotalUnmatched,
		TotalUnparsed:  run.TotalUnparsed,
		Report:         report,
	}, nil
}

func (s *reconciliationService) loadInput(req ReconcileRequest) (matcher.Input, error) {
	var input matcher.Input

	sources := []struct {
		name      string
		src       parser.TableSource
		headerRow int
		target    *domain.RawTable
	}{
		{"chart", req.Chart, parser.DefaultChartHeaderRow, &input.Chart},
		{"cash", req.Cash, parser.DefaultLedgerHeaderRow, &input.CashRows},
		{"bank", req.Bank, parser.DefaultLedgerHeaderRow, &input.BankRows},
		{"sales", req.Sales, parser.DefaultSalesHeaderRow, &input.SalesRows},
		{"purchases", req.Purchases, parser.DefaultPurchaseHeaderRow, &input.PurchaseRows},
	}

	for _, s2 := range sources {
		src := s2.src
		if src.HeaderRow == nil {
			headerRow := s2.headerRow
			src.HeaderRow = &headerRow
		}

		table, err := s.load(src)
		if err != nil {
			return matcher.Input{}, fmt.Errorf("failed to load %s table: %w", s2.name, err)
		}
		*s2.target = table
	}

	return input, nil
}

func (s *reconciliationService) failRun(run *domain.ReconciliationRun, cause error) {
	msg := cause.Error()
	run.Status = domain.RunFailed
	run.ErrorMessage = &msg
	if err := s.repo.UpdateRun(run); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to mark run as failed")
	}
}
