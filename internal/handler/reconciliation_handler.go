package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"conciliador/internal/chart"
	"conciliador/internal/matcher"
	"conciliador/internal/service"
	"conciliador/pkg/logger"
	"conciliador/pkg/response"
)

type ReconciliationHandler struct {
	service service.ReconciliationService
}

func NewReconciliationHandler(service service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// Reconcile godoc
// @Summary Run a reconciliation
// @Description Reconcile sales/purchase journal entries against the cash and bank ledgers and correct their account codes
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body service.ReconcileRequest true "Table locations for the five input datasets"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/reconcile [post]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req service.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithError(err).Error("Invalid request")
		response.ValidationError(c, err.Error())
		return
	}

	summary, err := h.service.Reconcile(req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation completed successfully", summary)
}

// GetRunStatus godoc
// @Summary Get reconciliation run status
// @Tags reconciliation
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reconcile/runs/{run_id} [get]
func (h *ReconciliationHandler) GetRunStatus(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.service.GetRunStatus(runID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", runID).Error("Run not found")
		response.NotFound(c, "Run not found")
		return
	}

	response.Success(c, http.StatusOK, "Run status retrieved successfully", run)
}

// GetRunReport godoc
// @Summary Get the stored correction report of a run
// @Tags reconciliation
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reconcile/runs/{run_id}/report [get]
func (h *ReconciliationHandler) GetRunReport(c *gin.Context) {
	runID := c.Param("run_id")

	summary, err := h.service.GetRunReport(runID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("run_id", runID).Error("Failed to get run report")
		response.NotFound(c, "Run not found")
		return
	}

	response.Success(c, http.StatusOK, "Run report retrieved successfully", summary)
}

// writeError maps the engine's typed errors onto HTTP statuses: structural
// input problems are the client's data, everything else is on us.
func (h *ReconciliationHandler) writeError(c *gin.Context, err error) {
	logger.GetLogger().WithError(err).Error("Reconciliation failed")

	var (
		malformed     *chart.MalformedChartError
		conflict      *chart.ConflictError
		missing       *matcher.MissingInputError
		notConfigured *matcher.AccountCodeNotConfiguredError
	)

	switch {
	case errors.As(err, &malformed):
		response.UnprocessableInput(c, "MALFORMED_CHART", err.Error())
	case errors.As(err, &conflict):
		response.UnprocessableInput(c, "CHART_CONFLICT", err.Error())
	case errors.As(err, &missing):
		response.BadRequest(c, "Missing required input", err.Error())
	case errors.As(err, &notConfigured):
		response.UnprocessableInput(c, "ACCOUNT_CODE_NOT_CONFIGURED", err.Error())
	default:
		response.InternalError(c, "Reconciliation failed", err.Error())
	}
}
