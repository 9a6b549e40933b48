package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conciliador/internal/parser"
	"conciliador/pkg/logger"
	"conciliador/pkg/response"
)

// WorkbookHandler exposes the ingestion helpers the UI needs before a run:
// listing a workbook's sheets and previewing a sliced table.
type WorkbookHandler struct{}

func NewWorkbookHandler() *WorkbookHandler {
	return &WorkbookHandler{}
}

type SheetsRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// ListSheets godoc
// @Summary List the sheets of an XLSX workbook
// @Tags workbooks
// @Accept json
// @Produce json
// @Param request body SheetsRequest true "Workbook location"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/workbooks/sheets [post]
func (h *WorkbookHandler) ListSheets(c *gin.Context) {
	var req SheetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	sheets, err := parser.SheetNames(req.FilePath)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", req.FilePath).Error("Failed to list sheets")
		response.BadRequest(c, "Failed to read workbook", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Sheets listed successfully", gin.H{"sheets": sheets})
}

type PreviewRequest struct {
	parser.TableSource
	Limit int `json:"limit"`
}

// Preview godoc
// @Summary Preview the first rows of a sliced table
// @Tags workbooks
// @Accept json
// @Produce json
// @Param request body PreviewRequest true "Table location and row limit"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/workbooks/preview [post]
func (h *WorkbookHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	table, err := parser.LoadTable(req.TableSource)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", req.FilePath).Error("Failed to load table")
		response.BadRequest(c, "Failed to load table", err.Error())
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > len(table) {
		limit = len(table)
		if limit > 10 {
			limit = 10
		}
	}

	response.Success(c, http.StatusOK, "Table preview", gin.H{
		"total_rows": len(table),
		"rows":       table[:limit],
	})
}
