// Package parser is the ingestion boundary: it knows about file formats,
// sheet names and header offsets so the engine does not. It turns XLSX and
// legacy XLS workbooks and CSV files into the raw tables the engine
// consumes.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"conciliador/internal/domain"
	"conciliador/pkg/logger"
)

// Header rows of the original workbook formats, zero-based. Data rows
// start right below the header.
const (
	DefaultChartHeaderRow    = 0
	DefaultLedgerHeaderRow   = 8
	DefaultSalesHeaderRow    = 8
	DefaultPurchaseHeaderRow = 5
	DefaultPayrollHeaderRow  = 10
)

// TableSource names one raw table inside an uploaded file. HeaderRow is
// the zero-based index of the header row; leave it nil to use the caller's
// per-format default. Sheet is ignored for CSV files.
type TableSource struct {
	FilePath  string `json:"file_path" binding:"required"`
	Sheet     string `json:"sheet"`
	HeaderRow *int   `json:"header_row"`
}

// HeaderRowOr returns the configured header row, or def when none was set.
func (s TableSource) HeaderRowOr(def int) int {
	if s.HeaderRow == nil {
		return def
	}
	return *s.HeaderRow
}

// SheetNames lists the sheets of a workbook so a caller can pick the right
// one per format.
func SheetNames(filePath string) ([]string, error) {
	if isLegacyXLS(filePath) {
		wb, err := xls.OpenFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read xls workbook: %w", err)
		}

		names := make([]string, 0, wb.GetNumberSheets())
		for _, sheet := range wb.GetSheets() {
			names = append(names, sheet.GetName())
		}
		return names, nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer wb.Close()

	return wb.GetSheetList(), nil
}

// LoadTable extracts one table from a workbook or CSV file, sliced below
// its header row.
func LoadTable(src TableSource) (domain.RawTable, error) {
	var (
		rows [][]string
		err  error
	)

	switch {
	case strings.EqualFold(filepath.Ext(src.FilePath), ".csv"):
		rows, err = readCSV(src.FilePath)
	case isLegacyXLS(src.FilePath):
		rows, err = readXLSSheet(src.FilePath, src.Sheet)
	default:
		rows, err = readSheet(src.FilePath, src.Sheet)
	}
	if err != nil {
		return nil, err
	}

	headerRow := src.HeaderRowOr(0)
	if headerRow < 0 || headerRow+1 >= len(rows) {
		return domain.RawTable{}, nil
	}

	table := domain.RawTable(rows[headerRow+1:])

	logger.GetLogger().WithFields(map[string]interface{}{
		"file":       src.FilePath,
		"sheet":      src.Sheet,
		"header_row": headerRow,
		"data_rows":  len(table),
	}).Debug("Table loaded")

	return table, nil
}

func isLegacyXLS(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".xls")
}

func readSheet(filePath, sheet string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", filePath).Error("Failed to open workbook")
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer wb.Close()

	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// readXLSSheet reads the legacy BIFF format the original cash/bank books
// ship in.
func readXLSSheet(filePath, sheetName string) ([][]string, error) {
	wb, err := xls.OpenFile(filePath)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", filePath).Error("Failed to open xls workbook")
		return nil, fmt.Errorf("failed to read xls workbook: %w", err)
	}

	for i, candidate := range wb.GetSheets() {
		if sheetName != "" && candidate.GetName() != sheetName {
			continue
		}

		sheet, err := wb.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read xls sheet %q: %w", candidate.GetName(), err)
		}

		var rows [][]string
		for _, row := range sheet.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			rows = append(rows, cells)
		}
		return rows, nil
	}

	return nil, fmt.Errorf("sheet %q not found in xls workbook", sheetName)
}

func readCSV(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", filePath).Error("Failed to open file")
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.GetLogger().WithError(err).Warn("Failed to read CSV row, skipping")
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}
