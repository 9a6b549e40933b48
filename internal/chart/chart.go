// Package chart normalizes a raw chart-of-accounts table into a
// code -> description dictionary with a reverse lookup by description.
package chart

import (
	"fmt"
	"strings"

	"conciliador/internal/domain"
)

// MalformedChartError reports a chart table that does not have the two
// positional columns (code, description) the engine expects.
type MalformedChartError struct {
	Columns int
}

func (e *MalformedChartError) Error() string {
	return fmt.Sprintf("chart of accounts must have at least 2 columns, got %d", e.Columns)
}

// ConflictError reports two source rows that normalize to the same account
// code. Both rows are named so the caller can surface them.
type ConflictError struct {
	Code      string
	FirstRow  int
	SecondRow int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate account code %q in chart of accounts (rows %d and %d)", e.Code, e.FirstRow, e.SecondRow)
}

// Chart is the normalized chart of accounts. The insertion-ordered entry
// list keeps reverse lookups deterministic.
type Chart struct {
	byCode    map[string]string
	rowByCode map[string]int
	entries   []domain.AccountCode
}

// Normalize builds a Chart from a raw table whose first two columns are,
// by position, account code and description. Rows with an empty or missing
// code or description are dropped, including short rows (trailing empty
// cells are trimmed by spreadsheet readers, so a blank description arrives
// as a one-cell row). A table that never reaches two columns is malformed.
// Codes are trimmed and case-folded; a collision after normalization is a
// data-quality error, not a silent merge.
func Normalize(table domain.RawTable) (*Chart, error) {
	c := &Chart{
		byCode:    make(map[string]string),
		rowByCode: make(map[string]int),
	}

	maxCols := 0
	for i, row := range table {
		if len(row) > maxCols {
			maxCols = len(row)
		}
		if len(row) < 2 {
			continue
		}

		code := normalizeCode(row[0])
		description := strings.TrimSpace(row[1])
		if code == "" || description == "" {
			continue
		}

		if firstRow, exists := c.rowByCode[code]; exists {
			return nil, &ConflictError{Code: code, FirstRow: firstRow, SecondRow: i}
		}

		c.byCode[code] = description
		c.rowByCode[code] = i
		c.entries = append(c.entries, domain.AccountCode{Code: code, Description: description})
	}

	if len(table) > 0 && maxCols < 2 {
		return nil, &MalformedChartError{Columns: maxCols}
	}

	return c, nil
}

// Description returns the description for an account code.
func (c *Chart) Description(code string) (string, bool) {
	desc, ok := c.byCode[normalizeCode(code)]
	return desc, ok
}

// FindByDescription returns the first account, in source row order, whose
// description contains text (case-insensitive). Used to resolve the
// "Caja"/"Bancos" style corrected codes.
func (c *Chart) FindByDescription(text string) (domain.AccountCode, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return domain.AccountCode{}, false
	}
	for _, entry := range c.entries {
		if strings.Contains(strings.ToLower(entry.Description), needle) {
			return entry, true
		}
	}
	return domain.AccountCode{}, false
}

// Len returns the number of normalized accounts.
func (c *Chart) Len() int {
	return len(c.entries)
}

func normalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
