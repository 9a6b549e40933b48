package matcher

import (
	"fmt"

	"conciliador/internal/domain"
)

// MissingInputError reports a required raw table that was nil or empty.
// The engine fails fast rather than producing an empty report.
type MissingInputError struct {
	Input string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input %q is missing or empty", e.Input)
}

// AccountCodeNotConfiguredError reports that a match was resolved against a
// ledger source whose account cannot be found in the chart of accounts.
// This means the chart is incompatible with the engine's configuration, so
// it aborts the run instead of skipping the row.
type AccountCodeNotConfiguredError struct {
	Source domain.LedgerSource
	Term   string
}

func (e *AccountCodeNotConfiguredError) Error() string {
	return fmt.Sprintf("no chart of accounts entry matches %q for source %s", e.Term, e.Source)
}
