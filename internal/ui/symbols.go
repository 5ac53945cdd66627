package ui

// Status symbols for CLI output.
const (
	SymbolSuccess  = "✓" // Action succeeded
	SymbolFail     = "✗" // Action failed
	SymbolPending  = "○" // Waiting, or cancelled by the user
	SymbolProgress = "◐" // In flight
)

// ResultLine formats a producer action result as one status line.
func ResultLine(ok bool, message string) string {
	if ok {
		return Success(SymbolSuccess) + " " + message
	}
	return Failure(SymbolFail) + " " + message
}
