package services

import "fmt"

// ParseError signals that a symbol matched neither recognized grammar.
// The offending row is skipped with a recorded warning; downstream code
// never operates on a guessed contract.
type ParseError struct {
	Symbol string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse option symbol %q: %s", e.Symbol, e.Reason)
}

// QuoteError is a single-symbol fetch failure. It degrades that symbol's
// quote to an error marker and never aborts the batch.
type QuoteError struct {
	Symbol string
	Err    error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("quote lookup failed for %s: %v", e.Symbol, e.Err)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// DataSourceError means the portfolio export is missing or unreadable.
// This is the only failure that escalates to a total report failure.
type DataSourceError struct {
	Path string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("portfolio source %s: %v", e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
