package models

import (
	"fmt"
	"strings"
)

// DateRange is the shared range selector for both channels.
type DateRange string

const (
	DateRangeUnset DateRange = "unset"
	DateRange1Y    DateRange = "1y"
	DateRange2Y    DateRange = "2y"
	DateRange5Y    DateRange = "5y"
)

// dateRangeAliases maps every accepted spelling (lower-cased) to its range.
// The long forms are the labels shown by the range selector.
var dateRangeAliases = map[string]DateRange{
	"":                    DateRangeUnset,
	"unset":               DateRangeUnset,
	"select a date range": DateRangeUnset,
	"1y":                  DateRange1Y,
	"1 year":              DateRange1Y,
	"2y":                  DateRange2Y,
	"2 years":             DateRange2Y,
	"5y":                  DateRange5Y,
	"5 years":             DateRange5Y,
}

// ParseDateRange converts a raw selector value into a DateRange.
// Unrecognized values yield a *ConfigurationError.
func ParseDateRange(raw string) (DateRange, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if r, ok := dateRangeAliases[key]; ok {
		return r, nil
	}
	return DateRangeUnset, &ConfigurationError{
		Field:   FieldDateRange.String(),
		Value:   raw,
		Message: fmt.Sprintf("unrecognized date range %q", raw),
	}
}

// IsSet reports whether r is a recognized, dispatchable range.
func (r DateRange) IsSet() bool {
	switch r {
	case DateRange1Y, DateRange2Y, DateRange5Y:
		return true
	default:
		return false
	}
}

// QueryField names an editable QueryState field. Values match the form
// input names used by the presentation layer.
type QueryField string

const (
	FieldSymbol     QueryField = "tickerSymbol"
	FieldSearchTerm QueryField = "trendSearchTerm"
	FieldDateRange  QueryField = "dateRange"
)

func (f QueryField) String() string { return string(f) }

// ParseQueryField validates a raw field name.
func ParseQueryField(raw string) (QueryField, error) {
	switch f := QueryField(raw); f {
	case FieldSymbol, FieldSearchTerm, FieldDateRange:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
	}
}

// QueryState is an immutable snapshot of the user's query.
type QueryState struct {
	Symbol     string    `json:"tickerSymbol" yaml:"symbol"`
	SearchTerm string    `json:"trendSearchTerm" yaml:"search_term"`
	DateRange  DateRange `json:"dateRange" yaml:"date_range"`
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeSearchTerm trims a trend search phrase.
func NormalizeSearchTerm(raw string) string {
	return strings.TrimSpace(raw)
}

// With returns a copy of q with field set from raw, normalized.
func (q QueryState) With(field QueryField, raw string) (QueryState, error) {
	switch field {
	case FieldSymbol:
		q.Symbol = NormalizeSymbol(raw)
	case FieldSearchTerm:
		q.SearchTerm = NormalizeSearchTerm(raw)
	case FieldDateRange:
		r, err := ParseDateRange(raw)
		if err != nil {
			return q, err
		}
		q.DateRange = r
	default:
		return q, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return q, nil
}

// Complete reports whether the query may be dispatched.
func (q QueryState) Complete() bool { return q.DateRange.IsSet() }

// Flags are the derived validity flags of a QueryState.
type Flags struct {
	Complete        bool `json:"complete"`
	SymbolEmpty     bool `json:"symbolEmpty"`
	SearchTermEmpty bool `json:"searchTermEmpty"`
}

func (q QueryState) Flags() Flags {
	return Flags{
		Complete:        q.Complete(),
		SymbolEmpty:     q.Symbol == "",
		SearchTermEmpty: q.SearchTerm == "",
	}
}
