package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	cases := map[string]DateRange{
		"":                    DateRangeUnset,
		"Select a date range": DateRangeUnset,
		"1y":                  DateRange1Y,
		"1 Year":              DateRange1Y,
		" 2 years ":           DateRange2Y,
		"5Y":                  DateRange5Y,
	}
	for raw, want := range cases {
		got, err := ParseDateRange(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}

	_, err := ParseDateRange("10 years")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestQueryStateWithNormalizes(t *testing.T) {
	t.Parallel()

	q := QueryState{DateRange: DateRangeUnset}
	require.False(t, q.Complete())

	q, err := q.With(FieldSymbol, "  watt ")
	require.NoError(t, err)
	q, err = q.With(FieldSearchTerm, "\tEnergous  ")
	require.NoError(t, err)
	q, err = q.With(FieldDateRange, "2 years")
	require.NoError(t, err)

	require.Equal(t, QueryState{Symbol: "WATT", SearchTerm: "Energous", DateRange: DateRange2Y}, q)
	require.Equal(t, Flags{Complete: true}, q.Flags())
}

func TestQueryStateWithRejectsUnknownRangeAndKeepsValue(t *testing.T) {
	t.Parallel()

	q := QueryState{Symbol: "WATT", DateRange: DateRange1Y}
	got, err := q.With(FieldDateRange, "forever")
	require.Error(t, err)

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "dateRange", ce.Field)
	require.Equal(t, DateRange1Y, got.DateRange)
}

func TestParseQueryField(t *testing.T) {
	t.Parallel()

	f, err := ParseQueryField("trendSearchTerm")
	require.NoError(t, err)
	require.Equal(t, FieldSearchTerm, f)

	_, err = ParseQueryField("close")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestReadyWithoutPointsIsInvalid(t *testing.T) {
	t.Parallel()

	r := Ready(nil, "AAPL")
	require.Equal(t, StatusInvalid, r.Status)
	require.Equal(t, "AAPL", r.QueryLabel)
	require.True(t, r.Status.Terminal())
	require.False(t, Loading().Status.Terminal())
}
