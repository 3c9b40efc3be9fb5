package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

func TestStocks(t *testing.T) {
	t.Parallel()

	points, err := Stocks([]byte(`[
		{"label":"Jan 2","close":100,"volume":12},
		{"label":"Jan 3","close":"101.5"},
		{"label":"Jan 4","close":99.25}
	]`))
	require.NoError(t, err)
	require.Equal(t, []models.SeriesPoint{
		{X: "Jan 2", Y: 100},
		{X: "Jan 3", Y: 101.5},
		{X: "Jan 4", Y: 99.25},
	}, points)
}

func TestStocksEmptyArrayIsNoData(t *testing.T) {
	t.Parallel()

	_, err := Stocks([]byte(` [] `))
	require.ErrorIs(t, err, models.ErrNoData)
}

func TestStocksErrorBody(t *testing.T) {
	t.Parallel()

	_, err := Stocks([]byte(`{"error":"rate limited"}`))
	var pe *models.ProviderError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "rate limited", pe.Message)
}

func TestStocksMalformed(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"empty body":        ``,
		"not json":          `<html>`,
		"object no error":   `{"bars":[]}`,
		"blank error":       `{"error":""}`,
		"scalar":            `42`,
		"missing label":     `[{"close":1}]`,
		"null close":        `[{"label":"d1","close":null}]`,
		"non-numeric close": `[{"label":"d1","close":"n/a"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Stocks([]byte(body))
			require.ErrorIs(t, err, models.ErrMalformedPayload)
		})
	}
}

// trendsBody wraps an inner document the way the trends provider does:
// encoded as a JSON string inside {"results": ...}.
func trendsBody(t *testing.T, inner string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]string{"results": inner})
	require.NoError(t, err)
	return b
}

func TestTrends(t *testing.T) {
	t.Parallel()

	body := trendsBody(t, `{"default":{"timelineData":[
		{"time":"1546128000","formattedTime":"Dec 30, 2018","value":[57],"formattedValue":["57"]},
		{"formattedTime":"Jan 6, 2019","value":"61"},
		{"formattedTime":"Jan 13, 2019","value":100}
	]}}`)

	points, err := Trends(body)
	require.NoError(t, err)
	require.Equal(t, []models.SeriesPoint{
		{X: "Dec 30, 2018", Y: 57},
		{X: "Jan 6, 2019", Y: 61},
		{X: "Jan 13, 2019", Y: 100},
	}, points)
}

func TestTrendsEmptyTimelineIsNoData(t *testing.T) {
	t.Parallel()

	_, err := Trends(trendsBody(t, `{"default":{"timelineData":[]}}`))
	require.ErrorIs(t, err, models.ErrNoData)
}

func TestTrendsMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"outer not json":     []byte(`not json`),
		"missing results":    []byte(`{"other":"x"}`),
		"results not string": []byte(`{"results":{"default":{}}}`),
		"inner not json":     trendsBody(t, `{"default":`),
		"missing default":    trendsBody(t, `{}`),
		"missing timeline":   trendsBody(t, `{"default":{}}`),
		"missing time":       trendsBody(t, `{"default":{"timelineData":[{"value":[1]}]}}`),
		"empty value array":  trendsBody(t, `{"default":{"timelineData":[{"formattedTime":"x","value":[]}]}}`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Trends(body)
			require.ErrorIs(t, err, models.ErrMalformedPayload)
		})
	}
}
