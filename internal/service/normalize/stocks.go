package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

type stockBar struct {
	Label *string         `json:"label"`
	Close json.RawMessage `json:"close"`
}

type stockError struct {
	Error *string `json:"error"`
}

// Stocks normalizes the quotes payload: a flat list of bars, or an
// {"error": "..."} object which becomes a *models.ProviderError.
func Stocks(raw []byte) ([]models.SeriesPoint, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return nil, malformed("empty body")
	}

	switch body[0] {
	case '{':
		var e stockError
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, malformed("decode error object: %v", err)
		}
		if e.Error == nil || *e.Error == "" {
			return nil, malformed("object without error message")
		}
		return nil, &models.ProviderError{Message: *e.Error}
	case '[':
	default:
		return nil, malformed("expected array of bars")
	}

	var bars []stockBar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, malformed("decode bars: %v", err)
	}
	if len(bars) == 0 {
		return nil, models.ErrNoData
	}

	points := make([]models.SeriesPoint, 0, len(bars))
	for i, b := range bars {
		if b.Label == nil {
			return nil, malformed("bar %d: missing label", i)
		}
		y, err := coerceNumber(b.Close)
		if err != nil {
			return nil, malformed("bar %d close: %v", i, err)
		}
		points = append(points, models.SeriesPoint{X: *b.Label, Y: y})
	}
	return points, nil
}
