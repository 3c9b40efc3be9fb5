package normalize

import (
	"encoding/json"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

type trendsEnvelope struct {
	Results *string `json:"results"`
}

type trendsPayload struct {
	Default *struct {
		TimelineData *[]trendPoint `json:"timelineData"`
	} `json:"default"`
}

type trendPoint struct {
	FormattedTime *string         `json:"formattedTime"`
	Value         json.RawMessage `json:"value"`
}

// Trends normalizes the search-trend payload. The body is an envelope whose
// "results" field is itself a JSON document encoded as a string, so it is
// decoded twice before the timeline is reached.
func Trends(raw []byte) ([]models.SeriesPoint, error) {
	var env trendsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, malformed("decode envelope: %v", err)
	}
	if env.Results == nil {
		return nil, malformed("missing results")
	}

	var payload trendsPayload
	if err := json.Unmarshal([]byte(*env.Results), &payload); err != nil {
		return nil, malformed("decode results: %v", err)
	}
	if payload.Default == nil || payload.Default.TimelineData == nil {
		return nil, malformed("missing default.timelineData")
	}

	timeline := *payload.Default.TimelineData
	if len(timeline) == 0 {
		return nil, models.ErrNoData
	}

	points := make([]models.SeriesPoint, 0, len(timeline))
	for i, p := range timeline {
		if p.FormattedTime == nil {
			return nil, malformed("point %d: missing formattedTime", i)
		}
		y, err := coerceNumber(p.Value)
		if err != nil {
			return nil, malformed("point %d value: %v", i, err)
		}
		points = append(points, models.SeriesPoint{X: *p.FormattedTime, Y: y})
	}
	return points, nil
}
