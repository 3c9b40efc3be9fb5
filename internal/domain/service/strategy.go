package service

import "github.com/driver4567/StockvsTrend/internal/domain/models"

// SeriesStrategy holds everything provider-specific about a channel: where
// to send the request, how to encode the query and how to read the payload.
type SeriesStrategy interface {
	Channel() models.Channel
	Path() string
	// Label is the display heading for a trimmed input.
	Label(input string) string
	// Params builds the URL query parameters for a trimmed, non-empty input.
	Params(input string, r models.DateRange) (map[string][]string, error)
	// Normalize maps a 2xx response body to points.
	Normalize(raw []byte) ([]models.SeriesPoint, error)
}
