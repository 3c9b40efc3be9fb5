package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
)

// SeriesFetcher resolves one channel's params into a terminal result.
// Implementations never return a non-terminal result and never panic on
// provider failures.
type SeriesFetcher interface {
	Fetch(ctx context.Context, params models.ProviderParams) models.ChannelResult
}

// EventPublisher ships resolved channel events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.ChannelEvent) error
	Close() error
}

type Metrics interface {
	RecordFetch(channel, outcome string, seconds float64)
	RecordDispatch(channel string)
	RecordStale(channel string)
	RecordError(kind string)
}
