package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	"github.com/driver4567/StockvsTrend/internal/domain/repository/mocks"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
	"github.com/driver4567/StockvsTrend/pkg/metrics"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func withID(r models.ChannelResult, id uint64) models.ChannelResult {
	r.DispatchID = id
	return r
}

func snapshot(seq uint64, stocks, trends models.ChannelResult) models.Output {
	return models.Output{
		Seq:    seq,
		Query:  models.QueryState{Symbol: "AAPL", SearchTerm: "solar", DateRange: models.DateRange1Y},
		Stocks: stocks,
		Trends: trends,
	}
}

func TestEventPipelineEmitsOncePerResolution(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)

	var (
		mu  sync.Mutex
		got []models.ChannelEvent
	)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev *models.ChannelEvent) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, *ev)
			return nil
		}).Times(2)

	p := NewEventPipeline(pub, metrics.Noop{}, applogger.Nop(), WithClock(func() time.Time { return fixedNow }))
	p.Start(t.Context())

	loadingStocks := withID(models.Loading(), 1)
	loadingTrends := withID(models.Loading(), 2)
	readyStocks := withID(models.Ready([]models.SeriesPoint{{X: "Jan 2", Y: 1}, {X: "Jan 3", Y: 2}}, "AAPL"), 1)
	failedTrends := withID(models.Failed("rate limited").WithLabel("solar"), 2)

	p.OnOutput(snapshot(1, loadingStocks, loadingTrends))
	p.OnOutput(snapshot(2, readyStocks, loadingTrends))
	p.OnOutput(snapshot(3, readyStocks, failedTrends))
	p.OnOutput(snapshot(3, readyStocks, failedTrends))
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []models.ChannelEvent{
		{
			Channel:    "stocks",
			DispatchID: 1,
			Status:     models.StatusReady,
			QueryLabel: "AAPL",
			DateRange:  models.DateRange1Y,
			Points:     2,
			ResolvedAt: fixedNow,
		},
		{
			Channel:    "trends",
			DispatchID: 2,
			Status:     models.StatusFailed,
			QueryLabel: "solar",
			Reason:     "rate limited",
			DateRange:  models.DateRange1Y,
			ResolvedAt: fixedNow,
		},
	}, got)
}

func TestEventPipelineIgnoresIdle(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)

	p := NewEventPipeline(pub, metrics.Noop{}, applogger.Nop())
	p.Start(t.Context())
	p.OnOutput(snapshot(0, models.Idle(), models.Idle()))
	p.Stop()
}

func TestEventPipelinePublishErrorIsRecorded(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	m := mocks.NewMockMetrics(ctrl)

	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	m.EXPECT().RecordError("event_publish").Times(1)

	p := NewEventPipeline(pub, m, applogger.Nop())
	p.Start(t.Context())
	p.OnOutput(snapshot(1, withID(models.Invalid("ZZZZ"), 5), models.Idle()))
	p.Stop()
}

func TestEventPipelineDropsWhenBufferFull(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	m := mocks.NewMockMetrics(ctrl)

	m.EXPECT().RecordError("event_buffer_full").Times(1)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// Not started: the single slot fills and the second event is dropped.
	p := NewEventPipeline(pub, m, applogger.Nop(), WithBufferSize(1))
	p.OnOutput(snapshot(1, withID(models.Invalid("A"), 1), withID(models.Invalid("b"), 2)))

	p.Start(t.Context())
	p.Stop()
}

func TestEventPipelineStopWithoutStart(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	p := NewEventPipeline(mocks.NewMockEventPublisher(ctrl), metrics.Noop{}, applogger.Nop())

	p.Stop()
	p.Stop()
	p.OnOutput(snapshot(1, withID(models.Invalid("A"), 1), models.Idle()))
}
