package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	"github.com/driver4567/StockvsTrend/internal/domain/repository/mocks"
	"github.com/driver4567/StockvsTrend/internal/handler/ws"
	mid "github.com/driver4567/StockvsTrend/internal/middleware"
	"github.com/driver4567/StockvsTrend/internal/service/provider"
	"github.com/driver4567/StockvsTrend/internal/usecase"
	"github.com/driver4567/StockvsTrend/pkg/config"
	xhttp "github.com/driver4567/StockvsTrend/pkg/http"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
	"github.com/driver4567/StockvsTrend/pkg/metrics"
)

const trendsBody = `{"results":"{\"default\":{\"timelineData\":[{\"formattedTime\":\"Jan 6, 2019\",\"value\":[61]}]}}"}`

func newProviderStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stocks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tickerSymbol") != "WATT" {
			http.Error(w, "unexpected symbol", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[{"label":"Jan 2","close":4.2},{"label":"Jan 3","close":4.5}]`))
	})
	mux.HandleFunc("/api/googletrends", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trendsBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAppStartSubmitsDefaultsAndShutsDown(t *testing.T) {
	stub := newProviderStub(t)
	cfg, err := config.Parse([]byte(fmt.Sprintf(`
environment: test
server:
  port: 0
metrics:
  enabled: false
providers:
  base_url: %s
`, stub.URL)))
	require.NoError(t, err)

	l := applogger.Nop()
	client := xhttp.NewClient()
	fetchers := usecase.Fetchers{
		Stocks: provider.NewFetcher(client, cfg.Providers.BaseURL, provider.NewStocks(cfg.Providers.Stocks.Path), metrics.Noop{}, l),
		Trends: provider.NewFetcher(client, cfg.Providers.BaseURL, provider.NewTrends(cfg.Providers.Trends.Path), metrics.Noop{}, l),
	}
	orch := usecase.NewOrchestrator(fetchers, metrics.Noop{}, l)
	dash := usecase.NewDashboard(usecase.NewQueryStore(cfg.DefaultQuery()), orch, l)

	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	pub.EXPECT().Close().Return(nil)

	pipe := mid.NewEventPipeline(pub, metrics.Noop{}, l)
	hub := ws.NewHub(dash, time.Minute, time.Second, l)
	srv := xhttp.NewServer(xhttp.Handlers{hub}, l, xhttp.WithPort(0), xhttp.WithMetrics("", 0))

	app := New(cfg, l, dash, orch, pipe, pub, hub, srv)
	require.NoError(t, app.Start(t.Context()))

	require.Eventually(t, func() bool {
		out := app.Dashboard().Output()
		return out.Stocks.Status.Terminal() && out.Trends.Status.Terminal()
	}, 2*time.Second, 10*time.Millisecond)

	out := app.Dashboard().Output()
	require.Equal(t, models.StatusReady, out.Stocks.Status)
	require.Equal(t, "WATT", out.Stocks.QueryLabel)
	require.Equal(t, []models.SeriesPoint{{X: "Jan 2", Y: 4.2}, {X: "Jan 3", Y: 4.5}}, out.Stocks.Points)
	require.Equal(t, models.StatusReady, out.Trends.Status)
	require.Equal(t, "Energous", out.Trends.QueryLabel)

	require.NoError(t, app.Shutdown(context.Background()))
}
