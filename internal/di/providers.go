package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/driver4567/StockvsTrend/internal/domain/repository"
	"github.com/driver4567/StockvsTrend/internal/handler/api"
	"github.com/driver4567/StockvsTrend/internal/handler/ws"
	mid "github.com/driver4567/StockvsTrend/internal/middleware"
	internalrepo "github.com/driver4567/StockvsTrend/internal/repository"
	"github.com/driver4567/StockvsTrend/internal/service/provider"
	"github.com/driver4567/StockvsTrend/internal/service/ratelimit"
	"github.com/driver4567/StockvsTrend/internal/usecase"
	"github.com/driver4567/StockvsTrend/pkg/config"
	xhttp "github.com/driver4567/StockvsTrend/pkg/http"
	pkgkafka "github.com/driver4567/StockvsTrend/pkg/kafka"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
	"github.com/driver4567/StockvsTrend/pkg/metrics"
	"github.com/driver4567/StockvsTrend/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or a no-op one when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Noop{}
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideHTTPClient creates the outbound provider client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Providers.RequestTimeout),
		xhttp.WithUserAgent(cfg.Providers.UserAgent),
	)
}

// ProvideFetchers builds one fetcher per channel over the shared client.
func ProvideFetchers(cfg *config.Config, client *xhttp.Client, m repository.Metrics, l *applogger.Logger) usecase.Fetchers {
	base := cfg.Providers.BaseURL
	return usecase.Fetchers{
		Stocks: provider.NewFetcher(client, base, provider.NewStocks(cfg.Providers.Stocks.Path), m, l),
		Trends: provider.NewFetcher(client, base, provider.NewTrends(cfg.Providers.Trends.Path), m, l),
	}
}

// ProvideQueryStore seeds the query state with the configured defaults.
func ProvideQueryStore(cfg *config.Config) *usecase.QueryStore {
	return usecase.NewQueryStore(cfg.DefaultQuery())
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideEventPublisher publishes to Kafka when enabled and to the log
// otherwise.
func ProvideEventPublisher(cfg *config.Config, l *applogger.Logger) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NewLogPublisher(l), nil
	}
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	l.Info("kafka publisher ready",
		applogger.Strings("brokers", cfg.Kafka.Brokers),
		applogger.String("topic", cfg.Kafka.Topic),
	)
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideEventPipeline creates the buffered pipeline in front of the publisher.
func ProvideEventPipeline(cfg *config.Config, pub repository.EventPublisher, m repository.Metrics, l *applogger.Logger) *mid.EventPipeline {
	return mid.NewEventPipeline(pub, m, l,
		mid.WithBufferSize(cfg.Kafka.BufferSize),
		mid.WithPublishTimeout(cfg.Kafka.Producer.WriteTimeout),
	)
}

// ProvideHub creates the snapshot stream hub.
func ProvideHub(cfg *config.Config, dash *usecase.Dashboard, l *applogger.Logger) *ws.Hub {
	return ws.NewHub(dash, cfg.Stream.PingInterval, cfg.Stream.WriteTimeout, l)
}

// ProvideHTTPServer creates the Echo server with every route registered.
func ProvideHTTPServer(cfg *config.Config, dash *usecase.Dashboard, hub *ws.Hub, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	dh := api.NewDashboardEchoHandler(l, dash)
	if rate := cfg.Server.SubmitRate; rate.Burst > 0 {
		dh.WithSubmitLimiter(ratelimit.New(rate.Burst, rate.RefillPerSec))
	}
	handlers := xhttp.Handlers{dh, hub}
	return xhttp.NewServer(handlers, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(metricsPath, cfg.Metrics.SlowThreshold),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	dash *usecase.Dashboard,
	orch *usecase.Orchestrator,
	pipeline *mid.EventPipeline,
	pub repository.EventPublisher,
	hub *ws.Hub,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, dash, orch, pipeline, pub, hub, srv)
}
