// Package provider talks to the quotes and trends APIs. A single Fetcher
// implements the request/classification flow; a SeriesStrategy supplies the
// provider-specific endpoint, parameters and payload shape.
package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	domrepo "github.com/driver4567/StockvsTrend/internal/domain/repository"
	domsvc "github.com/driver4567/StockvsTrend/internal/domain/service"
	xhttp "github.com/driver4567/StockvsTrend/pkg/http"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

// Fetch outcomes, used as the metrics "outcome" label.
const (
	outcomeReady         = "ready"
	outcomeInputEmpty    = "input_empty"
	outcomeNoData        = "no_data"
	outcomeConfiguration = "configuration"
	outcomeTransport     = "transport"
	outcomeMalformed     = "malformed"
	outcomeProviderError = "provider_error"
)

// Fetcher implements domrepo.SeriesFetcher against one provider.
type Fetcher struct {
	client   *xhttp.Client
	baseURL  string
	strategy domsvc.SeriesStrategy
	metrics  domrepo.Metrics
	logger   *applogger.Logger
}

func NewFetcher(client *xhttp.Client, baseURL string, strategy domsvc.SeriesStrategy, metrics domrepo.Metrics, l *applogger.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		strategy: strategy,
		metrics:  metrics,
		logger:   l.With(applogger.String("channel", strategy.Channel().String())),
	}
}

// Fetch makes at most one request and always returns a terminal result.
func (f *Fetcher) Fetch(ctx context.Context, params models.ProviderParams) models.ChannelResult {
	start := time.Now()
	res, outcome := f.fetch(ctx, params)
	f.metrics.RecordFetch(f.strategy.Channel().String(), outcome, time.Since(start).Seconds())
	return res
}

func (f *Fetcher) fetch(ctx context.Context, params models.ProviderParams) (models.ChannelResult, string) {
	input := strings.TrimSpace(params.Input)
	if input == "" {
		f.logger.Debug("fetch skipped: empty input")
		return models.Invalid(""), outcomeInputEmpty
	}
	label := f.strategy.Label(input)

	query, err := f.strategy.Params(input, params.DateRange)
	if err != nil {
		f.logger.Warn("fetch rejected", applogger.String("label", label), applogger.Error(err))
		return models.Failed(err.Error()).WithLabel(label), outcomeConfiguration
	}

	body, err := f.client.SendAndRead(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         f.baseURL + f.strategy.Path(),
		QueryParams: query,
	})
	if err != nil {
		if ctx.Err() != nil {
			f.logger.Debug("fetch abandoned", applogger.String("label", label), applogger.Error(err))
		} else {
			f.logger.Warn("fetch transport error", applogger.String("label", label), applogger.Error(err))
		}
		return models.Failed(models.ErrTransport.Error()).WithLabel(label), outcomeTransport
	}

	points, err := f.strategy.Normalize(body)
	var pe *models.ProviderError
	switch {
	case err == nil:
		f.logger.Debug("fetch ready", applogger.String("label", label), applogger.Int("points", len(points)))
		return models.Ready(points, label), outcomeReady
	case errors.Is(err, models.ErrNoData):
		return models.Invalid(label), outcomeNoData
	case errors.As(err, &pe):
		f.logger.Warn("provider reported error", applogger.String("label", label), applogger.String("message", pe.Message))
		return models.Failed(pe.Message).WithLabel(label), outcomeProviderError
	default:
		f.logger.Warn("malformed payload", applogger.String("label", label), applogger.Error(err))
		return models.Failed(models.ErrMalformedPayload.Error()).WithLabel(label), outcomeMalformed
	}
}

var _ domrepo.SeriesFetcher = (*Fetcher)(nil)
