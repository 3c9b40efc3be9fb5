package provider

import (
	"github.com/driver4567/StockvsTrend/internal/domain/models"
	domsvc "github.com/driver4567/StockvsTrend/internal/domain/service"
	"github.com/driver4567/StockvsTrend/internal/service/normalize"
)

// stockRangeCodes maps a date range onto the quotes API's range code.
var stockRangeCodes = map[models.DateRange]string{
	models.DateRange1Y: "1y",
	models.DateRange2Y: "2y",
	models.DateRange5Y: "5y",
}

// Stocks is the quotes provider strategy.
type Stocks struct {
	path string
}

func NewStocks(path string) *Stocks { return &Stocks{path: path} }

func (s *Stocks) Channel() models.Channel { return models.ChannelStocks }
func (s *Stocks) Path() string            { return s.path }

// Label is the upper-cased ticker.
func (s *Stocks) Label(input string) string { return models.NormalizeSymbol(input) }

func (s *Stocks) Params(input string, r models.DateRange) (map[string][]string, error) {
	code, ok := stockRangeCodes[r]
	if !ok {
		return nil, &models.ConfigurationError{
			Field:   models.FieldDateRange.String(),
			Value:   string(r),
			Message: "unsupported date range",
		}
	}
	return map[string][]string{
		"tickerSymbol": {models.NormalizeSymbol(input)},
		"dateRange":    {code},
	}, nil
}

func (s *Stocks) Normalize(raw []byte) ([]models.SeriesPoint, error) {
	return normalize.Stocks(raw)
}

// Trends is the search-trend provider strategy.
type Trends struct {
	path string
}

func NewTrends(path string) *Trends { return &Trends{path: path} }

func (t *Trends) Channel() models.Channel { return models.ChannelTrends }
func (t *Trends) Path() string            { return t.path }

func (t *Trends) Label(input string) string { return models.NormalizeSearchTerm(input) }

func (t *Trends) Params(input string, r models.DateRange) (map[string][]string, error) {
	if !r.IsSet() {
		return nil, &models.ConfigurationError{
			Field:   models.FieldDateRange.String(),
			Value:   string(r),
			Message: "unsupported date range",
		}
	}
	return map[string][]string{
		"searchTerm": {input},
		"dateRange":  {string(r)},
	}, nil
}

func (t *Trends) Normalize(raw []byte) ([]models.SeriesPoint, error) {
	return normalize.Trends(raw)
}

var (
	_ domsvc.SeriesStrategy = (*Stocks)(nil)
	_ domsvc.SeriesStrategy = (*Trends)(nil)
)
