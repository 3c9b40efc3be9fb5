package models

import "time"

// Channel identifies one of the two independent data series.
type Channel int

const (
	ChannelStocks Channel = iota
	ChannelTrends
)

// Channels lists every channel in display order.
var Channels = [...]Channel{ChannelStocks, ChannelTrends}

func (c Channel) String() string {
	switch c {
	case ChannelStocks:
		return "stocks"
	case ChannelTrends:
		return "trends"
	default:
		return "unknown"
	}
}

// SeriesPoint is one normalized chart point.
type SeriesPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Status is the ChannelResult variant tag.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusInvalid Status = "invalid"
	StatusFailed  Status = "failed"
)

// Terminal reports whether s ends a dispatch.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusInvalid || s == StatusFailed
}

// ChannelResult is the per-channel outcome of a dispatch. Build it with the
// constructors below; a result is never mutated once built.
type ChannelResult struct {
	Status     Status        `json:"status"`
	Points     []SeriesPoint `json:"points,omitempty"`
	QueryLabel string        `json:"queryLabel,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	DispatchID uint64        `json:"dispatchId,omitempty"`
}

func Idle() ChannelResult    { return ChannelResult{Status: StatusIdle} }
func Loading() ChannelResult { return ChannelResult{Status: StatusLoading} }

// Ready holds a non-empty series. An empty series is reported as Invalid.
func Ready(points []SeriesPoint, label string) ChannelResult {
	if len(points) == 0 {
		return Invalid(label)
	}
	return ChannelResult{Status: StatusReady, Points: points, QueryLabel: label}
}

func Invalid(label string) ChannelResult {
	return ChannelResult{Status: StatusInvalid, QueryLabel: label}
}

func Failed(reason string) ChannelResult {
	return ChannelResult{Status: StatusFailed, Reason: reason}
}

// WithLabel returns a copy of r labelled with the query it failed for.
func (r ChannelResult) WithLabel(label string) ChannelResult {
	r.QueryLabel = label
	return r
}

// clone copies the points slice so snapshots never alias internal state.
func (r ChannelResult) clone() ChannelResult {
	if r.Points != nil {
		r.Points = append([]SeriesPoint(nil), r.Points...)
	}
	return r
}

// ProviderParams is the per-channel input of a fetch.
type ProviderParams struct {
	Input     string
	DateRange DateRange
}

// Output is a numbered snapshot of both channels handed to the presentation
// boundary.
type Output struct {
	Seq    uint64        `json:"seq"`
	Query  QueryState    `json:"query"`
	Stocks ChannelResult `json:"stocks"`
	Trends ChannelResult `json:"trends"`
}

// Result returns the result of channel c.
func (o Output) Result(c Channel) ChannelResult {
	if c == ChannelTrends {
		return o.Trends
	}
	return o.Stocks
}

// Clone deep-copies the point slices of o.
func (o Output) Clone() Output {
	o.Stocks = o.Stocks.clone()
	o.Trends = o.Trends.clone()
	return o
}

// ChannelEvent is published once per terminal channel resolution.
type ChannelEvent struct {
	Channel    string    `json:"channel"`
	DispatchID uint64    `json:"dispatchId"`
	Status     Status    `json:"status"`
	QueryLabel string    `json:"queryLabel,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	DateRange  DateRange `json:"dateRange"`
	Points     int       `json:"points"`
	ResolvedAt time.Time `json:"resolvedAt"`
}
