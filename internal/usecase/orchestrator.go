package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	domrepo "github.com/driver4567/StockvsTrend/internal/domain/repository"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

// Observer receives every new output snapshot, in order. It is called with
// the orchestrator lock held, so it must not block or call back into the
// orchestrator.
type Observer interface {
	OnOutput(out models.Output)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(models.Output)

func (f ObserverFunc) OnOutput(out models.Output) { f(out) }

// Fetchers pairs the two channel fetchers.
type Fetchers struct {
	Stocks domrepo.SeriesFetcher
	Trends domrepo.SeriesFetcher
}

type channelState struct {
	fetcher    domrepo.SeriesFetcher
	result     models.ChannelResult
	dispatchID uint64
	lastKey    string
	dispatched bool
	cancel     context.CancelFunc
}

type observerEntry struct {
	id  uint64
	obs Observer
}

// Orchestrator runs both channels against the submitted query. Each channel
// remembers the id of its latest dispatch; a fetch result is applied only if
// it carries that id, so the last request wins regardless of which response
// arrives last.
type Orchestrator struct {
	mu        sync.Mutex
	channels  [len(models.Channels)]*channelState
	query     models.QueryState
	lastID    uint64
	seq       uint64
	observers []observerEntry
	lastObsID uint64

	// inflight counts started fetches that have not resolved; idle is
	// signalled on o.mu when it drops to zero.
	inflight int
	idle     *sync.Cond

	ctx  context.Context
	stop context.CancelFunc

	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewOrchestrator(f Fetchers, metrics domrepo.Metrics, l *applogger.Logger) *Orchestrator {
	ctx, stop := context.WithCancel(context.Background())
	o := &Orchestrator{ctx: ctx, stop: stop, metrics: metrics, logger: l}
	o.idle = sync.NewCond(&o.mu)
	o.channels[models.ChannelStocks] = &channelState{fetcher: f.Stocks, result: models.Idle()}
	o.channels[models.ChannelTrends] = &channelState{fetcher: f.Trends, result: models.Idle()}
	return o
}

// Dispatch starts a fetch for every channel whose input changed since its
// last dispatch. It is a no-op when the query has no date range.
func (o *Orchestrator) Dispatch(q models.QueryState) models.Output {
	return o.dispatch(q, false)
}

// Redispatch forgets the last inputs and dispatches both channels again.
func (o *Orchestrator) Redispatch(q models.QueryState) models.Output {
	return o.dispatch(q, true)
}

func (o *Orchestrator) dispatch(q models.QueryState, force bool) models.Output {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !q.Complete() {
		o.logger.Debug("dispatch skipped: date range unset")
		return o.outputLocked()
	}

	started := 0
	for _, ch := range models.Channels {
		st := o.channels[ch]
		params := paramsFor(q, ch)
		key := dispatchKey(params)
		if !force && st.dispatched && st.lastKey == key {
			continue
		}

		if st.cancel != nil {
			st.cancel()
		}
		o.lastID++
		id := o.lastID
		ctx, cancel := context.WithCancel(o.ctx)
		st.dispatchID = id
		st.lastKey = key
		st.dispatched = true
		st.cancel = cancel
		st.result = models.Loading()
		st.result.DispatchID = id
		started++

		o.metrics.RecordDispatch(ch.String())
		o.logger.Debug("dispatch",
			applogger.String("channel", ch.String()),
			applogger.Uint64("dispatch_id", id),
			applogger.String("input", params.Input),
			applogger.String("date_range", string(params.DateRange)),
		)

		o.inflight++
		go o.run(ctx, ch, id, st.fetcher, params)
	}

	if started > 0 {
		o.query = q
		o.publishLocked()
	}
	return o.outputLocked()
}

func (o *Orchestrator) run(ctx context.Context, ch models.Channel, id uint64, f domrepo.SeriesFetcher, params models.ProviderParams) {
	var res models.ChannelResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				o.metrics.RecordError("fetch_panic")
				o.logger.Error("fetcher panicked",
					applogger.String("channel", ch.String()),
					applogger.Error(fmt.Errorf("%v", r)),
				)
				res = models.Failed("internal error").WithLabel(params.Input)
			}
		}()
		res = f.Fetch(ctx, params)
	}()

	o.resolve(ch, id, res)
}

func (o *Orchestrator) resolve(ch models.Channel, id uint64, res models.ChannelResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.fetchDoneLocked()

	st := o.channels[ch]
	if id != st.dispatchID {
		o.metrics.RecordStale(ch.String())
		o.logger.Debug("stale result discarded",
			applogger.String("channel", ch.String()),
			applogger.Uint64("dispatch_id", id),
			applogger.Uint64("latest_id", st.dispatchID),
		)
		return
	}

	if !res.Status.Terminal() {
		o.metrics.RecordError("non_terminal_result")
		res = models.Failed("internal error").WithLabel(res.QueryLabel)
	}
	res.DispatchID = id
	st.result = res
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}

	o.logger.Debug("channel resolved",
		applogger.String("channel", ch.String()),
		applogger.Uint64("dispatch_id", id),
		applogger.String("status", string(res.Status)),
	)
	o.publishLocked()
}

// Output returns the current snapshot.
func (o *Orchestrator) Output() models.Output {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outputLocked()
}

// Subscribe registers obs for every future snapshot. The returned function
// removes it.
func (o *Orchestrator) Subscribe(obs Observer) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.lastObsID++
	id := o.lastObsID
	o.observers = append(o.observers, observerEntry{id: id, obs: obs})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, e := range o.observers {
			if e.id == id {
				o.observers = append(o.observers[:i:i], o.observers[i+1:]...)
				return
			}
		}
	}
}

// Wait blocks until no fetch is in flight. Dispatches made while it waits
// extend the wait.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for o.inflight > 0 {
		o.idle.Wait()
	}
}

// Close cancels in-flight fetches and waits for them.
func (o *Orchestrator) Close() {
	o.stop()
	o.Wait()
}

func (o *Orchestrator) fetchDoneLocked() {
	o.inflight--
	if o.inflight == 0 {
		o.idle.Broadcast()
	}
}

func (o *Orchestrator) publishLocked() {
	o.seq++
	out := o.outputLocked()
	for _, e := range o.observers {
		e.obs.OnOutput(out)
	}
}

func (o *Orchestrator) outputLocked() models.Output {
	return models.Output{
		Seq:    o.seq,
		Query:  o.query,
		Stocks: o.channels[models.ChannelStocks].result,
		Trends: o.channels[models.ChannelTrends].result,
	}.Clone()
}

func paramsFor(q models.QueryState, ch models.Channel) models.ProviderParams {
	input := q.Symbol
	if ch == models.ChannelTrends {
		input = q.SearchTerm
	}
	return models.ProviderParams{Input: input, DateRange: q.DateRange}
}

// dispatchKey is the relevant input of a channel: trimmed text plus range.
func dispatchKey(p models.ProviderParams) string {
	return strings.TrimSpace(p.Input) + "\x00" + string(p.DateRange)
}
