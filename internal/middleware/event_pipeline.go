package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	domrepo "github.com/driver4567/StockvsTrend/internal/domain/repository"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"
)

// EventPipeline sits between the orchestrator and the event publisher. It
// turns output snapshots into one ChannelEvent per terminal resolution and
// buffers them so the orchestrator never waits on the downstream.
type EventPipeline struct {
	pub     domrepo.EventPublisher
	metrics domrepo.Metrics
	logger  *applogger.Logger

	bufSize        int
	bufCh          chan *models.ChannelEvent
	stopCh         chan struct{}
	doneCh         chan struct{}
	publishTimeout time.Duration
	now            func() time.Time

	mu       sync.Mutex
	started  bool
	stopped  bool
	lastSent [len(models.Channels)]uint64
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets how many events may wait for the publisher.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithPublishTimeout bounds each publish call.
func WithPublishTimeout(d time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// WithClock overrides the resolution timestamp source.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *EventPipeline) { p.now = now }
}

func NewEventPipeline(pub domrepo.EventPublisher, metrics domrepo.Metrics, l *applogger.Logger, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		pub:            pub,
		metrics:        metrics,
		logger:         l,
		bufSize:        256,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
		publishTimeout: 10 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.ChannelEvent, p.bufSize)
	return p
}

// OnOutput queues an event for every channel that reached a terminal state
// under a dispatch id not seen before.
func (p *EventPipeline) OnOutput(out models.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}

	for _, ch := range models.Channels {
		r := out.Result(ch)
		if !r.Status.Terminal() || r.DispatchID == 0 || r.DispatchID == p.lastSent[ch] {
			continue
		}
		p.lastSent[ch] = r.DispatchID

		ev := &models.ChannelEvent{
			Channel:    ch.String(),
			DispatchID: r.DispatchID,
			Status:     r.Status,
			QueryLabel: r.QueryLabel,
			Reason:     r.Reason,
			DateRange:  out.Query.DateRange,
			Points:     len(r.Points),
			ResolvedAt: p.now().UTC(),
		}
		select {
		case p.bufCh <- ev:
		default:
			p.metrics.RecordError("event_buffer_full")
			p.logger.Warn("event dropped: buffer full",
				applogger.String("channel", ev.Channel),
				applogger.Uint64("dispatch_id", ev.DispatchID),
			)
		}
	}
}

// Start launches the publishing worker.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.doneCh)
		for {
			select {
			case <-p.stopCh:
				p.drain(ctx)
				return
			case ev := <-p.bufCh:
				p.publish(ctx, ev)
			}
		}
	}()
}

// Stop rejects new events, publishes what is buffered and waits for the
// worker to exit.
func (p *EventPipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	close(p.stopCh)
	if started {
		<-p.doneCh
	}
}

func (p *EventPipeline) drain(ctx context.Context) {
	for {
		select {
		case ev := <-p.bufCh:
			p.publish(ctx, ev)
		default:
			return
		}
	}
}

func (p *EventPipeline) publish(ctx context.Context, ev *models.ChannelEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()

	if err := p.pub.Publish(ctx, ev); err != nil {
		p.metrics.RecordError("event_publish")
		p.logger.Warn("event publish failed",
			applogger.String("channel", ev.Channel),
			applogger.Uint64("dispatch_id", ev.DispatchID),
			applogger.Error(err),
		)
	}
}
