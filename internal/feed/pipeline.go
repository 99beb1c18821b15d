package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stockfeed/internal/domain"
	"stockfeed/internal/infra"
)

// Synthesizer produces trades for a quote and supplies the random pick
// used to select the single update emitted per tick.
type Synthesizer interface {
	Synthesize(quote domain.Quote) []domain.Trade
	PickIndex(n int) int
}

// Pipeline drives the poll→synthesize→emit cycle on a fixed interval.
// Each Start is an independent instance with its own timer; pipelines
// never share sampling schedules.
type Pipeline struct {
	provider domain.QuoteProvider
	synth    Synthesizer
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a pipeline. A non-positive interval defaults to one second.
func New(provider domain.QuoteProvider, synth Synthesizer, interval time.Duration) *Pipeline {
	if interval <= 0 {
		interval = time.Second
	}
	return &Pipeline{
		provider: provider,
		synth:    synth,
		interval: interval,
	}
}

// Start begins the tick loop. onTick receives exactly one TradeUpdate
// per cycle, in generation order, until the context is cancelled or
// Stop is called. No onTick invocation happens after Stop returns.
func (p *Pipeline) Start(ctx context.Context, onTick func(domain.TradeUpdate)) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// First cycle immediately; subscribers should not wait a full
		// period for their first update.
		p.cycle(ctx, onTick)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.cycle(ctx, onTick)
			}
		}
	}()
}

// Stop cancels the loop and waits for in-flight work to finish
func (p *Pipeline) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// cycle runs one sampling/synthesis/emission pass. A failure inside one
// cycle is fatal only to that tick.
func (p *Pipeline) cycle(ctx context.Context, onTick func(domain.TradeUpdate)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pipeline tick panic recovered", slog.Any("panic", r))
		}
	}()

	quotes := p.provider.SampleAll(ctx)
	if len(quotes) == 0 || ctx.Err() != nil {
		return
	}

	updates := make([]domain.TradeUpdate, 0, len(quotes))
	for _, quote := range quotes {
		trades := p.synth.Synthesize(quote)
		if len(trades) == 0 {
			continue
		}
		updates = append(updates, domain.TradeUpdate{Quote: quote, Trades: trades})
	}
	if len(updates) == 0 {
		return
	}

	// One randomly-chosen update per tick bounds per-tick output volume.
	update := updates[p.synth.PickIndex(len(updates))]

	if ctx.Err() != nil {
		return
	}
	onTick(update)
	infra.GlobalMetrics.RecordTick()
}
