package notify

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Notification kinds, used as the metric label.
const (
	KindApplicationReceived = "application_received"
	KindApplicationDecision = "application_decision"
	KindPasswordReset       = "password_reset"
	KindEvent               = "event"
)

type Options struct {
	Timeout   time.Duration
	PerSecond float64
	Burst     int
	Counter   *prometheus.CounterVec // labels: kind, result
}

// Dispatcher sends emails and events in the background. Callers never see
// delivery errors; they are logged and counted.
type Dispatcher struct {
	mailer    Mailer
	renderer  *Renderer
	publisher events.Publisher
	limiter   *rate.Limiter
	timeout   time.Duration
	counter   *prometheus.CounterVec
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(mailer Mailer, renderer *Renderer, publisher events.Publisher, opts Options, log *zap.Logger) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.PerSecond > 0 {
		limit = rate.Limit(opts.PerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Dispatcher{
		mailer:    mailer,
		renderer:  renderer,
		publisher: publisher,
		limiter:   rate.NewLimiter(limit, opts.Burst),
		timeout:   opts.Timeout,
		counter:   opts.Counter,
		log:       log,
	}
}

func (d *Dispatcher) ApplicationReceived(to, name, campaignTitle string, proposedPrice *string) {
	price := ""
	if proposedPrice != nil {
		price = *proposedPrice
	}
	d.email(KindApplicationReceived, TplApplicationReceived, to, map[string]any{
		"Name":          name,
		"CampaignTitle": campaignTitle,
		"ProposedPrice": price,
	})
}

func (d *Dispatcher) ApplicationDecision(to, name, campaignTitle, status string) {
	decision := "rejected"
	if status == "ACCEPTED" {
		decision = "accepted"
	}
	d.email(KindApplicationDecision, TplApplicationDecision, to, map[string]any{
		"Name":          name,
		"CampaignTitle": campaignTitle,
		"Status":        status,
		"Decision":      decision,
	})
}

func (d *Dispatcher) PasswordReset(to, name, link string) {
	d.email(KindPasswordReset, TplPasswordReset, to, map[string]any{
		"Name": name,
		"Link": link,
	})
}

// Publish pushes an event on channel in the background.
func (d *Dispatcher) Publish(channel string, event events.Event) {
	d.run(KindEvent, func(ctx context.Context) error {
		return d.publisher.Publish(ctx, channel, event)
	})
}

func (d *Dispatcher) email(kind, tpl, to string, data map[string]any) {
	d.run(kind, func(ctx context.Context) error {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		msg, err := d.renderer.Render(tpl, to, data)
		if err != nil {
			return err
		}
		return d.mailer.Send(ctx, msg)
	})
}

// run executes fn on its own goroutine with a context detached from the
// request that triggered it.
func (d *Dispatcher) run(kind string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("notification panicked", zap.String("kind", kind), zap.Any("panic", r))
				d.count(kind, "error")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.log.Warn("notification failed", zap.String("kind", kind), zap.Error(err))
			d.count(kind, "error")
			return
		}
		d.count(kind, "ok")
	}()
}

func (d *Dispatcher) count(kind, result string) {
	if d.counter != nil {
		d.counter.WithLabelValues(kind, result).Inc()
	}
}

// Wait blocks until all in-flight notifications finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
