package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/config"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/db"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"go.uber.org/zap"
)

// Event bridge: subscribes to the application events published by the API
// and forwards each one to EVENT_WEBHOOK_URL.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.EventWebhookURL == "" {
		log.Fatal("EVENT_WEBHOOK_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	fwd := newForwarder(cfg.EventWebhookURL, log)
	subscriber := events.NewRedisSubscriber(rdb, log)
	if err := subscriber.Subscribe(ctx, events.ChannelApplications, func(event events.Event) {
		fwd.forward(ctx, event)
	}); err != nil {
		log.Fatal("failed to subscribe", zap.String("channel", events.ChannelApplications), zap.Error(err))
	}

	log.Info("event-bridge started", zap.String("channel", events.ChannelApplications))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down event-bridge")
	cancel()
}

const forwardAttempts = 3

type forwarder struct {
	url     string
	client  *http.Client
	backoff time.Duration
	log     *zap.Logger
}

func newForwarder(url string, log *zap.Logger) *forwarder {
	return &forwarder{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		backoff: time.Second,
		log:     log,
	}
}

// forward posts the event as JSON, retrying transport errors and 5xx
// responses with exponential backoff. A 4xx is final.
func (f *forwarder) forward(ctx context.Context, event events.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		f.log.Error("failed to encode event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	backoff := retry.WithMaxRetries(forwardAttempts-1, retry.NewExponential(f.backoff))
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := f.post(ctx, body)
		if err != nil {
			f.log.Warn("event forward failed",
				zap.String("type", event.Type),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	})
	if err != nil {
		f.log.Error("event dropped", zap.String("type", event.Type), zap.Int("attempts", attempt), zap.Error(err))
		return
	}
	f.log.Info("event forwarded", zap.String("type", event.Type))
}

// post returns a retry.RetryableError for failures worth another attempt.
func (f *forwarder) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("webhook returned %d", resp.StatusCode))
	case resp.StatusCode >= 300:
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
