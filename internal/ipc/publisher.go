package ipc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
)

const (
	DefaultHashKey     = "altreg"
	DefaultPublishRate = 1 * time.Second
)

// Client is the part of a redis client used by the Publisher.
type Client interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher mirrors the telemetry snapshot into a redis hash and announces
// regulator mode changes on "<key>:mode".
type Publisher struct {
	client Client
	store  *store.Store
	key    string
	rate   time.Duration

	mu       sync.Mutex
	lastMode string
}

func NewPublisher(client Client, s *store.Store, key string, rate time.Duration) *Publisher {
	if key == "" {
		key = DefaultHashKey
	}
	if rate <= 0 {
		rate = DefaultPublishRate
	}
	return &Publisher{
		client: client,
		store:  s,
		key:    key,
		rate:   rate,
	}
}

// NewClient connects to the redis server at addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func (p *Publisher) Run(ctx context.Context) error {
	ui.Info("Publishing telemetry to redis hash '%s' every %s", p.key, p.rate)

	tick := time.NewTicker(p.rate)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if err := p.Publish(ctx); err != nil {
				ui.Warning("%v", err)
			}
		}
	}
}

// Publish writes the current snapshot and, if the mode changed since the last
// successful call, publishes the new mode.
func (p *Publisher) Publish(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.store.Snapshot(time.Now())

	values := snapshot.Values()
	fields := make([]interface{}, 0, len(values)*2)
	for key, value := range values {
		fields = append(fields, key, value)
	}
	if err := p.client.HSet(ctx, p.key, fields...).Err(); err != nil {
		return fmt.Errorf("failed to send telemetry: %w", err)
	}

	if snapshot.Mode == p.lastMode {
		return nil
	}
	if err := p.client.Publish(ctx, p.ModeChannel(), snapshot.Mode).Err(); err != nil {
		return fmt.Errorf("failed to publish mode change: %w", err)
	}
	p.lastMode = snapshot.Mode
	return nil
}

func (p *Publisher) ModeChannel() string {
	return p.key + ":mode"
}
