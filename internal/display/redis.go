package display

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

const defaultPublishTimeout = 250 * time.Millisecond

// Broker is the subset of the redis client the publisher needs.
type Broker interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Publish(ctx context.Context, channel string, message any) error
}

// RedisPublisherParams configure a RedisPublisher.
type RedisPublisherParams struct {
	Broker      Broker
	Logger      *logger.Logger
	Channel     string
	SnapshotKey string
	Timeout     time.Duration
}

// RedisPublisher stores the latest bill at a key and announces it on a
// channel so customer-facing displays can follow along. Failures are logged
// and never reach the scan path.
type RedisPublisher struct {
	broker      Broker
	logg        *logger.Logger
	channel     string
	snapshotKey string
	timeout     time.Duration
}

func NewRedisPublisher(params RedisPublisherParams) (*RedisPublisher, error) {
	if params.Broker == nil {
		return nil, fmt.Errorf("broker required")
	}
	if params.Channel == "" {
		return nil, fmt.Errorf("channel required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &RedisPublisher{
		broker:      params.Broker,
		logg:        logg,
		channel:     params.Channel,
		snapshotKey: params.SnapshotKey,
		timeout:     timeout,
	}, nil
}

func (p *RedisPublisher) OnStateChanged(ctx context.Context, snap session.Snapshot) {
	if err := p.publish(ctx, snap); err != nil {
		p.logg.Error(p.logg.WithFields(ctx, map[string]any{
			"channel": p.channel,
			"version": snap.Version,
		}), "display publish failed", err)
	}
}

func (p *RedisPublisher) publish(ctx context.Context, snap session.Snapshot) error {
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := json.Marshal(NewBillView(snap))
	if err != nil {
		return fmt.Errorf("marshal bill view: %w", err)
	}

	// bounded by the timeout only; caller cancellation is ignored
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if p.snapshotKey != "" {
		if err := p.broker.Set(pubCtx, p.snapshotKey, payload, 0); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
	}
	if err := p.broker.Publish(pubCtx, p.channel, payload); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}
