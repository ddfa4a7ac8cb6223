package display

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

func sampleSnapshot(discounted bool) session.Snapshot {
	snap := session.Snapshot{
		SessionID: "sess-1",
		Version:   3,
		Lines: []session.Line{
			{Code: "A", Name: "Milk", Quantity: 3, UnitPrice: decimal.RequireFromString("30"), LineTotal: decimal.RequireFromString("90")},
		},
		Subtotal: decimal.RequireFromString("90"),
		Total:    decimal.RequireFromString("90"),
	}
	if discounted {
		snap.Discount = session.DiscountView{Applied: true, Percent: 10, Amount: decimal.RequireFromString("9")}
		snap.Total = decimal.RequireFromString("81")
	}
	return snap
}

func TestNewBillViewWithoutDiscount(t *testing.T) {
	view := NewBillView(sampleSnapshot(false))

	require.Len(t, view.Rows, 1)
	assert.Equal(t, RowView{ID: "A", Name: "Milk", Quantity: 3, UnitPrice: "30.00", LineTotal: "90.00"}, view.Rows[0])
	assert.Equal(t, "90.00", view.Total)
	assert.False(t, view.CanRemoveDiscount)
	assert.Zero(t, view.DiscountPercent)
	assert.Equal(t, "Total Bill Amount: ₹90.00", view.TotalLabel)
}

func TestNewBillViewWithDiscount(t *testing.T) {
	view := NewBillView(sampleSnapshot(true))

	require.Len(t, view.Rows, 2)
	assert.Equal(t, "discount", view.Rows[1].ID)
	assert.Equal(t, "Discount Applied", view.Rows[1].Name)
	assert.Equal(t, "-9.00", view.Rows[1].LineTotal)
	assert.Equal(t, "90.00", view.Subtotal)
	assert.Equal(t, "81.00", view.Total)
	assert.Equal(t, 10, view.DiscountPercent)
	assert.True(t, view.CanRemoveDiscount)
	assert.Equal(t, "Total Bill Amount: ₹81.00 (10% discount applied)", view.TotalLabel)
}

func TestMoneyRoundsOnlyForDisplay(t *testing.T) {
	assert.Equal(t, "3.34", Money(decimal.RequireFromString("3.335")))
	assert.Equal(t, "0.00", Money(decimal.Zero))
	assert.Equal(t, "-1.50", Money(decimal.RequireFromString("-1.5")))
}

type fakeBroker struct {
	sets      map[string]string
	published []string
	setErr    error
	pubErr    error
	deadline  bool
}

func (b *fakeBroker) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if b.setErr != nil {
		return b.setErr
	}
	_, b.deadline = ctx.Deadline()
	if b.sets == nil {
		b.sets = map[string]string{}
	}
	b.sets[key] = string(value.([]byte))
	return nil
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message any) error {
	if b.pubErr != nil {
		return b.pubErr
	}
	b.published = append(b.published, channel+"|"+string(message.([]byte)))
	return nil
}

func TestNewRedisPublisherValidates(t *testing.T) {
	_, err := NewRedisPublisher(RedisPublisherParams{Channel: "c"})
	require.Error(t, err)
	_, err = NewRedisPublisher(RedisPublisherParams{Broker: &fakeBroker{}})
	require.Error(t, err)
}

func TestRedisPublisherStoresAndPublishes(t *testing.T) {
	broker := &fakeBroker{}
	pub, err := NewRedisPublisher(RedisPublisherParams{Broker: broker, Channel: "scanpos:bill", SnapshotKey: "scanpos:bill:current"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub.OnStateChanged(ctx, sampleSnapshot(true))

	stored, ok := broker.sets["scanpos:bill:current"]
	require.True(t, ok)
	assert.True(t, broker.deadline)

	var view BillView
	require.NoError(t, json.Unmarshal([]byte(stored), &view))
	assert.Equal(t, "81.00", view.Total)
	assert.Equal(t, uint64(3), view.Version)

	require.Len(t, broker.published, 1)
	assert.Equal(t, "scanpos:bill|"+stored, broker.published[0])
}

func TestRedisPublisherLogsFailures(t *testing.T) {
	logs := &bytes.Buffer{}
	broker := &fakeBroker{pubErr: errors.New("connection refused")}
	pub, err := NewRedisPublisher(RedisPublisherParams{
		Broker:  broker,
		Channel: "scanpos:bill",
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: logs}),
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() { pub.OnStateChanged(context.Background(), sampleSnapshot(false)) })
	assert.Contains(t, logs.String(), "display publish failed")
	assert.Contains(t, logs.String(), "connection refused")
	assert.Empty(t, broker.sets)
}

func TestLogRendererAndMulti(t *testing.T) {
	logs := &bytes.Buffer{}
	var seen []uint64
	multi := Multi{
		NewLogRenderer(logger.New(logger.Options{ServiceName: "test", Output: logs})),
		nil,
		session.NotifierFunc(func(_ context.Context, snap session.Snapshot) {
			seen = append(seen, snap.Version)
		}),
	}

	multi.OnStateChanged(context.Background(), sampleSnapshot(false))

	assert.Equal(t, []uint64{3}, seen)
	assert.Contains(t, logs.String(), "bill.updated")
	assert.Contains(t, logs.String(), `"total":"90.00"`)
}
