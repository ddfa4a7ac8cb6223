// Package session owns the state of one scanning session (dedup window, bill
// ledger and discount slot) and routes normalized scan events into it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/scanpos/internal/bill"
	"github.com/angelmondragon/scanpos/internal/catalog"
	"github.com/angelmondragon/scanpos/internal/dedup"
	"github.com/angelmondragon/scanpos/internal/discount"
	"github.com/angelmondragon/scanpos/internal/scan"
	"github.com/angelmondragon/scanpos/pkg/enums"
	"github.com/angelmondragon/scanpos/pkg/logger"
	"github.com/angelmondragon/scanpos/pkg/metrics"
)

type Params struct {
	Catalog  catalog.Lookup
	Cooldown time.Duration
	Notifier Notifier
	Logger   *logger.Logger
	Metrics  *metrics.ScanMetrics
	Now      func() time.Time
}

// Session serializes every mutation; readers get consistent snapshots.
type Session struct {
	id       string
	mu       sync.Mutex
	dedup    *dedup.Deduplicator
	ledger   *bill.Ledger
	discount *discount.Controller
	notifier Notifier
	logg     *logger.Logger
	metrics  *metrics.ScanMetrics
	now      func() time.Time
	version  uint64
}

func New(params Params) (*Session, error) {
	if params.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		id:       uuid.NewString(),
		dedup:    dedup.New(params.Cooldown),
		ledger:   bill.NewLedger(params.Catalog),
		discount: discount.NewController(),
		notifier: params.Notifier,
		logg:     logg,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

func (s *Session) ID() string { return s.id }

// Now reads the session clock.
func (s *Session) Now() time.Time { return s.now() }

// HandleFrame processes every detection of one frame in decoder order. All
// events of a frame share one timestamp.
func (s *Session) HandleFrame(ctx context.Context, detections []scan.Detection) []Result {
	events := scan.NormalizeAll(detections)
	if len(events) == 0 {
		return nil
	}
	now := s.now()
	results := make([]Result, 0, len(events))
	for _, event := range events {
		results = append(results, s.HandleEvent(ctx, event, now))
	}
	return results
}

// HandleEvent routes QR codes to the discount slot and barcodes through the
// cooldown into the ledger.
func (s *Session) HandleEvent(ctx context.Context, event scan.Event, now time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.IncDetection(string(event.Kind))

	var res Result
	if event.Kind == scan.KindQRCode {
		res = s.applyDiscountLocked(ctx, event.Payload)
	} else {
		res = s.addScanLocked(ctx, event, now)
	}
	s.metrics.IncOutcome(string(res.Source), res.Status, res.Reason)
	return res
}

// RemoveSelected removes the bill line the operator selected. Selecting the
// discount row removes the discount instead.
func (s *Session) RemoveSelected(ctx context.Context, code string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason := s.ledger.RemoveLine(code)
	var res Result
	switch reason {
	case enums.IgnoreReasonDiscountRow:
		res = s.removeDiscountLocked(ctx)
		res.Payload = code
	case enums.IgnoreReasonNone:
		res = newResult(SourceAction, code, reason)
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"code": code, "session_id": s.id}), "bill.line_removed")
		s.notifyLocked(ctx)
	default:
		res = newResult(SourceAction, code, reason)
	}
	s.metrics.IncOutcome(string(res.Source), res.Status, res.Reason)
	return res
}

// RemoveDiscount disarms the discount slot.
func (s *Session) RemoveDiscount(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.removeDiscountLocked(ctx)
	s.metrics.IncOutcome(string(res.Source), res.Status, res.Reason)
	return res
}

// Snapshot returns the current bill.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) addScanLocked(ctx context.Context, event scan.Event, now time.Time) Result {
	if !s.dedup.ShouldAccept(event.Payload, now) {
		return newResult(SourceBarcode, event.Payload, enums.IgnoreReasonCooldown)
	}
	reason := s.ledger.AddScan(event.Payload)
	res := newResult(SourceBarcode, event.Payload, reason)
	if !res.Accepted() {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"payload": event.Payload,
			"symbol":  event.Symbol,
			"reason":  reason,
		}), "scan.ignored")
		return res
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"session_id": s.id,
		"payload":    event.Payload,
		"symbol":     event.Symbol,
		"rect":       event.Rect,
		"quantity":   s.ledger.Quantity(event.Payload),
	}), "scan.accepted")
	s.notifyLocked(ctx)
	return res
}

func (s *Session) applyDiscountLocked(ctx context.Context, payload string) Result {
	reason := s.discount.TryApply(payload)
	res := newResult(SourceQRCode, payload, reason)
	logCtx := s.logg.WithFields(ctx, map[string]any{"session_id": s.id, "payload": payload})
	switch {
	case res.Accepted():
		s.logg.Info(s.logg.WithField(logCtx, "percent", s.discount.State().Percent), "discount.applied")
		s.notifyLocked(ctx)
	case reason.IsDiscountRejection():
		s.logg.Warn(s.logg.WithField(logCtx, "reason", reason), "discount.rejected")
	}
	return res
}

func (s *Session) removeDiscountLocked(ctx context.Context) Result {
	reason := s.discount.Remove()
	res := newResult(SourceAction, bill.DiscountRowID, reason)
	if res.Accepted() {
		s.logg.Info(s.logg.WithField(ctx, "session_id", s.id), "discount.removed")
		s.notifyLocked(ctx)
	}
	return res
}

func (s *Session) notifyLocked(ctx context.Context) {
	s.version++
	snap := s.snapshotLocked()
	s.metrics.SetBillTotal(snap.Total)
	if s.notifier != nil {
		s.notifier.OnStateChanged(ctx, snap)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	state := s.discount.State()
	items := s.ledger.Lines()
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			Code:      item.Code,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		})
	}
	return Snapshot{
		SessionID: s.id,
		Version:   s.version,
		Lines:     lines,
		Discount: DiscountView{
			Applied: state.Applied,
			Percent: state.Percent,
			Amount:  s.ledger.DiscountAmount(state),
		},
		Subtotal: s.ledger.Total(),
		Total:    s.ledger.DisplayTotal(state),
	}
}
