package display

import (
	"context"

	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

// LogRenderer writes every bill change to the structured log.
type LogRenderer struct {
	logg *logger.Logger
}

func NewLogRenderer(logg *logger.Logger) *LogRenderer {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogRenderer{logg: logg}
}

func (r *LogRenderer) OnStateChanged(ctx context.Context, snap session.Snapshot) {
	view := NewBillView(snap)
	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"session_id": view.SessionID,
		"version":    view.Version,
		"rows":       len(view.Rows),
		"total":      view.Total,
	}), "bill.updated")
}

// Multi fans a snapshot out to several notifiers in order.
type Multi []session.Notifier

func (m Multi) OnStateChanged(ctx context.Context, snap session.Snapshot) {
	for _, n := range m {
		if n == nil {
			continue
		}
		n.OnStateChanged(ctx, snap)
	}
}
