// Package scanner drives the cooperative frame loop: pull a frame, decode it
// and hand the detections to the session, one frame at a time.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/scanpos/internal/capture"
	"github.com/angelmondragon/scanpos/internal/scan"
	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/logger"
	"github.com/angelmondragon/scanpos/pkg/metrics"
)

const DefaultTickInterval = 10 * time.Millisecond

// FrameHandler consumes the detections of one frame.
type FrameHandler interface {
	HandleFrame(ctx context.Context, detections []scan.Detection) []session.Result
}

// LoopParams configure the frame loop.
type LoopParams struct {
	Logger   *logger.Logger
	Source   capture.FrameSource
	Decoder  capture.Decoder
	Handler  FrameHandler
	Metrics  *metrics.ScanMetrics
	Interval time.Duration
}

// Loop polls the frame source on a fixed cadence.
type Loop struct {
	logg     *logger.Logger
	source   capture.FrameSource
	decoder  capture.Decoder
	handler  FrameHandler
	metrics  *metrics.ScanMetrics
	interval time.Duration
}

// NewLoop builds a frame loop.
func NewLoop(params LoopParams) (*Loop, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("frame source required")
	}
	if params.Decoder == nil {
		return nil, fmt.Errorf("decoder required")
	}
	if params.Handler == nil {
		return nil, fmt.Errorf("frame handler required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Loop{
		logg:     params.Logger,
		source:   params.Source,
		decoder:  params.Decoder,
		handler:  params.Handler,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run processes frames until the context is canceled or the device goes away.
// It does not close the frame source; the owner does.
func (l *Loop) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logg.Info(ctx, "frame loop context canceled")
			return ctx.Err()
		case <-ticker.C:
			if _, err := l.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick processes at most one frame. It returns the session results for the
// frame, or nil when there was nothing to process.
func (l *Loop) Tick(ctx context.Context) ([]session.Result, error) {
	img, ok, err := l.source.Next(ctx)
	switch {
	case errors.Is(err, capture.ErrDeviceUnavailable):
		return nil, fmt.Errorf("frame source: %w", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, nil
	case err != nil:
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "frame.read_failed")
		return nil, nil
	case !ok:
		return nil, nil
	}

	start := time.Now()
	defer func() { l.metrics.ObserveFrame(time.Since(start)) }()

	detections, err := l.decoder.Decode(img)
	if err != nil {
		l.metrics.IncDecodeError()
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "frame.decode_failed")
		return nil, nil
	}
	if len(detections) == 0 {
		return nil, nil
	}
	return l.handler.HandleFrame(ctx, detections), nil
}
