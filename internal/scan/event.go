// Package scan turns raw decoder output into normalized scan events.
package scan

import (
	"strings"
)

// Kind classifies a decoded symbol.
type Kind string

const (
	KindBarcode Kind = "barcode"
	KindQRCode  Kind = "qrcode"
)

const qrSymbolLabel = "QRCODE"

// Rect is a bounding rectangle in image coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection is one raw decoder result.
type Detection struct {
	Payload []byte
	Symbol  string
	Rect    Rect
}

// Event is a normalized detection.
type Event struct {
	Payload string
	Kind    Kind
	Symbol  string
	Rect    Rect
}

// Normalize classifies a detection. A symbol label equal to QRCODE (any case)
// is a QR code, everything else is a barcode.
func Normalize(d Detection) Event {
	kind := KindBarcode
	if strings.EqualFold(strings.TrimSpace(d.Symbol), qrSymbolLabel) {
		kind = KindQRCode
	}
	return Event{
		Payload: strings.ToValidUTF8(string(d.Payload), "�"),
		Kind:    kind,
		Symbol:  d.Symbol,
		Rect:    d.Rect,
	}
}

// NormalizeAll keeps the decoder's order, one event per detection.
func NormalizeAll(detections []Detection) []Event {
	if len(detections) == 0 {
		return nil
	}
	events := make([]Event, 0, len(detections))
	for _, d := range detections {
		events = append(events, Normalize(d))
	}
	return events
}
