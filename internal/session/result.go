package session

import (
	"github.com/angelmondragon/scanpos/pkg/enums"
)

// Source labels where a mutation attempt came from.
type Source string

const (
	SourceBarcode Source = "barcode"
	SourceQRCode  Source = "qrcode"
	SourceAction  Source = "action"
)

// Result tells the caller whether an attempt changed the session and, when it
// did not, why.
type Result struct {
	Source  Source             `json:"source"`
	Payload string             `json:"payload"`
	Status  enums.ScanOutcome  `json:"status"`
	Reason  enums.IgnoreReason `json:"reason,omitempty"`
}

// Accepted reports whether the attempt mutated the session.
func (r Result) Accepted() bool {
	return r.Status == enums.ScanOutcomeAccepted
}

func newResult(source Source, payload string, reason enums.IgnoreReason) Result {
	status := enums.ScanOutcomeAccepted
	if reason != enums.IgnoreReasonNone {
		status = enums.ScanOutcomeIgnored
	}
	return Result{Source: source, Payload: payload, Status: status, Reason: reason}
}
