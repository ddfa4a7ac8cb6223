package controllers

import (
	"net/http"

	"github.com/angelmondragon/scanpos/api/responses"
	"github.com/angelmondragon/scanpos/api/validators"
	"github.com/angelmondragon/scanpos/internal/display"
	"github.com/angelmondragon/scanpos/internal/scan"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

const defaultManualSymbol = "EAN13"

// ScanRequest is a keyed-in or wedge-scanner code.
type ScanRequest struct {
	Payload string `json:"payload" validate:"required,max=256,printascii"`
	Symbol  string `json:"symbol" validate:"omitempty,max=32,alphanum"`
}

// SubmitScan feeds a manual scan through the same pipeline as camera
// detections, at the session's current time.
func SubmitScan(sess Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScanRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		symbol := req.Symbol
		if symbol == "" {
			symbol = defaultManualSymbol
		}
		event := scan.Normalize(scan.Detection{Payload: []byte(req.Payload), Symbol: symbol})
		res := sess.HandleEvent(r.Context(), event, sess.Now())
		responses.WriteSuccess(w, ActionResponse{Result: res, Bill: display.NewBillView(sess.Snapshot())})
	}
}
