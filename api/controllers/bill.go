package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/scanpos/api/responses"
	"github.com/angelmondragon/scanpos/api/validators"
	"github.com/angelmondragon/scanpos/internal/display"
	"github.com/angelmondragon/scanpos/internal/scan"
	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/logger"
)

// Session is the bill surface the HTTP adapter drives.
type Session interface {
	Snapshot() session.Snapshot
	RemoveSelected(ctx context.Context, code string) session.Result
	RemoveDiscount(ctx context.Context) session.Result
	HandleEvent(ctx context.Context, event scan.Event, now time.Time) session.Result
	Now() time.Time
}

// ActionResponse pairs the outcome of a user action with the bill after it.
type ActionResponse struct {
	Result session.Result   `json:"result"`
	Bill   display.BillView `json:"bill"`
}

func GetBill(sess Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, display.NewBillView(sess.Snapshot()))
	}
}

// RemoveBillLine removes the selected row. Selecting the discount row removes
// the discount. A row that is not on the bill is reported, not failed.
func RemoveBillLine(sess Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := validators.ParseCode(chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res := sess.RemoveSelected(r.Context(), code)
		responses.WriteSuccess(w, ActionResponse{Result: res, Bill: display.NewBillView(sess.Snapshot())})
	}
}

func RemoveBillDiscount(sess Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := sess.RemoveDiscount(r.Context())
		responses.WriteSuccess(w, ActionResponse{Result: res, Bill: display.NewBillView(sess.Snapshot())})
	}
}
