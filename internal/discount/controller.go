// Package discount implements the single-slot, one-shot bill discount armed
// by scanning a QR code that carries an integer percentage.
package discount

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/scanpos/pkg/enums"
)

const (
	MinPercent = 1
	MaxPercent = 100
)

// State is the discount slot. Percent is zero whenever Applied is false.
type State struct {
	Applied bool
	Percent int
}

// Controller owns the discount slot. It starts unarmed; only Remove leaves
// the armed state, so re-scans of any QR code while armed change nothing.
//
// Controller is not safe for concurrent use; the session serializes access.
type Controller struct {
	state State
}

func NewController() *Controller {
	return &Controller{}
}

// State returns the current slot.
func (c *Controller) State() State {
	return c.state
}

// TryApply arms the discount from a QR payload.
func (c *Controller) TryApply(payload string) enums.IgnoreReason {
	if c.state.Applied {
		return enums.IgnoreReasonDiscountAlreadyArmed
	}
	percent, reason := ParsePercent(payload)
	if reason != enums.IgnoreReasonNone {
		return reason
	}
	c.state = State{Applied: true, Percent: percent}
	return enums.IgnoreReasonNone
}

// Remove disarms the discount.
func (c *Controller) Remove() enums.IgnoreReason {
	if !c.state.Applied {
		return enums.IgnoreReasonDiscountNotArmed
	}
	c.state = State{}
	return enums.IgnoreReasonNone
}

// ParsePercent reads a base-10 integer percentage in [MinPercent, MaxPercent].
// Surrounding whitespace is ignored.
func ParsePercent(payload string) (int, enums.IgnoreReason) {
	value, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, enums.IgnoreReasonDiscountNotInteger
	}
	if value < MinPercent || value > MaxPercent {
		return 0, enums.IgnoreReasonDiscountOutOfRange
	}
	return value, enums.IgnoreReasonNone
}
