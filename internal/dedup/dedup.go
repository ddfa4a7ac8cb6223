// Package dedup suppresses repeated barcode reads of the same physical scan.
package dedup

import "time"

// DefaultCooldown is the window during which the same payload cannot
// re-trigger a ledger mutation.
const DefaultCooldown = 2 * time.Second

// Deduplicator remembers only the most recently accepted payload. Switching
// to a different payload is accepted immediately and restarts the window for
// the new payload.
//
// Deduplicator is not safe for concurrent use; the session serializes access.
type Deduplicator struct {
	cooldown    time.Duration
	lastPayload string
	lastSeen    time.Time
	hasLast     bool
}

// New builds a deduplicator. A negative cooldown is treated as zero.
func New(cooldown time.Duration) *Deduplicator {
	if cooldown < 0 {
		cooldown = 0
	}
	return &Deduplicator{cooldown: cooldown}
}

// Cooldown returns the configured window.
func (d *Deduplicator) Cooldown() time.Duration {
	return d.cooldown
}

// ShouldAccept reports whether payload may mutate the bill at now. On accept
// the payload and timestamp are recorded, whichever branch accepted it.
func (d *Deduplicator) ShouldAccept(payload string, now time.Time) bool {
	if d.hasLast && payload == d.lastPayload && now.Sub(d.lastSeen) < d.cooldown {
		return false
	}
	d.lastPayload = payload
	d.lastSeen = now
	d.hasLast = true
	return true
}
