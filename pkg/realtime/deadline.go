package realtime

import "time"

// Deadline is the single pending timer of a room. It holds no game state; the
// owner reacts to fire by resolving whatever is open.
//
// Deadline is not safe for concurrent use. The owner guards it with its own
// lock and must take that lock inside fire before calling Current, so a
// callback that lost the race against Cancel or a re-arm does nothing.
type Deadline struct {
	StartedAt time.Time
	ExpiresAt time.Time

	gen   uint64
	timer *time.Timer
}

// Start cancels any pending timer and arms a new one for duration from now.
func (d *Deadline) Start(now time.Time, duration time.Duration, fire func(gen uint64)) {
	d.StartedAt = now
	d.arm(now, now.Add(duration), fire)
}

// ShortenTo pulls the expiry in to now+window when more than window remains,
// re-arming the timer. It never extends the deadline and reports whether it moved it.
func (d *Deadline) ShortenTo(now time.Time, window time.Duration, fire func(gen uint64)) bool {
	if !d.Active() || d.Remaining(now) <= window {
		return false
	}
	d.arm(now, now.Add(window), fire)
	return true
}

// Remaining returns the time left before expiry, never negative.
func (d *Deadline) Remaining(now time.Time) time.Duration {
	if d.ExpiresAt.IsZero() {
		return 0
	}
	left := d.ExpiresAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Active reports whether a timer is pending.
func (d *Deadline) Active() bool {
	return d.timer != nil
}

// Current reports whether gen belongs to the pending timer.
func (d *Deadline) Current(gen uint64) bool {
	return d.timer != nil && gen == d.gen
}

// Cancel stops the pending timer. Any callback already running becomes stale.
func (d *Deadline) Cancel() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Clear cancels the timer and forgets the schedule.
func (d *Deadline) Clear() {
	d.Cancel()
	d.StartedAt = time.Time{}
	d.ExpiresAt = time.Time{}
}

func (d *Deadline) arm(now, expiresAt time.Time, fire func(gen uint64)) {
	d.Cancel()
	d.ExpiresAt = expiresAt
	gen := d.gen
	wait := expiresAt.Sub(now)
	if wait < 0 {
		wait = 0
	}
	d.timer = time.AfterFunc(wait, func() { fire(gen) })
}
