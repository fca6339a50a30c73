package study

import "time"

// ScheduleRollover arms a timer for the next local midnight. The
// timer re-arms itself after firing, recomputing the delay from the
// wall clock each time so suspend/resume drift doesn't accumulate.
// Call Close to cancel the pending timer on teardown.
func (l *Ledger) ScheduleRollover() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scheduleLocked()
}

func (l *Ledger) scheduleLocked() {
	if l.closed {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	now := l.now()
	delay := nextMidnight(now).Sub(now)
	l.timer = time.AfterFunc(delay, func() {
		// Rollover itself re-checks the date, so a timer that fires
		// early or was armed across a suspend is harmless.
		_, _ = l.Rollover()

		l.mu.Lock()
		defer l.mu.Unlock()
		l.scheduleLocked()
	})
}

// Close cancels the pending rollover timer, if any. The ledger stays
// usable for start/stop, only the autonomous reset is gone.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// nextMidnight returns the first instant of the next local day.
func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
