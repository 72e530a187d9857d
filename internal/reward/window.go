package reward

import "time"

// Window returns the current eligibility window [start, end) for a partner
// whose profile was created at anchor. start is the most recent
// anniversary of anchor that is not after now; end is the anniversary one
// year later. Anchors on a day that does not exist in the target year
// (Feb 29) clamp to the last valid day of the month, so every window is
// well defined.
func Window(anchor, now time.Time) (start, end time.Time) {
	start = anniversaryInYear(anchor, now.Year())
	if start.After(now) {
		start = anniversaryInYear(anchor, now.Year()-1)
	}
	end = anniversaryInYear(anchor, start.Year()+1)
	return start, end
}

// Alert describes a partner's position relative to their reward
// anniversary, used by the admin alert scan. Passed means the anniversary
// occurred within the look-back period and likely left unpaid vouchers
// behind; DaysUntil counts to the next anniversary.
type Alert struct {
	NextAnniversary time.Time
	DaysUntil       int
	DaysSinceLast   int
	Passed          bool
}

// AlertSpanDays is how far either side of the anniversary the alert scan
// looks.
const AlertSpanDays = 30

// AnniversaryAlert reports whether a partner created at anchor is within
// AlertSpanDays of their anniversary at now, either upcoming or recently
// passed. Recently-passed anniversaries (including today) take priority in
// the admin report. Day counts use the same clamped calendar anchoring as
// Window, never modulo-365 arithmetic, so they agree with the eligibility
// window across leap years.
func AnniversaryAlert(anchor, now time.Time) (Alert, bool) {
	start, end := Window(anchor, now)
	a := Alert{
		NextAnniversary: end,
		DaysUntil:       daysBetween(now, end),
		DaysSinceLast:   daysBetween(start, now),
	}
	a.Passed = a.DaysSinceLast <= AlertSpanDays
	if !a.Passed && a.DaysUntil > AlertSpanDays {
		return Alert{}, false
	}
	return a, true
}

// anniversaryInYear shifts anchor to the given year, clamping the day to
// the last valid day of the month when the source day overflows it.
func anniversaryInYear(anchor time.Time, year int) time.Time {
	day := anchor.Day()
	if last := lastDayOfMonth(year, anchor.Month()); day > last {
		day = last
	}
	return time.Date(year, anchor.Month(), day,
		anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
}

// lastDayOfMonth returns the number of days in the month. Day 0 of the
// following month normalizes to the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween returns the whole number of calendar days from a to b,
// comparing dates rather than instants so partial days do not skew the
// anniversary counts.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
