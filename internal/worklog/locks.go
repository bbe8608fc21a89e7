package worklog

import "time"

// EndOfDay returns 23:59:59 local time on the given day.
func EndOfDay(d time.Time) time.Time {
	d = d.In(time.Local)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.Local)
}

// PlanLock returns the instant a plan for the given date becomes read-only:
// the end of the day before the plan's date.
func PlanLock(date time.Time) time.Time {
	return EndOfDay(date.AddDate(0, 0, -1))
}

// ReportLock returns the instant a report for the given date becomes
// read-only: the end of the report's own date.
func ReportLock(date time.Time) time.Time {
	return EndOfDay(date)
}

// IsLockedAt reports whether now is at or past the lock instant. Both
// operands are normalized to the local timezone first, so values scanned
// back from the database in a different zone compare as instants.
func IsLockedAt(lockedAt, now time.Time) bool {
	if lockedAt.IsZero() {
		return false
	}
	return !now.In(time.Local).Before(lockedAt.In(time.Local))
}

// IsLocked reports whether the lock instant has already passed.
func IsLocked(lockedAt time.Time) bool {
	return IsLockedAt(lockedAt, time.Now())
}
