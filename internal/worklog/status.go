package worklog

// DayStatus classifies one member's day across every list and overview
// screen. All call sites derive it through DeriveStatus; none re-implement
// the rule.
type DayStatus string

const (
	// StatusAbsent means no plan was authored for the day.
	StatusAbsent DayStatus = "absent"
	// StatusPlanned means the plan's date is still in the future.
	StatusPlanned DayStatus = "planned"
	// StatusWaiting means the day has arrived (or passed) with no report.
	StatusWaiting DayStatus = "waiting"
	// StatusDone means a report exists for the day.
	StatusDone DayStatus = "done"
)

// DeriveStatus computes the canonical four-way day status. Dates are stored
// ISO strings, so ordering is plain string comparison.
func DeriveStatus(today, planDate string, hasPlan, hasReport bool) DayStatus {
	switch {
	case !hasPlan:
		return StatusAbsent
	case planDate > today:
		return StatusPlanned
	case hasReport:
		return StatusDone
	default:
		return StatusWaiting
	}
}
