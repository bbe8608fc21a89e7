package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	today := "2026-09-15"

	tests := []struct {
		name      string
		planDate  string
		hasPlan   bool
		hasReport bool
		want      DayStatus
	}{
		{"no plan", "", false, false, StatusAbsent},
		{"future plan", "2026-09-16", true, false, StatusPlanned},
		{"today without report", "2026-09-15", true, false, StatusWaiting},
		{"today with report", "2026-09-15", true, true, StatusDone},
		{"past without report", "2026-09-14", true, false, StatusWaiting},
		{"past with report", "2026-09-14", true, true, StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(today, tt.planDate, tt.hasPlan, tt.hasReport)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A report never counts without its plan: the plan branch is checked first.
func TestDeriveStatus_ReportWithoutPlanIsAbsent(t *testing.T) {
	got := DeriveStatus("2026-09-15", "", false, true)
	assert.Equal(t, StatusAbsent, got)
}
