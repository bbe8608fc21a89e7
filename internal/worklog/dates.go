package worklog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

const (
	// DateLayout is how calendar dates are persisted. Zero-padded ISO
	// dates compare correctly as strings.
	DateLayout = "2006-01-02"

	// ClockLayout is how block times are persisted ("09:30").
	ClockLayout = "15:04"
)

// Today returns the current calendar date in the process's local timezone.
func Today() string {
	return time.Now().In(time.Local).Format(DateLayout)
}

// ParseDate parses a stored date string in the local timezone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateOf formats an instant as a stored date string in the local timezone.
func DateOf(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// AddDays shifts a stored date string by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return DateOf(t.AddDate(0, 0, n)), nil
}

// ParseClock validates an "HH:MM" string and returns it zero-padded.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Format(ClockLayout), nil
}

// ParseClockPtr parses an optional "HH:MM" value from free text. Empty or
// unparsable input yields nil rather than an error.
func ParseClockPtr(s string) *string {
	v, err := ParseClock(s)
	if err != nil {
		return nil
	}
	return &v
}

// JalaliDate carries the display parts of a date in the Persian calendar.
type JalaliDate struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
}

// Full returns the date as "1404-09-26".
func (j JalaliDate) Full() string {
	return fmt.Sprintf("%04d-%02d-%02d", j.Year, j.Month, j.Day)
}

// Jalali converts a stored Gregorian date string to its Persian calendar
// representation for display. Stored dates are always well formed; a bad
// one yields the zero value.
func Jalali(date string) JalaliDate {
	t, err := ParseDate(date)
	if err != nil {
		return JalaliDate{}
	}
	pt := ptime.New(t)
	return JalaliDate{
		Year:      pt.Year(),
		Month:     int(pt.Month()),
		Day:       pt.Day(),
		MonthName: pt.Month().String(),
		Weekday:   pt.Weekday().String(),
	}
}

// ParseJalaliDate parses a user-supplied Jalali date ("1404-09-26" or
// "1404/09/26") and returns the Gregorian stored form.
func ParseJalaliDate(s string) (string, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	parts := strings.Split(v, "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid jalali date %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("invalid jalali date %q", s)
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 {
		return "", fmt.Errorf("invalid jalali date %q", s)
	}
	pt := ptime.Date(nums[0], ptime.Month(nums[1]), nums[2], 0, 0, 0, 0, time.Local)
	return DateOf(pt.Time()), nil
}

// NormalizeDate parses a user-supplied date in either calendar and returns
// the stored Gregorian form. Jalali years sit centuries below Gregorian
// ones, so the year field decides which calendar the value is in.
func NormalizeDate(s string) (string, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	if year, _, ok := strings.Cut(v, "-"); ok {
		if n, err := strconv.Atoi(year); err == nil && n > 0 && n < 1700 {
			return ParseJalaliDate(v)
		}
	}
	t, err := ParseDate(v)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}
