package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", DateOf(d))

	_, err = ParseDate("15/09/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	next, err := AddDays("2026-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", next)

	prev, err := AddDays("2026-01-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", prev)
}

func TestParseClock(t *testing.T) {
	v, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	// Single digit hours are zero-padded so string comparison stays valid.
	v, err = ParseClock("9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	_, err = ParseClock("morning")
	assert.Error(t, err)
}

func TestParseClockPtr(t *testing.T) {
	v := ParseClockPtr("14:05")
	require.NotNil(t, v)
	assert.Equal(t, "14:05", *v)

	assert.Nil(t, ParseClockPtr(""))
	assert.Nil(t, ParseClockPtr("no"))
}

func TestJalali_Nowruz(t *testing.T) {
	jd := Jalali("2026-03-21")
	assert.Equal(t, 1405, jd.Year)
	assert.Equal(t, 1, jd.Month)
	assert.Equal(t, 1, jd.Day)
	assert.Equal(t, "1405-01-01", jd.Full())
}

func TestParseJalaliDate(t *testing.T) {
	g, err := ParseJalaliDate("1405-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-21", g)

	g, err = ParseJalaliDate("1405/01/01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-21", g)

	_, err = ParseJalaliDate("1405-13-01")
	assert.Error(t, err)

	_, err = ParseJalaliDate("nowruz")
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	g, err := NormalizeDate("2026-03-21")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-21", g)

	// The year decides the calendar.
	g, err = NormalizeDate("1405-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-21", g)

	g, err = NormalizeDate("1405/01/01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-21", g)

	_, err = NormalizeDate("someday")
	assert.Error(t, err)

	_, err = NormalizeDate("")
	assert.Error(t, err)
}
