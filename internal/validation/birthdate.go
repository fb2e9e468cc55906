package validation

import (
	"regexp"
	"strconv"
	"time"
)

var birthDateRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// ValidateBirthDate checks a DD/MM/YYYY birth date: it must be a real
// calendar date, must not be in the future, and the year-based age must be
// within [18, 120]. The clock is injected so tests are deterministic.
func ValidateBirthDate(date string, now time.Time) bool {
	m := birthDateRe.FindStringSubmatch(date)
	if m == nil {
		return false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())

	// time.Date normalizes overflows (e.g. 29/02/2001 becomes March 1st),
	// so a round trip mismatch means the input was not a real date.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return false
	}

	if d.After(now) {
		return false
	}

	age := now.Year() - year
	if age < 18 || age > 120 {
		return false
	}

	return true
}

// BirthDateToISO converts DD/MM/YYYY to the YYYY-MM-DD form stored in the
// clients table. It assumes the input already passed ValidateBirthDate.
func BirthDateToISO(date string) string {
	m := birthDateRe.FindStringSubmatch(date)
	if m == nil {
		return ""
	}
	return m[3] + "-" + m[2] + "-" + m[1]
}
