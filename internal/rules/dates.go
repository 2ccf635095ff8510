package rules

import (
	"time"
)

// AddMonths returns start shifted forward by the given number of
// calendar months. The day of month is clamped to the last valid day of
// the target month, so Jan 31 + 1 month is Feb 28 (Feb 29 in a leap
// year) and Jan 31 + 18 months is Jul 31.
func AddMonths(start time.Time, months int) time.Time {
	month := int(start.Month()) - 1 + months
	year := start.Year() + month/12
	month = month % 12

	day := start.Day()
	if last := daysInMonth(year, time.Month(month+1)); day > last {
		day = last
	}

	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, start.Location())
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// onOrAfter compares two instants as calendar dates, ignoring the
// time-of-day and zone offset components.
func onOrAfter(today, due time.Time) bool {
	ty, tm, td := today.Date()
	dy, dm, dd := due.Date()
	if ty != dy {
		return ty > dy
	}
	if tm != dm {
		return tm > dm
	}
	return td >= dd
}
