package conflict

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day value.
const MinutesPerDay = 24 * 60

var (
	meridiemTime = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)
	clockTime    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseTimeToMinutes converts "HH:MM" (24-hour) or "HH:MM AM/PM" (12-hour)
// to minutes since midnight. The second result is false for any other shape
// or for out-of-range fields.
//
// For 12-hour input the hour is taken literally: 12 becomes 0, then PM adds 12.
// So "12:00 AM" is 0, "12:00 PM" is 720 and "1:15 PM" is 795.
func ParseTimeToMinutes(text string) (int, bool) {
	s := strings.TrimSpace(text)

	if m := meridiemTime.FindStringSubmatch(s); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if hh == 12 {
			hh = 0
		}
		if strings.EqualFold(m[3], "pm") {
			hh += 12
		}
		return clockMinutes(hh, mm)
	}

	if m := clockTime.FindStringSubmatch(s); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return clockMinutes(hh, mm)
	}

	return 0, false
}

func clockMinutes(hh, mm int) (int, bool) {
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// MinutesToTime formats minutes since midnight as zero-padded "HH:MM".
// Hours wrap modulo 24. Negative input yields an empty string.
func MinutesToTime(m int) string {
	if m < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", (m/60)%24, m%60)
}

// Normalize returns the 24-hour "HH:MM" form of a 12h or 24h time string.
func Normalize(text string) (string, bool) {
	m, ok := ParseTimeToMinutes(text)
	if !ok {
		return "", false
	}
	return MinutesToTime(m), true
}
