package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const minutesPerDay = 24 * 60

// ErrInvalidClock is returned for a time of day that is not "HH:MM".
var ErrInvalidClock = errors.New("invalid time of day")

// ParseClock returns the minutes since midnight of a "HH:MM" string.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, errors.Wrap(ErrInvalidClock, s)
	}

	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, errors.Wrap(ErrInvalidClock, s)
	}

	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 || len(m) != 2 {
		return 0, errors.Wrap(ErrInvalidClock, s)
	}

	return hours*60 + mins, nil
}

// FormatClock formats minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration returns the minutes between two "HH:MM" times.
func Duration(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}

	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	return e - s, nil
}
