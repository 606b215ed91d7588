package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pdutra/ec2-chatops/internal/domain"
)

// TimeOfDay is a wall-clock time in the deployment's local offset.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Strict 24-hour HH:mm, leading zeros required. "9:5" is not a time.
var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayRe.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, domain.ErrInvalidTimeFormat
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Next resolves the time of day against now: today at HH:MM in loc if
// that instant has not yet passed, otherwise the same time tomorrow.
// The result is returned in UTC, which is how schedules are stored.
func (t TimeOfDay) Next(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	due := time.Date(local.Year(), local.Month(), local.Day(), t.Hour, t.Minute, 0, 0, loc)
	if due.Before(local) {
		due = due.AddDate(0, 0, 1)
	}
	return due.UTC()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
