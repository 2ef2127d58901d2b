package slot

import (
	"fmt"
	"time"

	"courtside/shared/failure"
	"courtside/shared/timezone"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Slot addresses one bookable court-hour. Bookings spanning several hours are
// expanded into one Slot per hour; the Slot is the join key between a booking
// and its schedule rows.
type Slot struct {
	CourtID   string
	Date      string
	StartHour int
}

func (s Slot) StartTime() string {
	return FormatHour(s.StartHour)
}

func (s Slot) EndTime() string {
	return FormatHour(s.StartHour + 1)
}

// FormatHour renders an hour-of-day as a stored slot time, e.g. 8 -> "08:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Calendar maps (date, time) pairs onto hourly slots within the hall's
// operating window. The zero value is unusable; construct via New.
type Calendar struct {
	openHour  int
	closeHour int
}

func New(openHour, closeHour int) (Calendar, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return Calendar{}, failure.BadRequestFromString(
			fmt.Sprintf("invalid operating window %02d:00-%02d:00", openHour, closeHour))
	}

	return Calendar{openHour: openHour, closeHour: closeHour}, nil
}

func (c Calendar) OpenHour() int  { return c.openHour }
func (c Calendar) CloseHour() int { return c.closeHour }

// ParseHour parses an "HH:MM" value and requires it to sit exactly on an hour
// boundary. Bookings are sold at hour granularity only.
func ParseHour(value string) (int, error) {
	t, err := time.Parse(TimeFormat, value)
	if err != nil {
		return 0, failure.BadRequestFromString(fmt.Sprintf("invalid time %q, expected HH:MM", value))
	}

	if t.Minute() != 0 {
		return 0, failure.BadRequestFromString(fmt.Sprintf("time %q must align to an hour boundary", value))
	}

	return t.Hour(), nil
}

func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, value, timezone.GetLocation())
	if err != nil {
		return time.Time{}, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value))
	}

	return d, nil
}

// Expand returns one slot per hour over [startHour, endHour) for the given
// court and date, validating the range against the operating window.
func (c Calendar) Expand(courtID, date string, startHour, endHour int) ([]Slot, error) {
	if endHour <= startHour {
		return nil, failure.BadRequestFromString("end time must be after start time")
	}

	if startHour < c.openHour || endHour > c.closeHour {
		return nil, failure.BadRequestFromString(
			fmt.Sprintf("slot %02d:00-%02d:00 is outside operating hours %02d:00-%02d:00",
				startHour, endHour, c.openHour, c.closeHour))
	}

	slots := make([]Slot, 0, endHour-startHour)
	for hour := startHour; hour < endHour; hour++ {
		slots = append(slots, Slot{CourtID: courtID, Date: date, StartHour: hour})
	}

	return slots, nil
}

// Contains reports whether an hour is a valid slot start within the window.
func (c Calendar) Contains(hour int) bool {
	return hour >= c.openHour && hour < c.closeHour
}

// InPast reports whether the slot's hour has already started relative to now
// in the application timezone. Used to refuse new bookings, not to render
// history.
func (c Calendar) InPast(date string, startHour int, now time.Time) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}

	start := day.Add(time.Duration(startHour) * time.Hour)

	return !start.After(now), nil
}

// Hours lists every slot-start hour of the operating window, in order. The
// schedule grid renders one row per entry.
func (c Calendar) Hours() []int {
	hours := make([]int, 0, c.closeHour-c.openHour)
	for hour := c.openHour; hour < c.closeHour; hour++ {
		hours = append(hours, hour)
	}

	return hours
}
