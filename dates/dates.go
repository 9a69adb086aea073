// ABOUTME: Date normalization layer for calendar-only values and timestamps
// ABOUTME: Calendar dates are anchored at noon UTC so the day never shifts across zones
package dates

import (
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"
)

// CalendarLayout is the persisted form of a calendar-only value.
const CalendarLayout = "2006-01-02T15:04:05.000Z"

// InputLayout is the plain day form used by date inputs.
const InputLayout = "2006-01-02"

// DateTimeInputLayout is the form used by datetime inputs.
const DateTimeInputLayout = "2006-01-02T15:04"

const displayDateLayout = "Jan 2, 2006"

var plainDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// fallbackLayouts are tried in order when input is neither a persisted value nor a plain day.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	InputLayout,
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
}

func bestEffort(value string) (time.Time, bool) {
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// anchor returns the noon-UTC instant of the given calendar day.
func anchor(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// ParseCalendarDate converts user input into the persisted calendar value.
// Blank input yields "". Unparseable input yields "".
func ParseCalendarDate(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if plainDate.MatchString(input) {
		t, err := time.Parse(InputLayout, input)
		if err == nil {
			return anchor(t.Year(), t.Month(), t.Day()).Format(CalendarLayout)
		}
	}
	if i := strings.IndexByte(input, 'T'); i > 0 && plainDate.MatchString(input[:i]) {
		if t, err := time.Parse(InputLayout, input[:i]); err == nil {
			return anchor(t.Year(), t.Month(), t.Day()).Format(CalendarLayout)
		}
	}
	t, ok := bestEffort(input)
	if !ok {
		return ""
	}
	return anchor(t.Year(), t.Month(), t.Day()).Format(CalendarLayout)
}

// FormatForDateInput renders a persisted calendar value as YYYY-MM-DD.
func FormatForDateInput(persisted string) string {
	persisted = strings.TrimSpace(persisted)
	if persisted == "" {
		return ""
	}
	if i := strings.IndexByte(persisted, 'T'); i >= 0 {
		return persisted[:i]
	}
	if plainDate.MatchString(persisted) {
		return persisted
	}
	t, ok := bestEffort(persisted)
	if !ok {
		return ""
	}
	return t.UTC().Format(InputLayout)
}

// CalendarDay extracts the calendar day of a persisted value as midnight UTC.
func CalendarDay(persisted string) (time.Time, bool) {
	day := FormatForDateInput(persisted)
	if day == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(InputLayout, day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDisplayDate renders a calendar value as "Jan 2, 2006". The day comes
// from the stored value itself, so the viewer's timezone never shifts it.
// Values that are not calendar shaped are shown in the viewer's zone.
func FormatDisplayDate(persisted, timezone string) string {
	if strings.TrimSpace(persisted) == "" {
		return ""
	}
	if day, ok := CalendarDay(persisted); ok {
		return day.Format(displayDateLayout)
	}
	t, ok := bestEffort(strings.TrimSpace(persisted))
	if !ok {
		return ""
	}
	return t.In(Location(timezone)).Format(displayDateLayout)
}

// FormatDisplayDateTime renders an instant in the viewer's zone using the locale's conventions.
func FormatDisplayDateTime(t time.Time, timezone, locale string) string {
	if t.IsZero() {
		return ""
	}
	return formatLocalized(t.In(Location(timezone)), ResolveLocale(locale))
}

// FormatDateTimeForInput renders an instant as YYYY-MM-DDTHH:MM in the zone.
func FormatDateTimeForInput(t time.Time, timezone string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location(timezone)).Format(DateTimeInputLayout)
}

// ParseDateTimeInput reads a YYYY-MM-DDTHH:MM value entered in the given zone.
func ParseDateTimeInput(value, timezone string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateTimeInputLayout, strings.TrimSpace(value), Location(timezone))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Location resolves an IANA zone name, falling back to UTC.
func Location(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ValidTimezone reports whether name is a loadable IANA zone.
func ValidTimezone(name string) bool {
	if strings.TrimSpace(name) == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// TimezoneOffset returns the zone's offset from UTC in minutes at the given instant.
func TimezoneOffset(timezone string, at time.Time) int {
	_, offset := at.In(Location(timezone)).Zone()
	return offset / 60
}

func today(timezone string, now time.Time) time.Time {
	local := now.In(Location(timezone))
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the persisted calendar value of the viewer's current day.
func Today(timezone string, now time.Time) string {
	t := today(timezone, now)
	return anchor(t.Year(), t.Month(), t.Day()).Format(CalendarLayout)
}

// IsToday reports whether the calendar value falls on the viewer's current day.
func IsToday(persisted, timezone string, now time.Time) bool {
	day, ok := CalendarDay(persisted)
	if !ok {
		return false
	}
	return day.Equal(today(timezone, now))
}

// IsThisWeek reports whether the calendar value falls in the viewer's current
// Sunday-to-Saturday week.
func IsThisWeek(persisted, timezone string, now time.Time) bool {
	day, ok := CalendarDay(persisted)
	if !ok {
		return false
	}
	t := today(timezone, now)
	start := t.AddDate(0, 0, -int(t.Weekday()))
	end := start.AddDate(0, 0, 6)
	return !day.Before(start) && !day.After(end)
}

// IsDue reports whether the calendar value is today or earlier for the viewer.
func IsDue(persisted, timezone string, now time.Time) bool {
	day, ok := CalendarDay(persisted)
	if !ok {
		return false
	}
	return !day.After(today(timezone, now))
}

// DefaultTimezone guesses the host zone name, falling back to UTC.
func DefaultTimezone() string {
	name := time.Now().Location().String()
	if ValidTimezone(name) {
		return name
	}
	return "UTC"
}
