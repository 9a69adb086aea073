package dates

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TimezoneOption is one entry of the timezone picker.
type TimezoneOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var timezones = []TimezoneOption{
	{"America/New_York", "Eastern Time (UTC-5/-4)"},
	{"America/Chicago", "Central Time (UTC-6/-5)"},
	{"America/Denver", "Mountain Time (UTC-7/-6)"},
	{"America/Los_Angeles", "Pacific Time (UTC-8/-7)"},
	{"America/Anchorage", "Alaska Time (UTC-9/-8)"},
	{"Pacific/Honolulu", "Hawaii Time (UTC-10)"},
	{"America/Toronto", "Toronto (UTC-5/-4)"},
	{"America/Vancouver", "Vancouver (UTC-8/-7)"},
	{"Europe/London", "London (UTC+0/+1)"},
	{"Europe/Paris", "Paris (UTC+1/+2)"},
	{"Europe/Berlin", "Berlin (UTC+1/+2)"},
	{"Europe/Rome", "Rome (UTC+1/+2)"},
	{"Europe/Madrid", "Madrid (UTC+1/+2)"},
	{"Europe/Amsterdam", "Amsterdam (UTC+1/+2)"},
	{"Asia/Tokyo", "Tokyo (UTC+9)"},
	{"Asia/Shanghai", "Shanghai (UTC+8)"},
	{"Asia/Seoul", "Seoul (UTC+9)"},
	{"Asia/Singapore", "Singapore (UTC+8)"},
	{"Asia/Hong_Kong", "Hong Kong (UTC+8)"},
	{"Asia/Dubai", "Dubai (UTC+4)"},
	{"Asia/Kolkata", "Mumbai/Delhi (UTC+5:30)"},
	{"Australia/Sydney", "Sydney (UTC+10/+11)"},
	{"Australia/Melbourne", "Melbourne (UTC+10/+11)"},
	{"Australia/Perth", "Perth (UTC+8)"},
	{"Pacific/Auckland", "Auckland (UTC+12/+13)"},
	{"America/Sao_Paulo", "São Paulo (UTC-3)"},
	{"America/Mexico_City", "Mexico City (UTC-6/-5)"},
	{"Africa/Cairo", "Cairo (UTC+2)"},
	{"Africa/Johannesburg", "Johannesburg (UTC+2)"},
	{"UTC", "UTC (Coordinated Universal Time)"},
}

// TimezoneOptions returns the supported zones sorted by label.
func TimezoneOptions() []TimezoneOption {
	out := make([]TimezoneOption, len(timezones))
	copy(out, timezones)
	c := collate.New(language.English, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Label, out[j].Label) < 0
	})
	return out
}

// TimezoneLabel returns the picker label for a zone, or the zone name itself.
func TimezoneLabel(value string) string {
	for _, tz := range timezones {
		if tz.Value == value {
			return tz.Label
		}
	}
	return value
}
