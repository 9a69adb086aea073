// ABOUTME: Locale matching and localized date-time layouts
// ABOUTME: Month names come from monday, locale negotiation from x/text
package dates

import (
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured or matched.
const DefaultLocale = "en-US"

type localeFormat struct {
	tag    language.Tag
	locale monday.Locale
	layout string
}

var localeFormats = []localeFormat{
	{language.AmericanEnglish, monday.LocaleEnUS, "Jan 2, 2006, 3:04 PM"},
	{language.BritishEnglish, monday.LocaleEnGB, "2 Jan 2006, 15:04"},
	{language.German, monday.LocaleDeDE, "2. Jan 2006, 15:04"},
	{language.French, monday.LocaleFrFR, "2 Jan 2006 15:04"},
	{language.Spanish, monday.LocaleEsES, "2 Jan 2006, 15:04"},
	{language.Italian, monday.LocaleItIT, "2 Jan 2006, 15:04"},
	{language.Dutch, monday.LocaleNlNL, "2 Jan 2006 15:04"},
	{language.BrazilianPortuguese, monday.LocalePtBR, "2 Jan 2006, 15:04"},
	{language.Swedish, monday.LocaleSvSE, "2 Jan 2006 15:04"},
	{language.Japanese, monday.LocaleJaJP, "2006年1月2日 15:04"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeFormats))
	for i, f := range localeFormats {
		tags[i] = f.tag
	}
	return language.NewMatcher(tags)
}()

// ResolveLocale returns the index of the best supported format for a BCP 47 tag.
func ResolveLocale(tag string) int {
	if tag == "" {
		return 0
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return 0
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return 0
	}
	return index
}

// LocaleName returns the canonical tag for a resolved locale index.
func LocaleName(index int) string {
	if index < 0 || index >= len(localeFormats) {
		return DefaultLocale
	}
	return localeFormats[index].tag.String()
}

func formatLocalized(t time.Time, index int) string {
	if index < 0 || index >= len(localeFormats) {
		index = 0
	}
	f := localeFormats[index]
	return monday.Format(t, f.layout, f.locale)
}
