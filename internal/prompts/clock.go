package prompts

import (
	"time"
	_ "time/tzdata"

	"github.com/goodsign/monday"

	logx "github.com/catalog-chat/server/pkg/logger"
)

const (
	// TimestampLayout is the fixed human-readable layout of the real-time
	// section: day of week, day, month name, year, 12-hour time with AM/PM.
	TimestampLayout = "Monday, 2 January 2006, 03:04 PM"

	DefaultTimezone = "America/Bogota"
	DefaultLocale   = "es_ES"

	FallbackLocale monday.Locale = monday.LocaleEnUS
)

// Clock formats "now" in a pinned timezone and locale, independent of the
// host's settings.
type Clock struct {
	loc    *time.Location
	locale monday.Locale
	now    func() time.Time
}

// NewClock resolves timezone and locale once. An unknown timezone falls back
// to UTC and an unsupported locale to en_US; neither is an error.
func NewClock(timezone, locale string) *Clock {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logx.Warn().Err(err).Str("timezone", timezone).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}

	if locale == "" {
		locale = DefaultLocale
	}
	resolved := FallbackLocale
	if supportedLocale(monday.Locale(locale)) {
		resolved = monday.Locale(locale)
	} else {
		logx.Warn().Str("locale", locale).Str("fallback", string(FallbackLocale)).Msg("unsupported locale, using fallback")
	}

	return &Clock{loc: loc, locale: resolved, now: time.Now}
}

func supportedLocale(l monday.Locale) bool {
	for _, known := range monday.ListLocales() {
		if known == l {
			return true
		}
	}
	return false
}

// Locale returns the locale actually used for formatting.
func (c *Clock) Locale() string {
	return string(c.locale)
}

// Location returns the timezone actually used for formatting.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Format renders t with TimestampLayout in the clock's timezone and locale.
func (c *Clock) Format(t time.Time) string {
	return monday.Format(t.In(c.loc), TimestampLayout, c.locale)
}

// Now formats the current time.
func (c *Clock) Now() string {
	return c.Format(c.now())
}
