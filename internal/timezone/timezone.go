package timezone

import "time"

const (
	DefaultTimezone = "America/Sao_Paulo"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock lets callers pin "now" in tests.
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// DateKey is the YYYY-MM-DD bucket for t in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseClock reads an HH:mm wall-clock time.
func ParseClock(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
