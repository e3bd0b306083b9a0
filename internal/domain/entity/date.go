package entity

import "time"

// DateLayout formato de fecha civil usado en la API y en la base.
const DateLayout = "2006-01-02"

// DateOf trunca t a su fecha civil (año/mes/día de t) como medianoche UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta "2006-01-02" como fecha civil.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Today fecha civil actual en la zona loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}
