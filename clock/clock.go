// Package clock samples wall-clock time into the integer fields the marker
// board displays.
package clock

import "time"

const millisPerDay = 24 * 60 * 60 * 1000

// Clock abstracts the wall-clock read so tests can freeze the instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the default wall clock.
var System Clock = systemClock{}

// TimeSample is one tick's worth of derived time fields. It is built fresh
// on every tick and never retained.
type TimeSample struct {
	EpochMillis int64
	DayOfYear   int // 1-based, 1..366
	Hour        int // local time, 0..23
	Minute      int // 0..59
	Second      int // 0..59
}

// Sample derives a TimeSample from t. DayOfYear is the floor of the
// millisecond distance from local January 1st 00:00 divided by a day, plus
// one, so January 1st is day 1.
func Sample(t time.Time) TimeSample {
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return TimeSample{
		EpochMillis: t.UnixMilli(),
		DayOfYear:   int(t.Sub(yearStart).Milliseconds()/millisPerDay) + 1,
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
	}
}
