package gametime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	HoursPerDay = 24
	TotalDays   = 30
	TotalHours  = TotalDays * HoursPerDay
)

// Tick is a single game hour, counted from day 0 hour 0.
type Tick int

func New(day, hour int) Tick {
	return Tick(day*HoursPerDay + hour)
}

func Parse(v string) (Tick, error) {
	dayRaw, hourRaw, ok := strings.Cut(v, ":")
	if !ok {
		return Tick(0), fmt.Errorf("invalid tick %q", v)
	}

	day, err := strconv.Atoi(dayRaw)
	if err != nil {
		return Tick(0), fmt.Errorf("invalid tick %q: %w", v, err)
	}

	hour, err := strconv.Atoi(hourRaw)
	if err != nil {
		return Tick(0), fmt.Errorf("invalid tick %q: %w", v, err)
	}

	if day < 0 || hour < 0 || hour >= HoursPerDay {
		return Tick(0), fmt.Errorf("invalid tick %q", v)
	}

	return New(day, hour), nil
}

func MustParse(v string) Tick {
	t, err := Parse(v)
	if err != nil {
		panic(err)
	}

	return t
}

func (t Tick) Day() int {
	return int(t) / HoursPerDay
}

func (t Tick) Hour() int {
	return int(t) % HoursPerDay
}

func (t Tick) Next() Tick {
	return t + 1
}

func (t Tick) Add(hours int) Tick {
	return t + Tick(hours)
}

// Weekday maps day 0 to Monday, matching the flight plan day columns.
func (t Tick) Weekday() time.Weekday {
	return time.Weekday((t.Day()%7 + 1) % 7)
}

func (t Tick) String() string {
	return fmt.Sprintf("%d:%02d", t.Day(), t.Hour())
}

func (t *Tick) UnmarshalText(text []byte) error {
	var err error
	*t, err = Parse(string(text))

	return err
}

func (t Tick) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
