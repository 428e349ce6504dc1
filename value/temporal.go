package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts of the canonical temporal text forms.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DatetimeLayout = "2006-01-02 15:04:05"
)

// Date is a calendar date without a clock or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

// Time is a clock reading within a day.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// TimeOf returns the clock reading of t.
func TimeOf(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

// ParseTime parses HH:MM:SS with optional fractional seconds.
func ParseTime(s string) (Time, error) {
	t, err := time.Parse("15:04:05.999999999", s)
	if err != nil {
		return Time{}, err
	}
	return TimeOf(t), nil
}

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		s += strings.TrimRight(fmt.Sprintf(".%09d", t.Nanosecond), "0")
	}
	return s
}

// FormatDatetime renders t as YYYY-MM-DD HH:MM:SS, keeping fractional seconds when present.
func FormatDatetime(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.999999999")
	}
	return t.Format(DatetimeLayout)
}

// ParseDatetime parses YYYY-MM-DD HH:MM:SS, falling back to YYYY-MM-DD. The
// result is in UTC.
func ParseDatetime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05.999999999", s)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(DateLayout, s); err2 == nil {
		return t2, nil
	}
	return time.Time{}, err
}

// FormatDuration renders d as HH:MM:SS. Hours are not wrapped at 24 and
// sub-second remainders are kept as a fraction.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	d -= sec * time.Second
	s := fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, sec)
	if d != 0 {
		s += strings.TrimRight(fmt.Sprintf(".%09d", int64(d)), "0")
	}
	return s
}

// ParseDuration parses [-]HH:MM:SS[.fraction]. Minutes and seconds must be below 60.
func ParseDuration(s string) (time.Duration, error) {
	in := s
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("value: invalid duration %q: want HH:MM:SS", in)
	}
	h, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("value: invalid duration %q: %w", in, err)
	}
	m, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("value: invalid duration %q: bad minutes", in)
	}
	secText, fracText, hasFrac := strings.Cut(parts[2], ".")
	sec, err := strconv.ParseUint(secText, 10, 8)
	if err != nil || sec > 59 || len(secText) != 2 {
		return 0, fmt.Errorf("value: invalid duration %q: bad seconds", in)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	if hasFrac {
		if fracText == "" || len(fracText) > 9 {
			return 0, fmt.Errorf("value: invalid duration %q: bad fraction", in)
		}
		ns, err := strconv.ParseUint(fracText+strings.Repeat("0", 9-len(fracText)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value: invalid duration %q: %w", in, err)
		}
		d += time.Duration(ns)
	}
	if neg {
		d = -d
	}
	return d, nil
}
