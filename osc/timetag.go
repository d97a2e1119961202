package osc

import (
	"encoding/binary"
	"time"
)

const (
	// secondsFrom1900To1970 includes 17 leap years.
	secondsFrom1900To1970 = 2208988800

	// msb0BaseTimeMillis is the NTP era-1 base: 2036-02-07T06:28:16Z.
	// Timestamps on or after it are encoded relative to this base with
	// bit 31 of the seconds field clear.
	msb0BaseTimeMillis int64 = 2085978496000

	// msb1BaseTimeMillis is the NTP era-0 base: 1900-01-01T00:00:00Z.
	// Timestamps before 2036-02-07 are encoded relative to this base with
	// bit 31 of the seconds field set. A 32-bit seconds counter rooted at
	// 1900 overflows in 2036; the high bit records which base was used.
	msb1BaseTimeMillis int64 = -2208988800000
)

// Timetag represents an OSC Time Tag.
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since a base epoch, and the last 32 bits
// specify fractional parts of a second to a precision of about 200
// picoseconds. This is the representation used by Internet NTP timestamps.
//
// The value consisting of 63 zero bits followed by a one in the least
// significant bit is a special case meaning "immediately".
type Timetag uint64

// TimetagImmediate is the reserved "process now" value.
const TimetagImmediate = Timetag(1)

// NewTimetag returns a time tag for the current time.
func NewTimetag() Timetag {
	return NewTimetagFromTime(time.Now())
}

// NewImmediateTimetag returns the "immediately" sentinel.
func NewImmediateTimetag() Timetag {
	return TimetagImmediate
}

// NewTimetagFromTime converts t to the 64-bit NTP representation.
func NewTimetagFromTime(t time.Time) Timetag {
	return Timetag(ntpTimeFromUnixMillis(t.UnixMilli()))
}

// ntpTimeFromUnixMillis converts milliseconds since 1970 to a 64-bit NTP
// value. The base epoch is chosen by comparing against the 2036 rollover
// instant; bit 31 of the seconds field marks the 1900 base.
func ntpTimeFromUnixMillis(millis int64) uint64 {
	useBase1 := millis < msb0BaseTimeMillis

	var base int64
	if useBase1 {
		base = millis - msb1BaseTimeMillis
	} else {
		base = millis - msb0BaseTimeMillis
	}

	seconds := uint64(base / 1000)
	fraction := (uint64(base%1000) << 32) / 1000

	if useBase1 {
		seconds |= 0x80000000
	}

	return seconds<<32 | fraction
}

// Time resolves the time tag to a calendar time, interpreting the seconds
// field as an unsigned count since 1900. The raw tag does not record which
// base epoch produced it; for tags between 1970 and the 2036 rollover (the
// practical range) this interpretation is exact.
func (t Timetag) Time() time.Time {
	secs := int64(t>>32) - secondsFrom1900To1970
	// Rounded, not truncated, so millisecond timestamps survive the trip
	// through the 32-bit fraction.
	nanos := (uint64(uint32(t))*uint64(time.Second) + 1<<31) >> 32
	return time.Unix(secs, int64(nanos))
}

// SecondsSinceEpoch returns the first 32 bits of the time tag, the number of
// seconds since the base epoch.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// FractionalSecond returns the last 32 bits of the time tag, the fractional
// part of a second in 1/2^32 units.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// TimeTag returns the raw time tag value.
func (t Timetag) TimeTag() uint64 {
	return uint64(t)
}

// SetTime sets the value of the time tag from a calendar time.
func (t *Timetag) SetTime(time time.Time) {
	*t = NewTimetagFromTime(time)
}

// MarshalBinary converts the time tag to its 8 wire bytes.
func (t Timetag) MarshalBinary() ([]byte, error) {
	b := make([]byte, bit64Size)
	binary.BigEndian.PutUint64(b, uint64(t))
	return b, nil
}

// ExpiresIn calculates the duration until the current time equals the time
// tag. It returns zero for the immediate sentinel and for tags in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= TimetagImmediate {
		return 0
	}

	d := t.Time().Sub(time.Now())
	if d <= 0 {
		return 0
	}
	return d
}
