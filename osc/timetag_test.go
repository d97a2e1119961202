package osc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewImmediateTimetag(t *testing.T) {
	tt := NewImmediateTimetag()
	if tt != 1 {
		t.Errorf("NewImmediateTimetag() = %d, want 1", tt)
	}
	if i := tt.ExpiresIn(); i != 0 {
		t.Errorf("ExpiresIn() = %d, want 0", i)
	}
}

func TestNewTimetag(t *testing.T) {
	tt := NewTimetag()
	if i := tt.ExpiresIn(); i != 0 {
		t.Errorf("NewTimetag().ExpiresIn() = %d, want 0", i)
	}
}

func TestTimetag_ExpiresIn(t *testing.T) {
	tests := []struct {
		name string
		t    Timetag
		want time.Duration
	}{
		{"one_second", NewTimetagFromTime(time.Now().Add(time.Second)), time.Second},
		{"immediate", NewImmediateTimetag(), 0},
		{"late", NewTimetagFromTime(time.Now().Add(-time.Second)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.ExpiresIn(); got.Round(10*time.Millisecond) != tt.want {
				t.Errorf("ExpiresIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The forward conversion switches its base epoch at 2036-02-07T06:28:16Z.
// On or after that instant the seconds field counts from the 2036 base with
// bit 31 clear; before it, from the 1900 base with bit 31 set.
func TestTimetag_EpochBoundary(t *testing.T) {
	const boundaryMillis = 2085978496000

	boundary := NewTimetagFromTime(time.UnixMilli(boundaryMillis))
	require.Zero(t, boundary.SecondsSinceEpoch()&0x80000000, "high bit must be clear at the 2036 base")
	require.Zero(t, boundary.SecondsSinceEpoch(), "seconds count restarts at the 2036 base")
	require.Zero(t, boundary.FractionalSecond())

	before := NewTimetagFromTime(time.UnixMilli(boundaryMillis - 1))
	require.NotZero(t, before.SecondsSinceEpoch()&0x80000000, "high bit must be set for the 1900 base")
	require.Equal(t, uint32(0xffffffff), before.SecondsSinceEpoch())
}

func TestTimetag_KnownValues(t *testing.T) {
	// 1970-01-01T00:00:00Z is 2208988800 seconds after 1900, with the high
	// bit naturally set.
	epoch := NewTimetagFromTime(time.Unix(0, 0))
	require.Equal(t, uint32(2208988800), epoch.SecondsSinceEpoch())
	require.Zero(t, epoch.FractionalSecond())

	// 500ms is exactly half of the 2^32 fraction range.
	half := NewTimetagFromTime(time.UnixMilli(500))
	require.Equal(t, uint32(1<<31), half.FractionalSecond())
}

func TestTimetag_TimeRoundTrip(t *testing.T) {
	for _, ts := range []time.Time{
		time.UnixMilli(0),
		time.UnixMilli(1234567890123),
		time.Date(2022, time.March, 4, 5, 6, 7, 800_000_000, time.UTC),
	} {
		tt := NewTimetagFromTime(ts)
		require.Equal(t, ts.UnixMilli(), tt.Time().UnixMilli(), "round trip of %v", ts)
	}
}

func TestTimetag_MarshalBinary(t *testing.T) {
	b, err := Timetag(0x0102030405060708).MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, b)
}

func TestTimetag_SetTime(t *testing.T) {
	var tt Timetag
	ts := time.UnixMilli(1234567890123)
	tt.SetTime(ts)
	require.Equal(t, NewTimetagFromTime(ts), tt)
}
