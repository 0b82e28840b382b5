package direntry

import (
	"time"
)

const (
	// EpochAdjustmentDays is the number of days between the Unix epoch and
	// the remote epoch (1978-01-01).
	EpochAdjustmentDays = 2922

	// TicksPerSecond is the resolution of the remote clock.
	TicksPerSecond = 50

	secondsPerDay = 24 * 60 * 60

	// microsPerTick is the length of one tick. It must stay 20000: a tick is
	// 1/50 of a second.
	microsPerTick = 1000000 / TicksPerSecond
)

// DateStamp is a remote timestamp. It's kept in the same three parts the
// remote host uses, both on the wire and in snapshots.
type DateStamp struct {
	// Days since the remote epoch.
	Days uint32

	// Mins is the number of minutes since midnight.
	Mins uint32

	// Ticks is the number of ticks since the start of the minute.
	Ticks uint32
}

// Time converts the DateStamp into a UTC time. The whole seconds and the
// sub-second remainder are computed separately so that no precision is lost.
func (ds DateStamp) Time() time.Time {
	seconds, micros := ds.Unix()
	return time.Unix(seconds, micros*int64(time.Microsecond)).UTC()
}

// Unix returns the DateStamp as seconds since the Unix epoch plus the
// remaining microseconds.
func (ds DateStamp) Unix() (seconds int64, micros int64) {
	wholeSeconds := int64(ds.Ticks / TicksPerSecond)
	seconds = EpochAdjustmentDays*secondsPerDay +
		int64(ds.Days)*secondsPerDay +
		int64(ds.Mins)*60 +
		wholeSeconds
	subSecondTicks := int64(ds.Ticks) - wholeSeconds*TicksPerSecond
	micros = subSecondTicks * microsPerTick
	return seconds, micros
}

// DateStampFromTime converts `t` into a DateStamp. Anything finer than a tick
// is dropped, and times before the remote epoch are clamped to it.
func DateStampFromTime(t time.Time) DateStamp {
	seconds := t.Unix() - EpochAdjustmentDays*secondsPerDay
	if seconds < 0 {
		return DateStamp{}
	}

	secondOfMinute := seconds % 60
	subSecondTicks := int64(t.Nanosecond()) / int64(time.Second/TicksPerSecond)
	return DateStamp{
		Days:  uint32(seconds / secondsPerDay),
		Mins:  uint32((seconds % secondsPerDay) / 60),
		Ticks: uint32(secondOfMinute*TicksPerSecond + subSecondTicks),
	}
}
