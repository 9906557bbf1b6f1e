package core

// ClampedTimeDifference returns later-earlier, zero when later is not after
// earlier, saturated at MaxDeltaTime.
func ClampedTimeDifference(later, earlier LongTime) DeltaTime {
	if later <= earlier {
		return 0
	}
	diff := later - earlier
	if diff > LongTime(MaxDeltaTime) {
		return MaxDeltaTime
	}
	return DeltaTime(diff)
}

// ClampedTimeDifferenceFromNow returns how far later lies in the future,
// clamped like ClampedTimeDifference.
func (c *LongClock) ClampedTimeDifferenceFromNow(later LongTime) DeltaTime {
	return ClampedTimeDifference(later, c.Now())
}

// ClampedTimeDifferenceToNow returns how far earlier lies in the past,
// clamped like ClampedTimeDifference.
func (c *LongClock) ClampedTimeDifferenceToNow(earlier LongTime) DeltaTime {
	return ClampedTimeDifference(c.Now(), earlier)
}

// ConvertLongTimeToOSTime drops the overflow tally.
func ConvertLongTimeToOSTime(t LongTime) OSTime {
	return OSTime(t) & CounterMask
}

// Elapsed returns the ticks since earlier. earlier in the future, or a span
// wider than MaxDeltaTime, is a violation; the result then saturates.
func (c *LongClock) Elapsed(earlier LongTime) (DeltaTime, error) {
	now := c.Now()
	if earlier > now {
		return 0, c.contract.violate(ViolationFutureTime, "elapsed since "+utoa64(uint64(earlier)))
	}
	diff := now - earlier
	if diff > LongTime(MaxDeltaTime) {
		return MaxDeltaTime, c.contract.violate(ViolationDeltaOverflow, "elapsed "+utoa64(uint64(diff)))
	}
	return DeltaTime(diff), nil
}

// TimeDifferenceFromNow returns the distance between given and now, given
// in the past or the future. A distance wider than MaxDeltaTime is a
// violation; the result then saturates.
func (c *LongClock) TimeDifferenceFromNow(given LongTime) (DeltaTime, error) {
	now := c.Now()
	var diff LongTime
	if now < given {
		diff = given - now
	} else {
		diff = now - given
	}
	if diff > LongTime(MaxDeltaTime) {
		return MaxDeltaTime, c.contract.violate(ViolationDeltaOverflow, "difference "+utoa64(uint64(diff)))
	}
	return DeltaTime(diff), nil
}

// TicksForMilliseconds converts ms to counter ticks, rounding down.
func TicksForMilliseconds(ms uint32) OSTime {
	return OSTime(uint64(ms) * TicksPerSecond / 1000)
}

// TicksForMicroseconds converts us to counter ticks, rounding down.
func TicksForMicroseconds(us uint32) OSTime {
	return OSTime(uint64(us) * TicksPerSecond / 1000000)
}

// MicrosecondsForTicks converts ticks to microseconds, rounding down.
func MicrosecondsForTicks(ticks DeltaTime) uint64 {
	return uint64(ticks) * 1000000 / TicksPerSecond
}
