// Package helpers provides utility functions for safe numeric conversions.
//
// Values read back from SQLite are int64; record TTLs are uint32. The
// helpers clamp instead of wrapping so a corrupt row can never render as a
// wildly different TTL.
package helpers

import "math"

// clampInt64 restricts v to the range [minVal, maxVal].
func clampInt64(v, minVal, maxVal int64) int64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampInt64ToUint32 converts v to uint32 with clamping.
// Values below 0 become 0; values above math.MaxUint32 become math.MaxUint32.
func ClampInt64ToUint32(v int64) uint32 {
	clamped := clampInt64(v, 0, math.MaxUint32)
	return uint32(clamped) //nolint:gosec // clamped to valid range
}
