// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// ClampInt16 saturates a 32-bit intermediate value to the int16 range.
// Mixing accumulators must clamp rather than wrap on overflow.
func ClampInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// ClampInt32 saturates a 64-bit intermediate value to the int32 range.
func ClampInt32(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
