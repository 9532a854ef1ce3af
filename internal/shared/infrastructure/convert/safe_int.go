// Package convert provides overflow-checked integer conversions for values
// crossing into driver or shift-count types.
package convert

import "math"

// IntToInt32Clamped converts an int to int32, clamping to the int32 range.
func IntToInt32Clamped(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// IntToUintClamped converts an int to uint, clamping negative values to 0.
func IntToUintClamped(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

// IntToUint32Clamped converts an int to uint32, clamping to the uint32 range.
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
