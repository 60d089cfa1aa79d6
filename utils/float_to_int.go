// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a float sample in [-1, 1] to 16-bit PCM,
// clamping anything outside that range. The scale is 32767 on both
// sides, so full negative swing maps to -32767 rather than wrapping.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767.0)
}

// Float32ToInt16Buf converts src into dst sample by sample. The slices must
// have equal length.
func Float32ToInt16Buf(dst []int16, src []float32) {
	for i, s := range src {
		dst[i] = Float32ToInt16(s)
	}
}
