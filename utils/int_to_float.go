// SPDX-License-Identifier: EPL-2.0

package utils

// Int16ToFloat32 converts a 16-bit PCM sample to the [-1, 1) float range.
func Int16ToFloat32(x int16) float32 {
	return float32(x) / 32768.0
}

// Int16ToFloat32Buf converts src into dst sample by sample. The slices must
// have equal length.
func Int16ToFloat32Buf(dst []float32, src []int16) {
	for i, s := range src {
		dst[i] = Int16ToFloat32(s)
	}
}
