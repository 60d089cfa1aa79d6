// SPDX-License-Identifier: EPL-2.0

package audiodev

import (
	"encoding/binary"
	"math"
)

// The hardware backends hand out raw byte buffers; these helpers pack the
// engine's typed periods into them little-endian, the wire order every
// supported backend uses.

func encodeInt16LE(dst []byte, src []int16) {
	for i, s := range src {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(s))
	}
}

func encodeInt32LE(dst []byte, src []int32) {
	for i, s := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], uint32(s))
	}
}

func encodeFloat32LE(dst []byte, src []float32) {
	for i, s := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(s))
	}
}
