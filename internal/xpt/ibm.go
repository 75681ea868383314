package xpt

import (
	"encoding/binary"
	"math"
)

// Transport numerics are IBM System/360 hexadecimal floats: a sign bit,
// a 7-bit base-16 exponent biased by 64, and a 56-bit mantissa fraction.
// Variables shorter than 8 bytes are the leading bytes of the full value.

// ibmToFloat converts a 1-8 byte IBM float to IEEE 754. The second return
// value reports a SAS missing value (".", "_" or "A"-"Z" in the exponent
// byte with a zero mantissa).
func ibmToFloat(raw []byte) (float64, bool) {
	var buf [8]byte
	copy(buf[:], raw)

	u := binary.BigEndian.Uint64(buf[:])
	mantissa := u & 0x00ffffffffffffff

	if mantissa == 0 {
		switch {
		case buf[0] == 0:
			return 0, false
		case buf[0] == '.' || buf[0] == '_',
			buf[0] >= 'A' && buf[0] <= 'Z':
			return 0, true
		}
	}

	sign := 1.0
	if buf[0]&0x80 != 0 {
		sign = -1.0
	}
	exp := int(buf[0]&0x7f) - 64

	frac := float64(mantissa) / float64(uint64(1)<<56)
	return sign * frac * math.Pow(16, float64(exp)), false
}

// ibmFromFloat is the inverse conversion, used by the test fixture writer.
func ibmFromFloat(f float64) [8]byte {
	var buf [8]byte
	if f == 0 {
		return buf
	}

	var sign byte
	if f < 0 {
		sign = 0x80
		f = -f
	}

	exp := 0
	for f >= 1 {
		f /= 16
		exp++
	}
	for f < 1.0/16 {
		f *= 16
		exp--
	}

	mantissa := uint64(math.Round(f * float64(uint64(1)<<56)))
	if mantissa >= uint64(1)<<56 {
		mantissa >>= 4
		exp++
	}
	binary.BigEndian.PutUint64(buf[:], mantissa)
	buf[0] = sign | byte(exp+64)
	return buf
}
