package dv

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Numeric decodes the record data per its DIF coding, applies the VIF
// decimal exponent and yields a value in the range's canonical unit.
// Binary integers decode unsigned; the meters under test use the raw
// 0x80000000 pattern as an unset-slot sentinel and that value must
// surface literally (2147483648), not as a negative number.
func (r Record) Numeric() (float64, bool) {
	if r.Coding == 0x05 { // 32 bit real
		if len(r.Data) != 4 {
			return 0, false
		}
		f := math.Float32frombits(binary.LittleEndian.Uint32(r.Data))
		return float64(f) * math.Pow10(r.Exp), true
	}
	raw, ok := r.Uint()
	if !ok {
		return 0, false
	}
	return float64(raw) * math.Pow10(r.Exp), true
}

// Uint decodes the record data as a plain unsigned integer with no
// scaling. Info and error code fields (e.g. the 24 bit 03FD17 extension)
// are read this way.
func (r Record) Uint() (uint64, bool) {
	switch r.Coding {
	case 0x01, 0x02, 0x03, 0x04, 0x06, 0x07: // binary, little endian
		var v uint64
		for i := len(r.Data) - 1; i >= 0; i-- {
			v = v<<8 | uint64(r.Data[i])
		}
		return v, true
	case 0x09, 0x0A, 0x0B, 0x0C, 0x0E: // packed BCD
		return decodeBCD(r.Data)
	default:
		return 0, false
	}
}

// decodeBCD converts a little-endian packed BCD buffer to an integer.
func decodeBCD(data []byte) (uint64, bool) {
	var v uint64
	var mul uint64 = 1
	for _, b := range data {
		lo := uint64(b & 0x0F)
		hi := uint64(b >> 4)
		if lo > 9 || hi > 9 {
			return 0, false
		}
		v += lo * mul
		mul *= 10
		v += hi * mul
		mul *= 10
	}
	return v, true
}

// Text decodes the record into a display string: dates render per their
// VIF coding, variable-length records as reversed ASCII, BCD codings as
// plain digits.
func (r Record) Text() (string, bool) {
	switch r.Range {
	case Date, DateTime:
		return r.DateString()
	}
	if r.Coding == 0x0D {
		if len(r.Data) < 1 {
			return "", false
		}
		chars := r.Data[1:]
		out := make([]byte, len(chars))
		for i, c := range chars { // on-wire order is reversed
			out[len(chars)-1-i] = c
		}
		return string(out), true
	}
	if raw, ok := r.Uint(); ok {
		return strconv.FormatUint(raw, 10), true
	}
	return "", false
}
