package dv

import "fmt"

// DateString renders the record data per its date coding. Packed
// components are rendered literally without calendar validation: meters
// mark unset history slots with out-of-range encodings such as 0xFFFF
// (month 15, day 31) and those must pass through into the output instead
// of being corrected or nulled.
func (r Record) DateString() (string, bool) {
	switch r.Range {
	case Date:
		return typeGDate(r.Data)
	case DateTime:
		return typeFDateTime(r.Data)
	default:
		return "", false
	}
}

// typeGDate decodes the two-byte packed date (EN 13757-3 type G).
func typeGDate(b []byte) (string, bool) {
	if len(b) != 2 {
		return "", false
	}
	day := int(b[0] & 0x1F)
	month := int(b[1] & 0x0F)
	year := 2000 + int((b[0]&0xE0)>>5) + int((b[1]&0xF0)>>1)
	return fmt.Sprintf("%d-%02d-%02d", year, month, day), true
}

// typeFDateTime decodes the four-byte packed timestamp (type F).
func typeFDateTime(b []byte) (string, bool) {
	if len(b) != 4 {
		return "", false
	}
	minute := int(b[0] & 0x3F)
	hour := int(b[1] & 0x1F)
	day := int(b[2] & 0x1F)
	month := int(b[3] & 0x0F)
	year := 2000 + int((b[3]&0xF0)>>1) + int((b[2]&0xE0)>>5)
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d", year, month, day, hour, minute), true
}
