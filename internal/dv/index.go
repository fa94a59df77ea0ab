// Package dv walks the application payload of a telegram once and indexes
// every DIF/VIF data record by its structural selector, then decodes raw
// record bytes into typed values on demand.
package dv

import (
	"encoding/hex"
	"strings"
)

// MeasurementType is the DIF function field.
type MeasurementType int

const (
	Instantaneous MeasurementType = iota
	Maximum
	Minimum
	AtError

	// AnyType matches every measurement type in a pattern.
	AnyType MeasurementType = -1
)

// AnyNr wildcards the storage or tariff component of a pattern.
const AnyNr = -1

// Record is one indexed data record: the structural selector, the raw
// data bytes and the byte offset of its DIF within the payload.
type Record struct {
	Key     string // uppercase hex of the DIF..VIFE chain, e.g. "02FD17"
	Type    MeasurementType
	Range   Range
	Exp     int // decimal exponent to the range's canonical unit
	Coding  byte
	Storage int
	Tariff  int
	Subunit int
	Data    []byte
	Offset  int
}

// Index holds the ordered records of one payload.
type Index struct {
	Records []Record
}

// records whose DIFE or VIFE chain exceeds this are dropped as corrupt
const maxChain = 10

// NewIndex walks the payload once and collects its records in telegram
// order. A malformed record (over-long continuation chain, data width
// past the end of the buffer, unrecognized VIF) is dropped and indexing
// resumes behind it; one corrupt field never aborts the telegram.
func NewIndex(payload []byte) *Index {
	idx := &Index{}
	i := 0
	for i < len(payload) {
		start := i
		dif := payload[i]
		i++
		if dif == 0x2F { // idle filler
			continue
		}
		if dif == 0x0F || dif == 0x1F { // manufacturer specific data trails
			break
		}

		storage := int((dif >> 6) & 0x01)
		tariff := 0
		subunit := 0
		mt := MeasurementType((dif >> 4) & 0x03)

		// extension bytes are self-delimiting through bit 7, so the walk
		// always consumes a whole chain to stay aligned; chains past the
		// cap merely invalidate the record
		difenr := 0
		aligned := true
		for ext := dif&0x80 != 0; ext; difenr++ {
			if i >= len(payload) {
				aligned = false
				break
			}
			dife := payload[i]
			i++
			if difenr < maxChain {
				subunit |= int((dife>>6)&0x01) << difenr
				tariff |= int((dife>>4)&0x03) << (difenr * 2)
				storage |= int(dife&0x0F) << (1 + difenr*4)
			}
			ext = dife&0x80 != 0
		}
		if !aligned || i >= len(payload) {
			break
		}
		valid := difenr <= maxChain

		vif := payload[i]
		i++
		var info vifInfo
		haveInfo := false
		vifenr := 0
		switch vif {
		case 0xFD, 0xFB:
			// linear extension: the true code is the following VIFE
			if i >= len(payload) {
				aligned = false
				break
			}
			vife := payload[i]
			i++
			if vif == 0xFD {
				info, haveInfo = classifyFD(vife)
			} else {
				info, haveInfo = classifyFB(vife)
			}
			vifenr, aligned = consumeVIFEs(payload, &i, vife&0x80 != 0)
		default:
			info, haveInfo = classifyVIF(vif & 0x7F)
			vifenr, aligned = consumeVIFEs(payload, &i, vif&0x80 != 0)
		}
		if !aligned {
			break
		}
		if vifenr > maxChain {
			valid = false
		}

		coding := dif & 0x0F
		length, known := dataLength(coding, payload, i)
		if !known {
			// cannot tell where the data ends; the rest is unusable
			break
		}
		if i+length > len(payload) {
			break
		}
		key := strings.ToUpper(hex.EncodeToString(payload[start:i]))
		data := payload[i : i+length]
		i += length
		if !valid || !haveInfo || length == 0 {
			// over-long chain, unknown VIF or no data: record dropped,
			// stream stays aligned
			continue
		}

		idx.Records = append(idx.Records, Record{
			Key:     key,
			Type:    mt,
			Range:   info.rng,
			Exp:     info.exp,
			Coding:  coding,
			Storage: storage,
			Tariff:  tariff,
			Subunit: subunit,
			Data:    data,
			Offset:  start,
		})
	}
	return idx
}

// consumeVIFEs reads the VIFE chain to its end. It reports the chain
// length and whether the payload held the whole chain; the caller
// decides validity against the chain cap.
func consumeVIFEs(payload []byte, i *int, ext bool) (int, bool) {
	n := 0
	for ext {
		if *i >= len(payload) {
			return n, false
		}
		vife := payload[*i]
		*i = *i + 1
		n++
		ext = vife&0x80 != 0
	}
	return n, true
}

// dataLength reports the number of data bytes a DIF coding occupies.
// Variable-length records read their size from the first data byte.
func dataLength(coding byte, payload []byte, pos int) (int, bool) {
	switch coding {
	case 0x00, 0x0F:
		return 0, true
	case 0x01, 0x09:
		return 1, true
	case 0x02, 0x0A:
		return 2, true
	case 0x03, 0x0B:
		return 3, true
	case 0x04, 0x05, 0x0C:
		return 4, true
	case 0x06, 0x0E:
		return 6, true
	case 0x07:
		return 8, true
	case 0x0D: // LVAR
		if pos >= len(payload) {
			return 0, false
		}
		lvar := payload[pos]
		if lvar > 0xBF { // BCD/binary variable forms not supported
			return 0, false
		}
		return int(lvar) + 1, true
	default:
		return 0, false
	}
}

// Pattern selects at most one record. A non-empty Key matches the literal
// DIF/VIF byte chain and ignores the structural components. Otherwise the
// structural components narrow the candidates: AnyType/AnyRange/AnyNr
// wildcard their slot. Index picks the nth (1-based) remaining candidate;
// zero behaves like 1, so a concrete index always beats a wildcard for
// any occurrence past the first.
type Pattern struct {
	Key     string
	Type    MeasurementType
	Range   Range
	Storage int
	Tariff  int
	Index   int
}

// Find resolves a pattern against the index.
func (x *Index) Find(p Pattern) (Record, bool) {
	want := p.Index
	if want <= 0 {
		want = 1
	}
	n := 0
	for _, rec := range x.Records {
		if !p.matches(rec) {
			continue
		}
		n++
		if n == want {
			return rec, true
		}
	}
	return Record{}, false
}

func (p Pattern) matches(rec Record) bool {
	if p.Key != "" {
		return strings.EqualFold(p.Key, rec.Key)
	}
	if p.Type != AnyType && p.Type != rec.Type {
		return false
	}
	if p.Range != AnyRange && p.Range != rec.Range {
		return false
	}
	if p.Storage != AnyNr && p.Storage != rec.Storage {
		return false
	}
	if p.Tariff != AnyNr && p.Tariff != rec.Tariff {
		return false
	}
	return true
}
