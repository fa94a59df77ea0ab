package unit

import "fmt"

// Quantity is the physical dimension of a decoded field. Conversions are
// only defined between units sharing a quantity.
type Quantity int

const (
	Energy Quantity = iota
	Volume
	Power
	Flow
	Temperature
	Text
)

func (q Quantity) String() string {
	switch q {
	case Energy:
		return "energy"
	case Volume:
		return "volume"
	case Power:
		return "power"
	case Flow:
		return "flow"
	case Temperature:
		return "temperature"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("quantity(%d)", int(q))
	}
}

// Unit identifies one concrete measurement unit.
type Unit int

const (
	KWH Unit = iota
	WH
	MJ
	GJ
	M3
	L
	KW
	W
	M3H
	LH
	C
	K
	F
	None // text fields carry no unit
)

// info converts a value in this unit into the quantity's canonical unit
// via canonical = value*scale + offset. Canonical units are kWh, m3, kW,
// m3/h and Celsius.
type info struct {
	quantity Quantity
	suffix   string
	scale    float64
	offset   float64
}

var units = map[Unit]info{
	KWH: {Energy, "kwh", 1, 0},
	WH:  {Energy, "wh", 0.001, 0},
	MJ:  {Energy, "mj", 1.0 / 3.6, 0},
	GJ:  {Energy, "gj", 1000.0 / 3.6, 0},
	M3:  {Volume, "m3", 1, 0},
	L:   {Volume, "l", 0.001, 0},
	KW:  {Power, "kw", 1, 0},
	W:   {Power, "w", 0.001, 0},
	M3H: {Flow, "m3h", 1, 0},
	LH:  {Flow, "lh", 0.001, 0},
	C:   {Temperature, "c", 1, 0},
	K:   {Temperature, "k", 1, -273.15},
	F:   {Temperature, "f", 5.0 / 9.0, -160.0 / 9.0},
}

func (u Unit) String() string {
	if i, ok := units[u]; ok {
		return i.suffix
	}
	if u == None {
		return ""
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// Of returns the quantity a unit measures. None belongs to Text.
func Of(u Unit) Quantity {
	if i, ok := units[u]; ok {
		return i.quantity
	}
	return Text
}

// Suffix returns the lowercase abbreviation appended to JSON field keys.
func Suffix(u Unit) string {
	if i, ok := units[u]; ok {
		return i.suffix
	}
	return ""
}

// Canonical returns the unit numeric extraction yields for a quantity.
func Canonical(q Quantity) Unit {
	switch q {
	case Energy:
		return KWH
	case Volume:
		return M3
	case Power:
		return KW
	case Flow:
		return M3H
	case Temperature:
		return C
	default:
		return None
	}
}

// Convert maps a value between two units of the same quantity. A request
// across quantities is a driver-authoring defect and panics; it must be
// caught when the driver is written, not recovered from at runtime.
func Convert(value float64, from, to Unit) float64 {
	fi, fok := units[from]
	ti, tok := units[to]
	if !fok || !tok || fi.quantity != ti.quantity {
		panic(fmt.Sprintf("unit: cannot convert %v (%v) to %v (%v)", from, Of(from), to, Of(to)))
	}
	if from == to {
		return value
	}
	canonical := value*fi.scale + fi.offset
	return (canonical - ti.offset) / ti.scale
}
