package meter

import (
	"fmt"

	"github.com/larsxschneider/wmbusmeters/internal/dv"
	"github.com/larsxschneider/wmbusmeters/internal/unit"
)

// Meter is one driver instance bound to a physical device. It keeps one
// value slot per descriptor; telegram variants fill different subsets and
// slots missing from a variant keep their previous value. A Meter is not
// safe for concurrent use; callers serialize decode-then-read sequences
// per device.
type Meter struct {
	driver      string
	media       string
	name        string
	id          string
	descriptors []Descriptor
	slots       []slot
}

type slot struct {
	set    bool
	num    float64 // canonical unit of the descriptor's quantity
	str    string
	offset int
}

// New builds a meter from its descriptor list. The list is owned by the
// meter afterwards.
func New(driver string, descriptors []Descriptor) *Meter {
	return &Meter{
		driver:      driver,
		descriptors: descriptors,
		slots:       make([]slot, len(descriptors)),
	}
}

func (m *Meter) Driver() string { return m.driver }
func (m *Meter) Media() string  { return m.media }
func (m *Meter) Name() string   { return m.name }
func (m *Meter) ID() string     { return m.id }

func (m *Meter) SetMedia(media string) { m.media = media }
func (m *Meter) SetName(name string)   { m.name = name }
func (m *Meter) SetID(id string)       { m.id = id }

// Decode runs one pass over an indexed telegram. Each descriptor resolves
// its selector; a missing selector or an undecodable record leaves the
// slot untouched, so a corrupt field costs one skipped slot and nothing
// else.
func (m *Meter) Decode(idx *dv.Index) {
	for i := range m.descriptors {
		d := &m.descriptors[i]
		rec, ok := idx.Find(d.Match)
		if !ok {
			continue
		}
		switch d.Kind {
		case Numeric:
			if v, ok := rec.Numeric(); ok {
				m.slots[i] = slot{set: true, num: v, offset: rec.Offset}
			}
		case DateField:
			if s, ok := rec.DateString(); ok {
				m.slots[i] = slot{set: true, str: s, offset: rec.Offset}
			}
		case Text:
			if s, ok := rec.Text(); ok {
				m.slots[i] = slot{set: true, str: s, offset: rec.Offset}
			}
		case Lookup:
			if code, ok := rec.Uint(); ok && d.Table != nil {
				m.slots[i] = slot{set: true, str: d.Table.Decode(code), offset: rec.Offset}
			}
		}
	}
}

// Numeric returns a field value converted into the requested unit. The
// unit also disambiguates fields sharing a name across quantities (the
// month history uses one name for its energy and volume series). Asking
// for a unit outside every same-named field's quantity is an authoring
// defect and panics.
func (m *Meter) Numeric(name string, u unit.Unit) (float64, bool) {
	sawName := false
	for i, d := range m.descriptors {
		if d.Name != name || d.Kind != Numeric {
			continue
		}
		sawName = true
		if d.Quantity != unit.Of(u) {
			continue
		}
		if !m.slots[i].set {
			return 0, false
		}
		return unit.Convert(m.slots[i].num, unit.Canonical(d.Quantity), u), true
	}
	if sawName {
		panic(fmt.Sprintf("meter %s: field %q has no %v representation", m.driver, name, unit.Of(u)))
	}
	return 0, false
}

// SetNumeric stores a value, given in unit u, into the named field slot.
func (m *Meter) SetNumeric(name string, u unit.Unit, v float64) {
	for i, d := range m.descriptors {
		if d.Name != name || d.Kind != Numeric || d.Quantity != unit.Of(u) {
			continue
		}
		m.slots[i] = slot{set: true, num: unit.Convert(v, u, unit.Canonical(d.Quantity))}
		return
	}
	panic(fmt.Sprintf("meter %s: no numeric field %q of %v", m.driver, name, unit.Of(u)))
}

// Text returns a string-valued field (text, date or lookup kinds).
func (m *Meter) Text(name string) (string, bool) {
	for i, d := range m.descriptors {
		if d.Name != name || d.Kind == Numeric {
			continue
		}
		if !m.slots[i].set {
			return "", false
		}
		return m.slots[i].str, true
	}
	return "", false
}

// SetText stores a string value into the named field slot.
func (m *Meter) SetText(name, v string) {
	for i, d := range m.descriptors {
		if d.Name != name || d.Kind == Numeric {
			continue
		}
		m.slots[i] = slot{set: true, str: v}
		return
	}
	panic(fmt.Sprintf("meter %s: no string field %q", m.driver, name))
}

// Offsets reports where in the payload each set field matched during the
// last decode, keyed like the JSON output. Useful for analyze output.
func (m *Meter) Offsets() map[string]int {
	out := make(map[string]int)
	for i, d := range m.descriptors {
		if !m.slots[i].set {
			continue
		}
		out[m.jsonKey(d)] = m.slots[i].offset
	}
	return out
}
