package meter

import (
	"strconv"
	"strings"

	"github.com/larsxschneider/wmbusmeters/internal/unit"
)

// JSON returns the serializable field map: the fixed keys media, meter,
// name, id and timestamp plus one entry per set field flagged for JSON
// output. Numeric keys carry the display unit as a suffix
// (total_volume -> total_volume_m3). Unset fields are omitted.
func (m *Meter) JSON(timestamp string) map[string]any {
	out := map[string]any{
		"media":     m.media,
		"meter":     m.driver,
		"name":      m.name,
		"id":        m.id,
		"timestamp": timestamp,
	}
	for i, d := range m.descriptors {
		if !m.slots[i].set || d.Props&PropJSON == 0 {
			continue
		}
		if d.Kind == Numeric {
			out[m.jsonKey(d)] = unit.Convert(m.slots[i].num, unit.Canonical(d.Quantity), d.Display)
		} else {
			out[d.Name] = m.slots[i].str
		}
	}
	return out
}

// Important returns the condensed subset of set fields.
func (m *Meter) Important() map[string]any {
	out := make(map[string]any)
	for i, d := range m.descriptors {
		if !m.slots[i].set || d.Props&PropImportant == 0 {
			continue
		}
		if d.Kind == Numeric {
			out[m.jsonKey(d)] = unit.Convert(m.slots[i].num, unit.Canonical(d.Quantity), d.Display)
		} else {
			out[d.Name] = m.slots[i].str
		}
	}
	return out
}

// FlatLine renders Name;Id;value;...;timestamp over the FIELD-flagged
// descriptors in registration order. Numeric values print with six
// decimals; unset fields leave their column empty.
func (m *Meter) FlatLine(timestamp string) string {
	parts := []string{m.name, m.id}
	for i, d := range m.descriptors {
		if d.Props&PropField == 0 {
			continue
		}
		s := m.slots[i]
		if d.Kind == Numeric {
			if s.set {
				v := unit.Convert(s.num, unit.Canonical(d.Quantity), d.Display)
				parts = append(parts, strconv.FormatFloat(v, 'f', 6, 64))
			} else {
				parts = append(parts, "")
			}
		} else {
			parts = append(parts, s.str)
		}
	}
	parts = append(parts, timestamp)
	return strings.Join(parts, ";")
}

func (m *Meter) jsonKey(d Descriptor) string {
	if d.Kind != Numeric {
		return d.Name
	}
	return d.Name + "_" + unit.Suffix(d.Display)
}
