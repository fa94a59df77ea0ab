// Package meter holds the generic descriptor-driven field engine. A meter
// model is described by an ordered list of field descriptors; one engine
// decodes every model, so adding a device means writing data, not code.
package meter

import (
	"github.com/larsxschneider/wmbusmeters/internal/dv"
	"github.com/larsxschneider/wmbusmeters/internal/translate"
	"github.com/larsxschneider/wmbusmeters/internal/unit"
)

// Kind selects how a matched record is decoded into the field slot.
type Kind int

const (
	Numeric   Kind = iota // scaled value in the quantity's canonical unit
	Text                  // free-form string (BCD digits, LVAR ASCII)
	DateField             // packed date or datetime rendered literally
	Lookup                // integer code run through a translation table
)

// Props flags where a field appears when the meter is serialized.
type Props uint8

const (
	PropField     Props = 1 << iota // the flat semicolon-separated line
	PropJSON                        // the JSON field map
	PropImportant                   // the condensed important subset
)

// Descriptor binds a field name to a record selector and a decode action.
// Descriptors are immutable once the meter is built; registration order
// is display order.
type Descriptor struct {
	Name     string
	Quantity unit.Quantity
	Display  unit.Unit // unit used for rendering; canonical for storage
	Kind     Kind
	Match    dv.Pattern
	Props    Props
	Table    *translate.Table // only for Lookup fields
}
