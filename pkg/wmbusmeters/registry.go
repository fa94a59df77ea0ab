package wmbusmeters

import (
	"github.com/larsxschneider/wmbusmeters/internal/driver"
	"github.com/larsxschneider/wmbusmeters/internal/driver/c5isf"
	"github.com/larsxschneider/wmbusmeters/internal/driver/ultrimis"
)

// Drivers are wired here explicitly rather than through init side
// effects, so the set in play never depends on import order.
func newDefaultRegistry() *driver.Registry {
	r := driver.NewRegistry()
	r.MustRegister(c5isf.Definition())
	r.MustRegister(ultrimis.Definition())
	return r
}

var defaultRegistry = newDefaultRegistry()
