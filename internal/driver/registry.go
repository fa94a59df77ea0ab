// Package driver matches telegrams to meter definitions. Definitions are
// registered explicitly while the process initializes; there is no
// init-time self-registration, so lookup behavior never depends on
// import order.
package driver

import (
	"fmt"
	"sync"

	"github.com/larsxschneider/wmbusmeters/internal/meter"
)

// Detection is one (manufacturer, device type, version) triple a meter
// model announces itself with. A model spanning several telegram variants
// lists one detection per variant.
type Detection struct {
	Manufacturer uint16
	DeviceType   byte
	Version      byte
}

// Definition describes one meter model: its detections and a constructor
// for a fresh per-device meter instance.
type Definition struct {
	Name       string
	Detections []Detection
	New        func() *meter.Meter
}

// Registry maps detections to definitions.
type Registry struct {
	mu   sync.RWMutex
	defs []Definition
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a definition. A detection triple already claimed by an
// earlier definition is rejected.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" || def.New == nil || len(def.Detections) == 0 {
		return fmt.Errorf("driver %q: incomplete definition", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.defs {
		for _, have := range existing.Detections {
			for _, want := range def.Detections {
				if have == want {
					return fmt.Errorf("driver %q: detection %04X/%02X/%02X already registered by %q",
						def.Name, want.Manufacturer, want.DeviceType, want.Version, existing.Name)
				}
			}
		}
	}
	r.defs = append(r.defs, def)
	return nil
}

// MustRegister panics on a registration error; definitions are wired
// during process initialization where a failure is a programming defect.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition matching a telegram's detection triple.
func (r *Registry) Lookup(manufacturer uint16, deviceType, version byte) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.defs {
		for _, det := range def.Detections {
			if det.Manufacturer == manufacturer && det.DeviceType == deviceType && det.Version == version {
				return def, true
			}
		}
	}
	return Definition{}, false
}

// ByName returns a definition by its driver name.
func (r *Registry) ByName(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, def := range r.defs {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}
