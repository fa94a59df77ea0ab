// Package ultrimis defines the Apator Ultrimis W8 water meter.
package ultrimis

import (
	"github.com/larsxschneider/wmbusmeters/internal/driver"
	"github.com/larsxschneider/wmbusmeters/internal/dv"
	"github.com/larsxschneider/wmbusmeters/internal/meter"
	"github.com/larsxschneider/wmbusmeters/internal/translate"
	"github.com/larsxschneider/wmbusmeters/internal/unit"
)

const (
	manufacturerAPA = 0x0601
	versionW8       = 0x01
	deviceTypeCold  = 0x16
)

// The W8 packs its alarms (backflow, leaks, zero flow, tampering, no
// water, low battery) into one 24 bit code without a documented
// per-condition breakdown, so any non-zero value renders as the raw code.
var infoCodes = translate.NewTable("INFO", "OK", "ERR(%06x)", nil)

// Definition returns the registry entry for the Ultrimis W8.
func Definition() driver.Definition {
	return driver.Definition{
		Name: "ultrimis",
		Detections: []driver.Detection{
			{Manufacturer: manufacturerAPA, DeviceType: deviceTypeCold, Version: versionW8},
		},
		New: newMeter,
	}
}

func newMeter() *meter.Meter {
	return meter.New("ultrimis", []meter.Descriptor{
		{
			Name: "total", Quantity: unit.Volume, Display: unit.M3, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Volume, Storage: 0, Tariff: 0},
			Props: meter.PropField | meter.PropJSON,
		},
		{
			Name: "target", Quantity: unit.Volume, Display: unit.M3, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Volume, Storage: 1, Tariff: 0},
			Props: meter.PropField | meter.PropJSON,
		},
		{
			Name: "current_status", Quantity: unit.Text, Kind: meter.Lookup, Table: infoCodes,
			Match: dv.Pattern{Key: "03FD17", Index: 1},
			Props: meter.PropField | meter.PropJSON,
		},
		{
			Name: "total_backward_flow", Quantity: unit.Volume, Display: unit.M3, Kind: meter.Numeric,
			Match: dv.Pattern{Key: "04933C", Index: 1},
			Props: meter.PropField | meter.PropJSON,
		},
	})
}
