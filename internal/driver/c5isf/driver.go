// Package c5isf defines the Zenner C5-ISF heat meter. The device emits
// three incompatible telegram layouts from the same model: T1A1 carries
// the status and a 14 month energy history, T1A2 the matching volume
// history, T1B the instantaneous flow, power and temperature readings.
// One descriptor list covers all three; whichever records a telegram
// carries fill their slots and the rest keep their previous values.
package c5isf

import (
	"fmt"

	"github.com/larsxschneider/wmbusmeters/internal/driver"
	"github.com/larsxschneider/wmbusmeters/internal/dv"
	"github.com/larsxschneider/wmbusmeters/internal/meter"
	"github.com/larsxschneider/wmbusmeters/internal/translate"
	"github.com/larsxschneider/wmbusmeters/internal/unit"
)

const (
	manufacturerZRI = 0x6A49
	versionC5       = 0x88

	deviceTypeT1A1 = 0x0D // heat/cooling load: status + energy history
	deviceTypeT1A2 = 0x07 // water: volume history
	deviceTypeT1B  = 0x04 // heat: instantaneous readings

	// the month history occupies storage numbers historyBase..historyBase+13;
	// period index i (1-based, most recent first) lives at historyBase+i-1
	historyBase   = 32
	historyMonths = 14

	dueStorage = 8
)

var errorFlags = translate.NewTable("ERROR_FLAGS", "OK", "", []translate.Rule{
	{Trigger: 2000, Label: "VERIFICATION_EXPIRED"},
	{Trigger: 1000, Label: "BATTERY_EXPIRED"},
	{Trigger: 800, Label: "WIRELESS_ERROR"},
	{Trigger: 100, Label: "HARDWARE_ERROR3"},
	{Trigger: 50, Label: "VALUE_OVERLOAD"},
	{Trigger: 40, Label: "AIR_INSIDE"},
	{Trigger: 30, Label: "REVERSE_FLOW"},
	{Trigger: 20, Label: "DRY"},
	{Trigger: 10, Label: "ERROR_MEASURING"},
	{Trigger: 9, Label: "HARDWARE_ERROR2"},
	{Trigger: 8, Label: "HARDWARE_ERROR1"},
	{Trigger: 7, Label: "LOW_BATTERY"},
	{Trigger: 6, Label: "SUPPLY_SENSOR_INTERRUPTED"},
	{Trigger: 5, Label: "SHORT_CIRCUIT_SUPPLY_SENSOR"},
	{Trigger: 4, Label: "RETURN_SENSOR_INTERRUPTED"},
	{Trigger: 3, Label: "SHORT_CIRCUIT_RETURN_SENSOR"},
	{Trigger: 2, Label: "TEMP_ABOVE_RANGE"},
	{Trigger: 1, Label: "TEMP_BELOW_RANGE"},
})

// Definition returns the registry entry for the C5-ISF.
func Definition() driver.Definition {
	return driver.Definition{
		Name: "c5isf",
		Detections: []driver.Detection{
			{Manufacturer: manufacturerZRI, DeviceType: deviceTypeT1A1, Version: versionC5},
			{Manufacturer: manufacturerZRI, DeviceType: deviceTypeT1A2, Version: versionC5},
			{Manufacturer: manufacturerZRI, DeviceType: deviceTypeT1B, Version: versionC5},
		},
		New: newMeter,
	}
}

func newMeter() *meter.Meter {
	ds := []meter.Descriptor{
		// common to all three variants
		{
			Name: "total_energy_consumption", Quantity: unit.Energy, Display: unit.KWH, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.EnergyWh, Storage: 0, Tariff: 0},
			Props: meter.PropField | meter.PropJSON | meter.PropImportant,
		},
		{
			Name: "total_volume", Quantity: unit.Volume, Display: unit.M3, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Volume, Storage: 0, Tariff: 0},
			Props: meter.PropField | meter.PropJSON | meter.PropImportant,
		},
		// status extension, T1A1 and T1B
		{
			Name: "status", Quantity: unit.Text, Kind: meter.Lookup, Table: errorFlags,
			Match: dv.Pattern{Key: "02FD17", Index: 1},
			Props: meter.PropField | meter.PropJSON | meter.PropImportant,
		},
	}

	// month history dates, shared by T1A1 and T1A2
	for i := 1; i <= historyMonths; i++ {
		ds = append(ds, meter.Descriptor{
			Name: historyName(i), Quantity: unit.Text, Kind: meter.DateField,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Date, Storage: historyBase + i - 1, Tariff: 0},
			Props: meter.PropJSON,
		})
	}
	// T1A1 energy history
	for i := 1; i <= historyMonths; i++ {
		ds = append(ds, meter.Descriptor{
			Name: historyName(i), Quantity: unit.Energy, Display: unit.KWH, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.EnergyWh, Storage: historyBase + i - 1, Tariff: 0},
			Props: meter.PropJSON,
		})
	}
	// T1A2 volume history
	for i := 1; i <= historyMonths; i++ {
		ds = append(ds, meter.Descriptor{
			Name: historyName(i), Quantity: unit.Volume, Display: unit.M3, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Volume, Storage: historyBase + i - 1, Tariff: 0},
			Props: meter.PropJSON,
		})
	}

	// T1B only
	ds = append(ds,
		meter.Descriptor{
			Name: "due_energy_consumption", Quantity: unit.Energy, Display: unit.KWH, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.EnergyWh, Storage: dueStorage, Tariff: 0},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "due_date", Quantity: unit.Text, Kind: meter.DateField,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Date, Storage: dueStorage, Tariff: 0},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "volume_flow", Quantity: unit.Flow, Display: unit.M3H, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.VolumeFlow, Storage: 0, Tariff: 0},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "power", Quantity: unit.Power, Display: unit.KW, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.PowerW, Storage: 0, Tariff: 0},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "total_energy_consumption_last_month", Quantity: unit.Energy, Display: unit.KWH, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.EnergyWh, Storage: historyBase, Tariff: 0, Index: 1},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "last_month_date", Quantity: unit.Text, Kind: meter.DateField,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.Date, Storage: historyBase, Tariff: 0, Index: 1},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "max_power_last_month", Quantity: unit.Power, Display: unit.KW, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Maximum, Range: dv.PowerW, Storage: historyBase, Tariff: 0, Index: 1},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "flow_temperature", Quantity: unit.Temperature, Display: unit.C, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.FlowTemperature, Storage: 0, Tariff: 0, Index: 1},
			Props: meter.PropJSON,
		},
		meter.Descriptor{
			Name: "return_temperature", Quantity: unit.Temperature, Display: unit.C, Kind: meter.Numeric,
			Match: dv.Pattern{Type: dv.Instantaneous, Range: dv.ReturnTemperature, Storage: 0, Tariff: 0, Index: 1},
			Props: meter.PropJSON,
		},
	)

	return meter.New("c5isf", ds)
}

func historyName(period int) string {
	return fmt.Sprintf("prev_%d_month", period)
}
