package dv

// Range classifies what a VIF code measures. A field descriptor selects
// records by range rather than by exact VIF byte, which keeps one driver
// working across firmware revisions that shift the decimal exponent.
type Range int

const (
	EnergyWh Range = iota
	Volume
	PowerW
	VolumeFlow
	FlowTemperature
	ReturnTemperature
	TemperatureDifference
	ExternalTemperature
	Date
	DateTime
	ErrorFlags
	FabricationNo

	// AnyRange matches every record range in a pattern.
	AnyRange Range = -1
)

func (r Range) String() string {
	switch r {
	case EnergyWh:
		return "energy"
	case Volume:
		return "volume"
	case PowerW:
		return "power"
	case VolumeFlow:
		return "volume flow"
	case FlowTemperature:
		return "flow temperature"
	case ReturnTemperature:
		return "return temperature"
	case TemperatureDifference:
		return "temperature difference"
	case ExternalTemperature:
		return "external temperature"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case ErrorFlags:
		return "error flags"
	case FabricationNo:
		return "fabrication no"
	case AnyRange:
		return "any"
	default:
		return "unknown"
	}
}

// vifInfo pairs a range with the decimal exponent that scales the raw
// integer into the range's canonical unit (kWh, m3, kW, m3/h, Celsius).
type vifInfo struct {
	rng Range
	exp int
}

// classifyVIF maps a primary VIF code (extension bit cleared) onto its
// range and exponent. Codes outside the supported set report false and
// the record is dropped by the indexer.
func classifyVIF(vif byte) (vifInfo, bool) {
	switch {
	case vif <= 0x07: // energy 10^(n-3) Wh
		return vifInfo{EnergyWh, int(vif) - 6}, true
	case vif >= 0x10 && vif <= 0x17: // volume 10^(n-6) m3
		return vifInfo{Volume, int(vif&0x07) - 6}, true
	case vif >= 0x28 && vif <= 0x2F: // power 10^(n-3) W
		return vifInfo{PowerW, int(vif&0x07) - 6}, true
	case vif >= 0x38 && vif <= 0x3F: // volume flow 10^(n-6) m3/h
		return vifInfo{VolumeFlow, int(vif&0x07) - 6}, true
	case vif >= 0x58 && vif <= 0x5B: // flow temperature 10^(n-3) C
		return vifInfo{FlowTemperature, int(vif&0x03) - 3}, true
	case vif >= 0x5C && vif <= 0x5F:
		return vifInfo{ReturnTemperature, int(vif&0x03) - 3}, true
	case vif >= 0x60 && vif <= 0x63: // difference in Kelvin steps
		return vifInfo{TemperatureDifference, int(vif&0x03) - 3}, true
	case vif >= 0x64 && vif <= 0x67:
		return vifInfo{ExternalTemperature, int(vif&0x03) - 3}, true
	case vif == 0x6C:
		return vifInfo{Date, 0}, true
	case vif == 0x6D:
		return vifInfo{DateTime, 0}, true
	case vif == 0x78:
		return vifInfo{FabricationNo, 0}, true
	default:
		return vifInfo{}, false
	}
}

// classifyFD maps the first VIFE after the 0xFD linear extension marker.
func classifyFD(vife byte) (vifInfo, bool) {
	switch vife & 0x7F {
	case 0x17: // error flags, plain binary, never scaled
		return vifInfo{ErrorFlags, 0}, true
	default:
		return vifInfo{}, false
	}
}

// classifyFB maps the first VIFE after the 0xFB linear extension marker,
// which shifts the primary ranges up for large installations.
func classifyFB(vife byte) (vifInfo, bool) {
	switch v := vife & 0x7F; {
	case v <= 0x01: // energy 10^(n-1) MWh
		return vifInfo{EnergyWh, int(v) + 2}, true
	case v == 0x10 || v == 0x11: // volume 10^(n+2) m3
		return vifInfo{Volume, int(v&0x01) + 2}, true
	case v == 0x28 || v == 0x29: // power 10^(n-1) MW
		return vifInfo{PowerW, int(v&0x01) + 2}, true
	default:
		return vifInfo{}, false
	}
}
