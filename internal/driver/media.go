package driver

// MediaFor translates the device type byte into the medium label used in
// serialized output (EN 13757-3 device type table, abridged to the types
// the bundled drivers detect).
func MediaFor(deviceType byte) string {
	switch deviceType {
	case 0x02:
		return "electricity"
	case 0x03:
		return "gas"
	case 0x04:
		return "heat"
	case 0x06:
		return "warm water"
	case 0x07:
		return "water"
	case 0x08:
		return "heat cost allocator"
	case 0x0A, 0x0B:
		return "cooling"
	case 0x0D:
		return "heat/cooling load"
	case 0x16:
		return "cold water"
	case 0x17:
		return "dual water"
	default:
		return "unknown"
	}
}
