// Package wmbusmeters decodes Wireless M-Bus telegrams from utility
// meters into named, unit-tagged readings.
package wmbusmeters

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/larsxschneider/wmbusmeters/internal/crypto"
	"github.com/larsxschneider/wmbusmeters/internal/driver"
	"github.com/larsxschneider/wmbusmeters/internal/dv"
	"github.com/larsxschneider/wmbusmeters/internal/frame"
	"github.com/larsxschneider/wmbusmeters/internal/meter"
	internalopts "github.com/larsxschneider/wmbusmeters/internal/options"
)

// Result captures the outcome of one analyzed telegram.
type Result struct {
	Driver    string
	RawHex    string
	ByteCount int
	Telegram  *frame.Telegram
	Fields    map[string]any
	Flat      string
	Offsets   map[string]int
}

// String renders a human-readable representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"driver":     r.Driver,
		"byte_count": r.ByteCount,
		"raw_hex":    r.RawHex,
	}
	if r.Telegram != nil {
		summary["meter_id"] = r.Telegram.MeterIDString()
		summary["manufacturer"] = fmt.Sprintf("0x%04X", r.Telegram.Manufacturer)
		summary["ci"] = fmt.Sprintf("0x%02X", r.Telegram.CI)
	}
	if len(r.Fields) > 0 {
		summary["fields"] = r.Fields
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("driver: %s bytes:%d raw:%s (marshal error: %v)", r.Driver, r.ByteCount, r.RawHex, err)
	}
	return string(data)
}

// Decoder analyzes telegrams against the built-in driver registry. It
// keeps one meter instance per device, so telegram variants that each
// carry a subset of the fields accumulate into one complete view.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	registry *driver.Registry
	opts     Options
	meters   map[string]*meter.Meter
}

// NewDecoder returns a decoder with its own per-device state.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{
		registry: defaultRegistry,
		opts:     opts,
		meters:   make(map[string]*meter.Meter),
	}
}

// Analyze decodes one hex telegram with default options.
func Analyze(ctx context.Context, raw string) (Result, error) {
	return AnalyzeWithOptions(ctx, raw, Options{})
}

// AnalyzeWithOptions decodes one hex telegram. Device state does not
// survive the call; use a Decoder to accumulate across telegrams.
func AnalyzeWithOptions(ctx context.Context, raw string, opts Options) (Result, error) {
	ctx, err := opts.toInternal(ctx)
	if err != nil {
		return Result{}, err
	}
	return NewDecoder(opts).Analyze(ctx, raw)
}

// Analyze decodes one hex telegram, reusing the meter state of any
// device seen before.
func (d *Decoder) Analyze(ctx context.Context, raw string) (Result, error) {
	data, err := decodeHex(raw)
	if err != nil {
		return Result{}, err
	}
	telegram, err := frame.Parse(data)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Driver:    "unknown",
		RawHex:    strings.ToUpper(cleanHex(raw)),
		ByteCount: len(data),
		Telegram:  &telegram,
	}

	def, ok := d.registry.Lookup(telegram.Manufacturer, telegram.DeviceType, telegram.Version)
	if !ok {
		return result, nil
	}
	result.Driver = def.Name

	m := d.meterFor(ctx, def, &telegram)
	m.SetMedia(driver.MediaFor(telegram.DeviceType))

	if err := crypto.Decrypt(&telegram, d.securityKey(ctx)); err != nil {
		if errors.Is(err, crypto.ErrKeyRequired) || errors.Is(err, crypto.ErrInvalidKey) {
			// report the addressing fields we have instead of failing
			fields := m.JSON(d.opts.jsonTimestamp())
			fields["encryption"] = err.Error()
			result.Fields = fields
			return result, nil
		}
		return result, err
	}

	m.Decode(dv.NewIndex(telegram.Payload))
	result.Fields = m.JSON(d.opts.jsonTimestamp())
	result.Flat = m.FlatLine(d.opts.flatTimestamp())
	result.Offsets = m.Offsets()
	return result, nil
}

func (d *Decoder) meterFor(ctx context.Context, def driver.Definition, t *frame.Telegram) *meter.Meter {
	id := t.MeterIDString()
	key := def.Name + "/" + id
	m, ok := d.meters[key]
	if !ok {
		m = def.New()
		m.SetID(id)
		m.SetName(d.meterName(ctx, def.Name))
		d.meters[key] = m
	}
	return m
}

func (d *Decoder) securityKey(ctx context.Context) []byte {
	if key := internalopts.SecurityKey(ctx); key != nil {
		return key
	}
	key, err := internalopts.ParseKeyHex(d.opts.KeyHex)
	if err != nil {
		return nil
	}
	return key
}

func (d *Decoder) meterName(ctx context.Context, driverName string) string {
	if name := internalopts.MeterName(ctx); name != "" {
		return name
	}
	if d.opts.MeterName != "" {
		return d.opts.MeterName
	}
	return driverName
}

func decodeHex(input string) ([]byte, error) {
	clean := cleanHex(input)
	if strings.HasPrefix(strings.ToUpper(clean), "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex telegram must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

// capture tools separate byte groups with pipes or underscores
func cleanHex(input string) string {
	return internalopts.StripWhitespace(strings.Map(func(r rune) rune {
		if r == '|' || r == '_' {
			return -1
		}
		return r
	}, input))
}
