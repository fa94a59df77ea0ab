package wmbusmeters

import (
	"context"
	"time"

	internalopts "github.com/larsxschneider/wmbusmeters/internal/options"
)

// The placeholder stamps keep analyze output reproducible when no real
// receive time is supplied.
const (
	placeholderJSONTimestamp = "1111-11-11T11:11:11Z"
	placeholderFlatTimestamp = "1111-11-11 11:11.11"
)

// Options configures decoding.
type Options struct {
	// KeyHex is the 32 hex digit AES key for mode 5 telegrams.
	KeyHex string
	// MeterName labels the output; defaults to the driver name.
	MeterName string
	// Timestamp stamps the output; the zero value renders fixed
	// placeholder stamps.
	Timestamp time.Time
}

func (o Options) toInternal(ctx context.Context) (context.Context, error) {
	key, err := internalopts.ParseKeyHex(o.KeyHex)
	if err != nil {
		return ctx, err
	}
	ctx = internalopts.WithSecurityKey(ctx, key)
	ctx = internalopts.WithMeterName(ctx, o.MeterName)
	return ctx, nil
}

func (o Options) jsonTimestamp() string {
	if o.Timestamp.IsZero() {
		return placeholderJSONTimestamp
	}
	return o.Timestamp.UTC().Format(time.RFC3339)
}

func (o Options) flatTimestamp() string {
	if o.Timestamp.IsZero() {
		return placeholderFlatTimestamp
	}
	return o.Timestamp.UTC().Format("2006-01-02 15:04.05")
}
