package driver

import (
	"testing"

	"github.com/larsxschneider/wmbusmeters/internal/meter"
)

func dummyDef(name string, dets ...Detection) Definition {
	return Definition{
		Name:       name,
		Detections: dets,
		New:        func() *meter.Meter { return meter.New(name, nil) },
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(dummyDef("heat", Detection{0x6A49, 0x04, 0x88})); err != nil {
		t.Fatalf("register: %v", err)
	}
	def, ok := r.Lookup(0x6A49, 0x04, 0x88)
	if !ok || def.Name != "heat" {
		t.Fatalf("lookup: %+v ok=%v", def, ok)
	}
	if _, ok := r.Lookup(0x6A49, 0x04, 0x89); ok {
		t.Fatalf("version mismatch must not match")
	}
}

func TestRegisterRejectsDuplicateDetection(t *testing.T) {
	r := NewRegistry()
	det := Detection{0x0601, 0x16, 0x01}
	if err := r.Register(dummyDef("a", det)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(dummyDef("b", det)); err == nil {
		t.Fatalf("duplicate detection must be rejected")
	}
}

func TestRegisterRejectsIncompleteDefinition(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Name: "x"}); err == nil {
		t.Fatalf("definition without detections must be rejected")
	}
}

func TestByName(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(dummyDef("water", Detection{0x0601, 0x16, 0x01}))
	if _, ok := r.ByName("water"); !ok {
		t.Fatalf("by name lookup failed")
	}
	if _, ok := r.ByName("heat"); ok {
		t.Fatalf("unknown name must not match")
	}
}

func TestMediaFor(t *testing.T) {
	cases := map[byte]string{
		0x04: "heat",
		0x07: "water",
		0x0D: "heat/cooling load",
		0x16: "cold water",
		0xEE: "unknown",
	}
	for dt, want := range cases {
		if got := MediaFor(dt); got != want {
			t.Fatalf("media for 0x%02X: got %q want %q", dt, got, want)
		}
	}
}
