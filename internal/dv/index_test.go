package dv

import (
	"encoding/hex"
	"testing"
)

func mustIndex(t *testing.T, s string) *Index {
	t.Helper()
	payload, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	return NewIndex(payload)
}

func TestIndexWalk(t *testing.T) {
	// energy, volume, status and a storage-8 energy record
	idx := mustIndex(t, "04061A0000000413C208000002FD17240084040600000000")
	if len(idx.Records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(idx.Records))
	}
	if idx.Records[0].Key != "0406" || idx.Records[0].Range != EnergyWh {
		t.Fatalf("unexpected first record: %+v", idx.Records[0])
	}
	if idx.Records[2].Key != "02FD17" || idx.Records[2].Range != ErrorFlags {
		t.Fatalf("unexpected status record: %+v", idx.Records[2])
	}
	if idx.Records[3].Storage != 8 {
		t.Fatalf("DIFE storage bits: got %d want 8", idx.Records[3].Storage)
	}
	if idx.Records[1].Offset != 6 {
		t.Fatalf("volume record offset: got %d want 6", idx.Records[1].Offset)
	}
}

func TestIndexSkipsFillBytes(t *testing.T) {
	idx := mustIndex(t, "2F2F04061A0000002F2F2F")
	if len(idx.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(idx.Records))
	}
	if idx.Records[0].Offset != 2 {
		t.Fatalf("offset: got %d want 2", idx.Records[0].Offset)
	}
}

func TestIndexStopsAtManufacturerData(t *testing.T) {
	idx := mustIndex(t, "04061A0000000F0102030405")
	if len(idx.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(idx.Records))
	}
}

func TestIndexDropsUnknownVIFAndContinues(t *testing.T) {
	// 0x7B is not a classified VIF; the record is dropped but its four
	// data bytes are consumed so the following volume record survives.
	idx := mustIndex(t, "047BDEADBEEF0413C2080000")
	if len(idx.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(idx.Records))
	}
	if idx.Records[0].Key != "0413" {
		t.Fatalf("unexpected record %q", idx.Records[0].Key)
	}
}

func TestIndexTruncatedDataDropsTail(t *testing.T) {
	idx := mustIndex(t, "04061A0000000413C208")
	if len(idx.Records) != 1 {
		t.Fatalf("expected only the intact record, got %d", len(idx.Records))
	}
}

func TestIndexOverlongDIFEChainDropsOnlyThatRecord(t *testing.T) {
	// twelve DIFE bytes exceed the chain cap; the extension bits still
	// delimit the chain, so only the offending record is dropped and the
	// volume record behind it is indexed
	overlong := "84" + "8080808080808080808080" + "00" + "06" + "00000000"
	idx := mustIndex(t, "04061A000000"+overlong+"0413C2080000")
	if len(idx.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(idx.Records))
	}
	rec, ok := idx.Find(Pattern{Type: Instantaneous, Range: Volume, Storage: 0, Tariff: 0})
	if !ok || rec.Key != "0413" {
		t.Fatalf("volume record after the over-long chain: %+v ok=%v", rec, ok)
	}
}

func TestIndexOverlongVIFEChainDropsOnlyThatRecord(t *testing.T) {
	overlong := "04" + "86" + "FFFFFFFFFFFFFFFFFFFFFF" + "7F" + "00000000"
	idx := mustIndex(t, overlong+"0413C2080000")
	if len(idx.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(idx.Records))
	}
	if idx.Records[0].Key != "0413" {
		t.Fatalf("unexpected record %q", idx.Records[0].Key)
	}
}

func TestIndexTruncatedDIFEChainDropsTail(t *testing.T) {
	// payload ends inside the extension chain; nothing left to recover
	idx := mustIndex(t, "04061A0000008480")
	if len(idx.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(idx.Records))
	}
}

func TestIndexHighStorageNumbers(t *testing.T) {
	// 84 80 01: DIFE chain placing the record at storage 32
	idx := mustIndex(t, "8480010600000000C4800106000000808280016CC121")
	if len(idx.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(idx.Records))
	}
	if idx.Records[0].Storage != 32 {
		t.Fatalf("storage: got %d want 32", idx.Records[0].Storage)
	}
	if idx.Records[1].Storage != 33 {
		t.Fatalf("storage: got %d want 33", idx.Records[1].Storage)
	}
	if idx.Records[2].Range != Date || idx.Records[2].Storage != 32 {
		t.Fatalf("unexpected date record: %+v", idx.Records[2])
	}
}

func TestIndexMeasurementType(t *testing.T) {
	// DIF 0x94: function field 01 = maximum, with storage 32 DIFE chain
	idx := mustIndex(t, "948001AE2500000000")
	if len(idx.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(idx.Records))
	}
	rec := idx.Records[0]
	if rec.Type != Maximum || rec.Range != PowerW || rec.Storage != 32 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestFindLiteralKey(t *testing.T) {
	idx := mustIndex(t, "0413C208000002FD172400")
	rec, ok := idx.Find(Pattern{Key: "02FD17", Index: 1})
	if !ok {
		t.Fatalf("status record not found")
	}
	if v, _ := rec.Uint(); v != 36 {
		t.Fatalf("status code: got %d want 36", v)
	}
}

func TestFindStructural(t *testing.T) {
	idx := mustIndex(t, "04061A0000004413210900000413C2080000")
	rec, ok := idx.Find(Pattern{Type: Instantaneous, Range: Volume, Storage: 1, Tariff: 0})
	if !ok {
		t.Fatalf("storage-1 volume not found")
	}
	if rec.Key != "4413" {
		t.Fatalf("unexpected record %q", rec.Key)
	}
}

func TestFindWildcardPicksFirstOccurrence(t *testing.T) {
	// two storage-0 volume records; the wildcard index resolves to the
	// first while a concrete index addresses the second
	idx := mustIndex(t, "0413C208000004933C05000000")
	first, ok := idx.Find(Pattern{Type: Instantaneous, Range: Volume, Storage: 0, Tariff: 0})
	if !ok || first.Key != "0413" {
		t.Fatalf("wildcard pick: %+v ok=%v", first, ok)
	}
	second, ok := idx.Find(Pattern{Type: Instantaneous, Range: Volume, Storage: 0, Tariff: 0, Index: 2})
	if !ok || second.Key != "04933C" {
		t.Fatalf("concrete index pick: %+v ok=%v", second, ok)
	}
}

func TestFindAbsentSelector(t *testing.T) {
	idx := mustIndex(t, "04061A000000")
	if _, ok := idx.Find(Pattern{Type: Instantaneous, Range: Volume, Storage: 0, Tariff: 0}); ok {
		t.Fatalf("expected not found")
	}
}
