package nbtx

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

func TestInflate_GzipRoundTrip(t *testing.T) {
	payload := []byte("not nbt, but good enough for the gate")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	out := Inflate(buf.Bytes())
	if !bytes.Equal(out, payload) {
		t.Fatalf("inflate mismatch: got %q want %q", out, payload)
	}
}

func TestInflate_Passthrough(t *testing.T) {
	raw := []byte{0x0A, 0x00, 0x00}
	if out := Inflate(raw); !bytes.Equal(out, raw) {
		t.Fatalf("non-gzip buffer must pass through unchanged")
	}
}

func TestInflate_CorruptGzipFallsBack(t *testing.T) {
	// Gzip magic followed by garbage: the gate must hand back the raw bytes.
	raw := []byte{0x1F, 0x8B, 0xFF, 0xFF, 0x00}
	if out := Inflate(raw); !bytes.Equal(out, raw) {
		t.Fatalf("corrupt gzip must fall back to raw buffer")
	}
}

func TestDecodeJava_RoundTrip(t *testing.T) {
	src := map[string]any{
		"Width": int16(3),
		"Meta": map[string]any{
			"Name": "hut",
		},
		"Blocks": []byte{1, 2, 3},
		"Longs":  []int64{0x0102030405060708},
	}
	b, err := nbt.MarshalEncoding(src, nbt.BigEndian)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	root, err := DecodeJava(b)
	if err != nil {
		t.Fatalf("DecodeJava: %v", err)
	}
	if w, ok := root.Int("Width"); !ok || w != 3 {
		t.Fatalf("Width: got %d ok=%v", w, ok)
	}
	meta, ok := root.Compound("Meta")
	if !ok {
		t.Fatalf("Meta compound missing")
	}
	if name, ok := meta.String("Name"); !ok || name != "hut" {
		t.Fatalf("Meta.Name: got %q ok=%v", name, ok)
	}
	if blocks, ok := root.ByteArray("Blocks"); !ok || len(blocks) != 3 {
		t.Fatalf("Blocks: got %v ok=%v", blocks, ok)
	}
	if longs, ok := root.LongArray("Longs"); !ok || longs[0] != 0x0102030405060708 {
		t.Fatalf("Longs: got %v ok=%v", longs, ok)
	}
}

func TestDecodeJava_Garbage(t *testing.T) {
	if _, err := DecodeJava([]byte{0xDE, 0xAD, 0xBE, 0xEF}); err == nil {
		t.Fatalf("garbage must not decode")
	}
}

func TestNode_DefensiveLookups(t *testing.T) {
	n := Wrap(map[string]any{
		"N":    int32(7),
		"S":    "text",
		"List": []any{int32(1), int32(2)},
	})

	if _, ok := n.Compound("missing"); ok {
		t.Fatalf("missing compound must report ok=false")
	}
	if _, ok := n.Int("S"); ok {
		t.Fatalf("string child must not coerce to int")
	}
	if v, ok := n.Ints("List"); !ok || len(v) != 2 || v[1] != 2 {
		t.Fatalf("Ints: got %v ok=%v", v, ok)
	}
	if _, ok := Wrap("scalar").Map(); ok {
		t.Fatalf("scalar node is not a compound")
	}
}

func TestNode_AsText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"north", "north"},
		{byte(1), "1"},
		{int32(-4), "-4"},
		{int64(12), "12"},
	}
	for _, c := range cases {
		got, ok := Wrap(c.in).AsText()
		if !ok || got != c.want {
			t.Fatalf("AsText(%v): got %q ok=%v want %q", c.in, got, ok, c.want)
		}
	}
}
