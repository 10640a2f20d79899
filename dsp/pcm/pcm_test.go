package pcm

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.25, 0.25},
		{1.5, 1},
		{-12, -1},
		{math.Inf(1), 1},
		{math.Inf(-1), -1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Fatalf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{3, 32767},
		{-3, -32767},
		{0.5, 16383},
	}
	for _, tt := range tests {
		if got := Int16(tt.in); got != tt.want {
			t.Fatalf("Int16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToInt16AppliesGain(t *testing.T) {
	dst := make([]int16, 2)
	n := ToInt16(dst, []float64{0.5, -0.5, 0.1}, 2)
	if n != 2 || dst[0] != 32767 || dst[1] != -32767 {
		t.Fatalf("n=%d dst=%v", n, dst)
	}
}

func TestToFloat32(t *testing.T) {
	dst := make([]float32, 3)
	n := ToFloat32(dst, []float64{0.25, 2, math.NaN(), 9}, 1)
	if n != 3 || dst[0] != 0.25 || dst[1] != 1 || dst[2] != 0 {
		t.Fatalf("n=%d dst=%v", n, dst)
	}
}

func TestPutInt16LE(t *testing.T) {
	dst := make([]byte, 5)
	n := PutInt16LE(dst, []float64{1, -1, 0.5}, 1)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if got := int16(binary.LittleEndian.Uint16(dst)); got != 32767 {
		t.Fatalf("sample 0 = %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(dst[2:])); got != -32767 {
		t.Fatalf("sample 1 = %d", got)
	}
}

func TestPutFloat32LEClamps(t *testing.T) {
	src := []float64{0.25, 4, -4, math.NaN()}
	dst := make([]byte, 4*len(src))
	if n := PutFloat32LE(dst, src, 1); n != len(src) {
		t.Fatalf("n = %d", n)
	}

	want := []float32{0.25, 1, -1, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(dst[4*i:]))
		if got != w {
			t.Fatalf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"f32": FormatFloat32LE, "S16": FormatInt16LE, "float32": FormatFloat32LE} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("u8"); err == nil {
		t.Fatal("expected error for u8")
	}
}

func TestFormatEncode(t *testing.T) {
	if FormatInt16LE.BytesPerSample() != 2 || FormatFloat32LE.BytesPerSample() != 4 {
		t.Fatal("unexpected sample sizes")
	}
	if FormatInt16LE.String() != "s16" || FormatFloat32LE.String() != "f32" {
		t.Fatal("unexpected names")
	}

	dst := make([]byte, 8)
	if n := FormatInt16LE.Encode(dst, []float64{0, 0, 0, 0}, 1); n != 4 {
		t.Fatalf("s16 Encode n = %d, want 4", n)
	}
	if n := FormatFloat32LE.Encode(dst, []float64{0, 0, 0, 0}, 1); n != 2 {
		t.Fatalf("f32 Encode n = %d, want 2", n)
	}
}

func BenchmarkPutFloat32LE(b *testing.B) {
	src := make([]float64, 1024)
	dst := make([]byte, 4*len(src))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		PutFloat32LE(dst, src, 0.5)
	}
}
