package wide

import "testing"

func TestSplatU8x16(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
	}{
		{"zero", 0},
		{"one", 1},
		{"max", 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplatU8x16(tt.value)
			for i, v := range result {
				if v != tt.value {
					t.Errorf("lane %d = %d, want %d", i, v, tt.value)
				}
			}
		})
	}
}

func TestU8x16_LoadStore(t *testing.T) {
	src := make([]byte, 20)
	for i := range src {
		src[i] = uint8(i)
	}

	v := LoadU8x16(src[2:])
	for i, got := range v {
		if got != uint8(i+2) {
			t.Errorf("lane %d = %d, want %d", i, got, i+2)
		}
	}

	dst := make([]byte, 21)
	v.Store(dst[4:])
	if dst[3] != 0 || dst[20] != 0 {
		t.Errorf("Store wrote outside its 16 bytes: %v", dst)
	}
	for i := 0; i < 16; i++ {
		if dst[4+i] != uint8(i+2) {
			t.Errorf("dst[%d] = %d, want %d", 4+i, dst[4+i], i+2)
		}
	}
}

func TestU8x16_CmpEq(t *testing.T) {
	var a, b U8x16
	for i := range a {
		a[i] = uint8(i % 2)
	}
	got := a.CmpEq(b)
	for i, v := range got {
		want := uint8(0)
		if i%2 == 0 {
			want = 0xFF
		}
		if v != want {
			t.Errorf("lane %d = %#x, want %#x", i, v, want)
		}
	}
}

func TestU8x16_Bitwise(t *testing.T) {
	a := SplatU8x16(0b1100)
	b := SplatU8x16(0b1010)

	tests := []struct {
		name string
		got  U8x16
		want U8x16
	}{
		{"And", a.And(b), SplatU8x16(0b1000)},
		{"AndNot", a.AndNot(b), SplatU8x16(0b0100)},
		{"Or", a.Or(b), SplatU8x16(0b1110)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestU8x16_Any(t *testing.T) {
	var v U8x16
	if v.Any() {
		t.Error("Any() = true for zero vector")
	}
	v[15] = 1
	if !v.Any() {
		t.Error("Any() = false with last lane set")
	}
}
