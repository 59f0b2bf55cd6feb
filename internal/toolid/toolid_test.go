package toolid

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		mcrVal int64
		decVal int
		want   int64
	}{
		{"no decimals", 2000, 0, 2000},
		{"one decimal exact", 20000, 1, 2000},
		{"two decimals exact", 210000, 2, 2100},
		{"rounds up half away from zero", 20005, 1, 2001},
		{"rounds down", 20004, 1, 2000},
		{"negative decVal treated as zero scale", 2100, -1, 2100},
		{"clamps oversized decVal", 1, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.mcrVal, tt.decVal)
			if got != tt.want {
				t.Fatalf("Decode(%d, %d) = %d, want %d", tt.mcrVal, tt.decVal, got, tt.want)
			}
		})
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(int64(2000), 0)
	f.Add(int64(20005), 1)
	f.Add(int64(-500), 2)
	f.Fuzz(func(t *testing.T, mcrVal int64, decVal int) {
		// Decode must never panic regardless of input, and must be a
		// pure function of its inputs.
		got1 := Decode(mcrVal, decVal)
		got2 := Decode(mcrVal, decVal)
		if got1 != got2 {
			t.Fatalf("Decode not deterministic: %d != %d", got1, got2)
		}
	})
}
