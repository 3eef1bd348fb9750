package utils

import "testing"

func TestClampFloat64(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := ClampFloat64(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("ClampFloat64(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestMeanAndSum(t *testing.T) {
	if Mean(nil) != 0 {
		t.Error("Mean of empty slice should be 0")
	}
	values := []float64{1, 2, 3, 4}
	if got := Sum(values); got != 10 {
		t.Errorf("Sum = %v, want 10", got)
	}
	if got := Mean(values); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
}

func TestMaxFloat64Slice(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantVal float64
		wantIdx int
	}{
		{"empty", nil, 0, -1},
		{"single", []float64{0.4}, 0.4, 0},
		{"first max wins", []float64{0.2, 0.6, 0.6, 0.1}, 0.6, 1},
		{"last", []float64{0.1, 0.2, 0.3}, 0.3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, i := MaxFloat64Slice(tt.values)
			if v != tt.wantVal || i != tt.wantIdx {
				t.Errorf("MaxFloat64Slice = (%v, %d), want (%v, %d)", v, i, tt.wantVal, tt.wantIdx)
			}
		})
	}
}

func TestRound(t *testing.T) {
	if got := Round(12.3456, 2); got != 12.35 {
		t.Errorf("Round = %v, want 12.35", got)
	}
	if got := Round(0.5, 0); got != 1 {
		t.Errorf("Round = %v, want 1", got)
	}
}
