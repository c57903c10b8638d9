package indicator

import (
	"math"
	"testing"
)

func TestRollingMean(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got := RollingMean(prices, 3)

	if len(got) != len(prices) {
		t.Fatalf("length = %d, want %d", len(got), len(prices))
	}

	// First window-1 entries are undefined
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("got[%d] = %v, want NaN", i, got[i])
		}
	}

	want := []float64{2, 3, 4} // means of [1,2,3], [2,3,4], [3,4,5]
	for i, w := range want {
		if got[i+2] != w {
			t.Errorf("got[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestRollingMean_WindowOne(t *testing.T) {
	prices := []float64{10, 20, 30}
	got := RollingMean(prices, 1)

	for i, p := range prices {
		if got[i] != p {
			t.Errorf("got[%d] = %v, want %v", i, got[i], p)
		}
	}
}

func TestRollingMean_InsufficientData(t *testing.T) {
	got := RollingMean([]float64{1, 2}, 5)
	if len(got) != 2 {
		t.Fatalf("length = %d, want 2", len(got))
	}
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("got[%d] = %v, want NaN", i, v)
		}
	}
}

func TestRollingMean_InvalidWindow(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3}, 0)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("got[%d] = %v, want NaN for non-positive window", i, v)
		}
	}
}

func TestRollingMean_Empty(t *testing.T) {
	got := RollingMean(nil, 3)
	if len(got) != 0 {
		t.Errorf("length = %d, want 0", len(got))
	}
}
