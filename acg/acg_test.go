package acg

import (
	"math"
	"testing"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}

	return out
}

func TestClipNormalise(t *testing.T) {
	got := ClipNormalise([]float64{2, 4, 8})
	want := []float64{0.25, 0.5, 1}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestClipNormaliseClipsNegatives(t *testing.T) {
	got := ClipNormalise([]float64{-2, 4})
	if got[0] != 0 {
		t.Fatalf("negative value clipped to %v, want 0", got[0])
	}
	if got[1] != 1 {
		t.Fatalf("maximum normalised to %v, want 1", got[1])
	}
}

func TestClipNormaliseAllZero(t *testing.T) {
	got := ClipNormalise([]float64{0, 0, 0})
	for _, v := range got {
		if v != 0 {
			t.Fatalf("all-zero input produced %v", got)
		}
	}
}

func TestCausalHalf(t *testing.T) {
	for _, v := range []struct {
		n         int
		wantLen   int
		wantFirst float64
	}{
		{100, 50, 50},
		{101, 51, 50},
	} {
		got := CausalHalf(ramp(v.n))
		if len(got) != v.wantLen {
			t.Fatalf("n=%d: got length %d, want %d", v.n, len(got), v.wantLen)
		}
		if got[0] != v.wantFirst {
			t.Fatalf("n=%d: first element %v, want %v", v.n, got[0], v.wantFirst)
		}
	}
}

// Resample with keepSameSize must preserve length for any input that can
// fill the enhanced head.
func TestResampleKeepsLength(t *testing.T) {
	for _, n := range []int{20, 25, 41, 50, 100, 200} {
		got := Resample(ramp(n), 20, true)
		if len(got) != n {
			t.Fatalf("n=%d: resampled length %d, want %d", n, len(got), n)
		}
	}
}

// A causal half-ACG at the standard binning is 25 samples wide, barely longer
// than the default window. Resampling must still interpolate it rather than
// hand it back verbatim.
func TestResampleEnhancesCausalHalfWidth(t *testing.T) {
	a := make([]float64, 25)
	for i := range a {
		a[i] = float64(2 * i)
	}

	got := Resample(a, DefaultResampleWindow, true)

	if len(got) != 25 {
		t.Fatalf("resampled length %d, want 25", len(got))
	}
	// The head interleaves originals with pairwise averages, so odd values
	// appear between the even inputs.
	want := []float64{0, 1, 2, 3, 4, 5}
	for i, v := range want {
		if math.Abs(got[i]-v) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], v)
		}
	}
}

func TestResampleGrowsWithoutTrim(t *testing.T) {
	got := Resample(ramp(100), 20, false)
	if want := 100 + 20 - 1; len(got) != want {
		t.Fatalf("untrimmed length %d, want %d", len(got), want)
	}
}

func TestResampleInterpolatesHead(t *testing.T) {
	a := []float64{0, 2, 4, 6, 8, 10, 12}

	got := Resample(a, 3, false)

	// First 3 samples interleaved with pairwise averages (the circular
	// boundary average is dropped), then the untouched remainder.
	want := []float64{0, 1, 2, 3, 4, 6, 8, 10, 12}
	if len(got) != len(want) {
		t.Fatalf("got length %d, want %d", len(got), len(want))
	}
	for i, v := range want {
		if math.Abs(got[i]-v) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], v)
		}
	}
}

func TestResampleShortInputUntouched(t *testing.T) {
	a := ramp(10)
	got := Resample(a, 20, true)
	if len(got) != 10 {
		t.Fatalf("short input length changed to %d", len(got))
	}
	for i, v := range a {
		if got[i] != v {
			t.Fatalf("short input modified at %d", i)
		}
	}
}
