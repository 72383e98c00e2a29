package waveform

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// constantChannels builds a channels-by-time matrix where channel i holds the
// constant value amps[i], so per-channel amplitudes are easy to reason about.
func constantChannels(amps []float64, samples int) *mat.Dense {
	out := mat.NewDense(len(amps), samples, nil)
	for i, a := range amps {
		for j := 0; j < samples; j++ {
			out.Set(i, j, a)
		}
	}

	return out
}

func TestPrepareShape(t *testing.T) {
	cfg := Config{CentralRange: 60, NChannels: 10}

	for _, v := range []struct {
		channels int
		samples  int
	}{
		{10, 60},
		{12, 200},
		{30, 82},
		{24, 120},
	} {
		amps := make([]float64, v.channels)
		for i := range amps {
			amps[i] = float64(i + 1)
		}

		got := Prepare(constantChannels(amps, v.samples), cfg)
		if r, c := got.Dims(); r != 10 || c != 60 {
			t.Fatalf("Prepare(%dx%d): got %dx%d, want 10x60", v.channels, v.samples, r, c)
		}
	}
}

func TestPrepareTransposesTallInput(t *testing.T) {
	amps := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	wide := constantChannels(amps, 200)
	tall := mat.DenseCopyOf(wide.T())

	cfg := Config{CentralRange: 60, NChannels: 10}
	a, b := Prepare(wide, cfg), Prepare(tall, cfg)

	if !mat.Equal(a, b) {
		t.Fatalf("time-major input prepared differently from channel-major input")
	}
}

func TestPrepareTilesSingleChannel(t *testing.T) {
	w := mat.NewDense(1, 200, nil)
	for j := 0; j < 200; j++ {
		w.Set(0, j, math.Sin(float64(j)/10))
	}

	got := Prepare(w, Config{CentralRange: 60, NChannels: 10})
	if r, c := got.Dims(); r != 10 || c != 60 {
		t.Fatalf("got %dx%d, want 10x60", r, c)
	}

	for i := 1; i < 10; i++ {
		for j := 0; j < 60; j++ {
			if got.At(i, j) != got.At(0, j) {
				t.Fatalf("channel %d differs from channel 0 at sample %d", i, j)
			}
		}
	}
}

func TestPrepareLeftPadsMissingChannels(t *testing.T) {
	got := Prepare(constantChannels([]float64{1, 2, 3, 4}, 200), Config{CentralRange: 60, NChannels: 10})
	if r, c := got.Dims(); r != 10 || c != 60 {
		t.Fatalf("got %dx%d, want 10x60", r, c)
	}

	// Six pad copies of the first channel, then the original four.
	want := []float64{1, 1, 1, 1, 1, 1, 1, 2, 3, 4}
	for i, v := range want {
		if got.At(i, 0) != v {
			t.Fatalf("channel %d: got %v, want %v", i, got.At(i, 0), v)
		}
	}
}

func TestNormaliseTroughDominant(t *testing.T) {
	w := mat.NewDense(2, 60, nil)
	w.Set(0, 30, -4)
	w.Set(0, 35, 2)
	w.Set(1, 30, -1)

	got := Normalise(w)

	maxAbs := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 60; j++ {
			if v := math.Abs(got.At(i, j)); v > maxAbs {
				maxAbs = v
			}
		}
	}
	if maxAbs > 1 {
		t.Fatalf("max abs after normalisation is %v, want <= 1", maxAbs)
	}
	if got.At(0, 30) != -1 {
		t.Fatalf("trough normalised to %v, want -1", got.At(0, 30))
	}
}

func TestNormaliseDendritic(t *testing.T) {
	w := mat.NewDense(1, 60, nil)
	w.Set(0, 30, 6)
	w.Set(0, 35, -3)

	got := Normalise(w)
	if got.At(0, 30) != 1 {
		t.Fatalf("dendritic peak normalised to %v, want +1", got.At(0, 30))
	}
}

func TestNormaliseSubtractsBaseline(t *testing.T) {
	w := mat.NewDense(1, 60, nil)
	for j := 0; j < 60; j++ {
		w.Set(0, j, 2)
	}
	w.Set(0, 30, -6)

	got := Normalise(w)

	// Baseline (first 20 samples) is 2, dominant extremum is |-6| = 6.
	if want := (2.0 - 2.0) / 6.0; got.At(0, 0) != want {
		t.Fatalf("baseline sample: got %v, want %v", got.At(0, 0), want)
	}
	if want := (-6.0 - 2.0) / 6.0; got.At(0, 30) != want {
		t.Fatalf("trough sample: got %v, want %v", got.At(0, 30), want)
	}
}

func TestCropCentresOnPeakChannel(t *testing.T) {
	amps := make([]float64, 20)
	for i := range amps {
		amps[i] = float64(i)
	}
	amps[10] = 100

	got := Crop(constantChannels(amps, 100), 60, 10)
	if r, c := got.Dims(); r != 10 || c != 60 {
		t.Fatalf("got %dx%d, want 10x60", r, c)
	}

	// Channels 5..14 surround the peak at channel 10.
	if got.At(0, 0) != 5 {
		t.Fatalf("first selected channel is %v, want 5", got.At(0, 0))
	}
}

func TestCropSlidesInwardAtEdges(t *testing.T) {
	for _, v := range []struct {
		peak      int
		wantFirst float64
	}{
		{1, 0},   // near the low edge: take channels 0..9
		{18, 10}, // near the high edge: take channels 10..19
	} {
		amps := make([]float64, 20)
		for i := range amps {
			amps[i] = float64(i)
		}
		amps[v.peak] = 100

		got := Crop(constantChannels(amps, 100), 60, 10)
		if r, c := got.Dims(); r != 10 || c != 60 {
			t.Fatalf("peak %d: got %dx%d, want 10x60", v.peak, r, c)
		}

		first := got.At(0, 0)
		if v.peak < 10 && first != v.wantFirst {
			t.Fatalf("peak %d: window starts at channel value %v, want %v", v.peak, first, v.wantFirst)
		}
		if v.peak >= 10 && got.At(9, 0) != 19 {
			t.Fatalf("peak %d: window should end at the last channel", v.peak)
		}
	}
}

func TestCropShortTimeAxisComesOutNarrow(t *testing.T) {
	got := Crop(constantChannels([]float64{1, 2, 3}, 30), 60, 10)
	if _, c := got.Dims(); c != 30 {
		t.Fatalf("got %d columns, want the clamped 30", c)
	}
}

func TestPrepareFortranReshape(t *testing.T) {
	// Row-major data reinterpreted under reversed dims, then oriented and
	// cropped: 2x3 [1 2 3; 4 5 6] reshapes to 3x2 [1 2; 3 4; 5 6], which is
	// taller than wide and transposes to [1 3 5; 2 4 6].
	w := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	got := Prepare(w, Config{CentralRange: 2, NChannels: 2, ReshapeFortranToC: true})

	want := mat.NewDense(2, 2, []float64{1, 3, 2, 4})
	if !mat.Equal(got, want) {
		t.Fatalf("got %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestFlattenLength(t *testing.T) {
	amps := make([]float64, 12)
	for i := range amps {
		amps[i] = float64(i)
	}

	flat := Flatten(Prepare(constantChannels(amps, 200), Config{CentralRange: 60, NChannels: 10}))
	if len(flat) != 600 {
		t.Fatalf("flattened length %d, want 600", len(flat))
	}
}
