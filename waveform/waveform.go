// Package waveform turns raw mean extracellular waveforms of uncertain shape
// and orientation into fixed-size channel-by-time crops. Archives disagree on
// axis order and channel count, so the preparation pipeline repairs the shape
// first (reshape, orient, tile, pad), then optionally normalises amplitudes,
// and finally crops a window centred on the loudest channel.
package waveform

import "gonum.org/v1/gonum/mat"

const (
	// DefaultCentralRange is the time-axis crop width in samples.
	DefaultCentralRange = 60

	// DefaultNChannels is the channel-axis crop width.
	DefaultNChannels = 10

	// baselineSamples is how many leading time samples define the per-channel
	// baseline during normalisation.
	baselineSamples = 20
)

// Config controls waveform preparation.
type Config struct {
	CentralRange int
	NChannels    int

	// ReshapeFortranToC reinterprets the flat data with reversed dimensions,
	// for archives written column-major.
	ReshapeFortranToC bool

	// Normalise applies baseline subtraction and extremum scaling.
	Normalise bool
}

// Prepare runs the full shape-repair, normalisation and cropping sequence.
// The result has cfg.NChannels rows and cfg.CentralRange columns whenever the
// input carries at least that many channels and time samples; callers must
// validate the output size and discard the record otherwise.
func Prepare(w *mat.Dense, cfg Config) *mat.Dense {
	if cfg.ReshapeFortranToC {
		w = reshapeReversed(w)
	}

	// Orient so rows are channels. Recordings always have more time samples
	// than channels.
	if r, c := w.Dims(); r > c {
		w = mat.DenseCopyOf(w.T())
	}

	w = spread(w, cfg.NChannels)

	if cfg.Normalise {
		w = Normalise(w)
	}

	return Crop(w, cfg.CentralRange, cfg.NChannels)
}

// reshapeReversed reinterprets the row-major flat data under swapped
// dimensions. This is a reshape, not a transpose: element order is preserved.
func reshapeReversed(w *mat.Dense) *mat.Dense {
	r, c := w.Dims()
	return mat.NewDense(c, r, flatten(w))
}

// spread guarantees at least nChannels rows: a single-channel waveform is
// replicated across all nChannels, and a short stack is left-padded by
// repeating its first channel.
func spread(w *mat.Dense, nChannels int) *mat.Dense {
	r, c := w.Dims()

	if r == 1 {
		out := mat.NewDense(nChannels, c, nil)
		for i := 0; i < nChannels; i++ {
			out.SetRow(i, w.RawRowView(0))
		}
		return out
	}

	if r >= nChannels {
		return w
	}

	out := mat.NewDense(nChannels, c, nil)
	pad := nChannels - r
	for i := 0; i < pad; i++ {
		out.SetRow(i, w.RawRowView(0))
	}
	for i := 0; i < r; i++ {
		out.SetRow(pad+i, w.RawRowView(i))
	}

	return out
}

// Normalise subtracts the per-channel baseline (mean of the first 20 time
// samples) and divides by the dominant extremum of the raw array, so the
// trough lands on -1, or the peak on +1 for dendritic waveforms whose
// positive deflection dominates. A flat waveform is left unscaled.
func Normalise(w *mat.Dense) *mat.Dense {
	r, c := w.Dims()

	div := mat.Max(w)
	if trough := mat.Min(w); -trough > div {
		div = -trough
	}
	if div == 0 {
		div = 1
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		row := w.RawRowView(i)

		n := baselineSamples
		if c < n {
			n = c
		}
		baseline := 0.0
		for _, v := range row[:n] {
			baseline += v
		}
		baseline /= float64(n)

		for j, v := range row {
			out.Set(i, j, (v-baseline)/div)
		}
	}

	return out
}

// Crop selects a centralRange-wide time window centred on the array midpoint
// and the nChannels channels surrounding the highest-amplitude channel. When
// the peak channel sits within nChannels/2 of either edge the channel window
// slides inward so the full width is still taken; when fewer than nChannels
// channels exist, all of them are kept and only time is cropped. The time
// window is clamped to the array, so inputs shorter than centralRange come
// out narrow — the caller validates the final size.
func Crop(w *mat.Dense, centralRange, nChannels int) *mat.Dense {
	r, c := w.Dims()

	centre := c / 2
	lo, hi := centre-centralRange/2, centre+centralRange/2
	if lo < 0 {
		lo = 0
	}
	if hi > c {
		hi = c
	}

	top, bottom := 0, r
	if r > nChannels {
		peak := 0
		peakAmp := -1.0
		for i := 0; i < r; i++ {
			amp := 0.0
			for _, v := range w.RawRowView(i) {
				if v < 0 {
					v = -v
				}
				if v > amp {
					amp = v
				}
			}
			if amp > peakAmp {
				peak, peakAmp = i, amp
			}
		}

		top = peak - nChannels/2
		if top < 0 {
			top = 0
		}
		if top > r-nChannels {
			top = r - nChannels
		}
		bottom = top + nChannels
	}

	out := mat.NewDense(bottom-top, hi-lo, nil)
	for i := top; i < bottom; i++ {
		out.SetRow(i-top, w.RawRowView(i)[lo:hi])
	}

	return out
}

// Flatten returns the row-major flat copy of a prepared waveform.
func Flatten(w *mat.Dense) []float64 {
	return flatten(w)
}

func flatten(w *mat.Dense) []float64 {
	r, c := w.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, w.RawRowView(i)...)
	}

	return out
}
