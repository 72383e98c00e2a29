package cellset

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// robustSampleCount is how many extreme values the robust Scale variant
// averages over (the lowest waveform values, the highest ACG values).
const robustSampleCount = 100

// KeepLabelled removes every unlabelled row, applying the mask to all
// per-row sequences atomically.
func (d *Dataset) KeepLabelled() {
	d.applyMask(func(t int) bool { return t != -1 })
}

// KeepUnlabelled removes every labelled row. Together with KeepLabelled the
// two masks are exact complements over Targets != -1.
func (d *Dataset) KeepUnlabelled() {
	d.applyMask(func(t int) bool { return t == -1 })
}

func (d *Dataset) applyMask(keepTarget func(int) bool) {
	keep := make([]bool, len(d.Targets))
	for i, t := range d.Targets {
		keep[i] = keepTarget(t)
	}
	d.filterRows(keep)
}

// filterRows keeps the rows where keep[i] holds, in every per-row sequence
// and in Full when it has been built.
func (d *Dataset) filterRows(keep []bool) {
	targets := d.Targets[:0:0]
	info := d.Info[:0:0]
	spikes := d.Spikes[:0:0]
	labels := d.Labels[:0:0]
	var amplitudes [][]float64
	if d.Amplitudes != nil {
		amplitudes = [][]float64{}
	}

	for i, k := range keep {
		if !k {
			continue
		}
		targets = append(targets, d.Targets[i])
		info = append(info, d.Info[i])
		spikes = append(spikes, d.Spikes[i])
		labels = append(labels, d.Labels[i])
		if d.Amplitudes != nil {
			amplitudes = append(amplitudes, d.Amplitudes[i])
		}
	}

	d.Targets = targets
	d.Info = info
	d.Spikes = spikes
	d.Labels = labels
	d.Amplitudes = amplitudes

	d.WF = filterMatrixRows(d.WF, keep)
	d.ACG = filterMatrixRows(d.ACG, keep)
	d.Full = filterMatrixRows(d.Full, keep)
}

// filterMatrixRows returns a matrix holding the kept rows, or nil when no row
// survives (gonum matrices cannot be empty).
func filterMatrixRows(m *mat.Dense, keep []bool) *mat.Dense {
	if m == nil {
		return nil
	}

	_, c := m.Dims()
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	if n == 0 {
		return nil
	}

	out := mat.NewDense(n, c, nil)
	at := 0
	for i, k := range keep {
		if !k {
			continue
		}
		out.SetRow(at, m.RawRowView(i))
		at++
	}

	return out
}

// BuildFull builds the combined feature block: the column-wise concatenation
// of WF and ACG, or either one exclusively. wfOnly wins when both flags are
// set.
func (d *Dataset) BuildFull(wfOnly, acgOnly bool) {
	switch {
	case wfOnly:
		d.Full = copyMatrix(d.WF)
	case acgOnly:
		d.Full = copyMatrix(d.ACG)
	case d.WF == nil || d.ACG == nil:
		d.Full = nil
	default:
		r, cw := d.WF.Dims()
		_, ca := d.ACG.Dims()
		full := mat.NewDense(r, cw+ca, nil)
		for i := 0; i < r; i++ {
			row := make([]float64, 0, cw+ca)
			row = append(row, d.WF.RawRowView(i)...)
			row = append(row, d.ACG.RawRowView(i)...)
			full.SetRow(i, row)
		}
		d.Full = full
	}
}

// Scale divides each feature block by a per-dataset scalar and remembers the
// divisors. By default the divisor is the block's maximum absolute value;
// with robust set, it is the mean of the 100 most extreme values instead
// (lowest for waveforms, highest for ACGs), a more central estimate that one
// outlier cannot dominate. The ACG block is always scaled; the waveform block
// only when acgOnly is false.
func (d *Dataset) Scale(robust, acgOnly bool) error {
	if d.WF == nil || d.ACG == nil {
		return pfx.Err(fmt.Errorf("cellset: cannot scale an empty dataset"))
	}

	var err error
	if robust {
		if d.ScaleWF, err = extremeMean(d.WF, false); err != nil {
			return err
		}
		if d.ScaleACG, err = extremeMean(d.ACG, true); err != nil {
			return err
		}
	} else {
		d.ScaleWF = maxAbs(d.WF)
		d.ScaleACG = maxAbs(d.ACG)
	}

	if d.ScaleACG == 0 || (!acgOnly && d.ScaleWF == 0) {
		return pfx.Err(fmt.Errorf("cellset: zero scale divisor"))
	}

	if !acgOnly {
		d.WF.Scale(1/d.ScaleWF, d.WF)
	}
	d.ACG.Scale(1/d.ScaleACG, d.ACG)

	return nil
}

// DropClass removes every row of the named class, decrements every code above
// it to close the gap, re-pins unlabelled rows to -1, and returns the updated
// class enumeration.
func (d *Dataset) DropClass(name string) (Labelling, error) {
	code := d.labelling.Code(name)
	if code < 0 {
		return Labelling{}, pfx.Err(fmt.Errorf("cellset: unknown class %q", name))
	}

	d.applyMask(func(t int) bool { return t != code })

	for i, t := range d.Targets {
		switch {
		case t > code:
			d.Targets[i] = t - 1
		case t < 0:
			d.Targets[i] = -1
		}
	}

	next, err := d.labelling.Drop(name)
	if err != nil {
		return Labelling{}, err
	}
	d.labelling = next

	return next, nil
}

func copyMatrix(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	return mat.DenseCopyOf(m)
}

func maxAbs(m *mat.Dense) float64 {
	out := 0.0
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for _, v := range m.RawRowView(i) {
			if v < 0 {
				v = -v
			}
			if v > out {
				out = v
			}
		}
	}

	return out
}

// extremeMean averages the robustSampleCount smallest (or largest) values of
// the matrix, falling back to all values for small datasets.
func extremeMean(m *mat.Dense, largest bool) (float64, error) {
	r, c := m.Dims()
	flat := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		flat = append(flat, m.RawRowView(i)...)
	}
	sort.Float64s(flat)

	n := robustSampleCount
	if n > len(flat) {
		n = len(flat)
	}
	if largest {
		flat = flat[len(flat)-n:]
	} else {
		flat = flat[:n]
	}

	out, err := stats.Mean(stats.Float64Data(flat))
	if err != nil {
		return 0, pfx.Err(err)
	}

	return out, nil
}
