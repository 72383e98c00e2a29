package cellset

import (
	"fmt"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// Merge combines datasets by row-wise concatenation of every per-row sequence
// and of the discard tables, in argument order. The first argument is the
// accumulation base: it is deep-copied, left untouched, and its metadata
// (labelling, crop geometry, scale factors) becomes canonical. Column counts
// must agree across inputs. Full is derived state and is not merged; rebuild
// it on the result.
func Merge(ds ...*Dataset) (*Dataset, error) {
	if len(ds) == 0 {
		return nil, pfx.Err(fmt.Errorf("cellset: nothing to merge"))
	}

	out := ds[0].clone()
	out.Full = nil

	for _, d := range ds[1:] {
		if err := out.absorb(d); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (d *Dataset) clone() *Dataset {
	out := &Dataset{
		WF:           copyMatrix(d.WF),
		ACG:          copyMatrix(d.ACG),
		Full:         copyMatrix(d.Full),
		Targets:      append([]int(nil), d.Targets...),
		Info:         append([]string(nil), d.Info...),
		Labels:       append([]string(nil), d.Labels...),
		Discarded:    append([]Discard(nil), d.Discarded...),
		ScaleWF:      d.ScaleWF,
		ScaleACG:     d.ScaleACG,
		nChannels:    d.nChannels,
		centralRange: d.centralRange,
		labelling:    d.labelling,
	}

	out.Spikes = make([][]int64, len(d.Spikes))
	for i, s := range d.Spikes {
		out.Spikes[i] = append([]int64(nil), s...)
	}

	if d.Amplitudes != nil {
		out.Amplitudes = make([][]float64, len(d.Amplitudes))
		for i, a := range d.Amplitudes {
			out.Amplitudes[i] = append([]float64(nil), a...)
		}
	}

	return out
}

func (d *Dataset) absorb(other *Dataset) error {
	var err error
	if d.WF, err = stackMatrices(d.WF, other.WF); err != nil {
		return err
	}
	if d.ACG, err = stackMatrices(d.ACG, other.ACG); err != nil {
		return err
	}

	d.Targets = append(d.Targets, other.Targets...)
	d.Info = append(d.Info, other.Info...)
	d.Labels = append(d.Labels, other.Labels...)
	d.Discarded = append(d.Discarded, other.Discarded...)

	for _, s := range other.Spikes {
		d.Spikes = append(d.Spikes, append([]int64(nil), s...))
	}

	if d.Amplitudes != nil {
		if other.Amplitudes == nil {
			return pfx.Err(fmt.Errorf("cellset: cannot merge a dataset without amplitudes into one with them"))
		}
		for _, a := range other.Amplitudes {
			d.Amplitudes = append(d.Amplitudes, append([]float64(nil), a...))
		}
	}

	return nil
}

// stackMatrices concatenates b's rows under a's. Nil stands for zero rows.
func stackMatrices(a, b *mat.Dense) (*mat.Dense, error) {
	if a == nil {
		return copyMatrix(b), nil
	}
	if b == nil {
		return a, nil
	}

	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ca != cb {
		return nil, pfx.Err(fmt.Errorf("cellset: cannot stack %d-column rows under %d-column rows", cb, ca))
	}

	out := mat.NewDense(ra+rb, ca, nil)
	for i := 0; i < ra; i++ {
		out.SetRow(i, a.RawRowView(i))
	}
	for i := 0; i < rb; i++ {
		out.SetRow(ra+i, b.RawRowView(i))
	}

	return out, nil
}
