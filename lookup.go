package cellset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NotFoundError reports a provenance lookup with no matching row. This is a
// caller-input error, not a data-quality condition.
type NotFoundError struct {
	Source string
	Unit   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cellset: no row for %s/%s", e.Source, e.Unit)
}

// Row resolves a (source dataset, unit) pair to its row index via the
// provenance string.
func (d *Dataset) Row(source, unit string) (int, error) {
	key := source + "/" + unit
	for i, info := range d.Info {
		if info == key {
			return i, nil
		}
	}

	return 0, &NotFoundError{Source: source, Unit: unit}
}

// WaveformByInfo returns one row's waveform reshaped back to its
// channels-by-time crop.
func (d *Dataset) WaveformByInfo(source, unit string) (*mat.Dense, error) {
	at, err := d.Row(source, unit)
	if err != nil {
		return nil, err
	}

	row := d.WF.RawRowView(at)
	data := make([]float64, len(row))
	copy(data, row)

	return mat.NewDense(d.nChannels, d.centralRange, data), nil
}

// TrainByInfo returns one row's post-quality-check spike train.
func (d *Dataset) TrainByInfo(source, unit string) ([]int64, error) {
	at, err := d.Row(source, unit)
	if err != nil {
		return nil, err
	}

	return d.Spikes[at], nil
}

// ACGByInfo returns one row's post-processed autocorrelogram.
func (d *Dataset) ACGByInfo(source, unit string) ([]float64, error) {
	at, err := d.Row(source, unit)
	if err != nil {
		return nil, err
	}

	row := d.ACG.RawRowView(at)
	out := make([]float64, len(row))
	copy(out, row)

	return out, nil
}
