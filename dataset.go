// Package cellset converts heterogeneous per-neuron recording archives into
// homogeneous, fixed-shape datasets ready for model consumption: aligned
// waveform crops, resampled autocorrelograms, integer class targets, and a
// provenance trail of every discarded record.
package cellset

import (
	"fmt"
	"log"
	"sort"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"

	"github.com/neurodatalab/cellset/acg"
	"github.com/neurodatalab/cellset/archive"
)

// DefaultLabelAttr is the archive attribute holding the class label.
const DefaultLabelAttr = "optotagged_label"

// Dataset is the aggregate result of one pipeline run. Every per-row field
// (WF, ACG, Targets, Info, Spikes, Labels, and Amplitudes when present) is
// index-aligned: row i everywhere describes the same accepted record.
// Transforms that remove rows apply one mask to all of them atomically.
type Dataset struct {
	// WF holds one flattened waveform crop per row,
	// nChannels*centralRange columns. Nil when the dataset is empty.
	WF *mat.Dense

	// ACG holds one post-processed autocorrelogram per row.
	ACG *mat.Dense

	// Targets holds one integer class code per row; -1 means unlabelled.
	Targets []int

	// Info holds the "<dataset>/<unit>" provenance string per row, the stable
	// identity key used by the lookup views.
	Info []string

	// Spikes holds the post-quality-check spike train per row.
	Spikes [][]int64

	// Labels holds the canonical class-name string per row.
	Labels []string

	// Amplitudes is populated only when Options.UseAmplitudes was set.
	Amplitudes [][]float64

	// Discarded is the table of rejected records with reason codes.
	Discarded []Discard

	// Full is the optional column-wise concatenation of WF and ACG, built by
	// BuildFull. Derived: merge and rebuild invalidate it.
	Full *mat.Dense

	// ScaleWF and ScaleACG remember the divisors applied by Scale, for
	// inverse use downstream.
	ScaleWF  float64
	ScaleACG float64

	nChannels    int
	centralRange int
	labelling    Labelling
}

// Options configures dataset construction. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// QualityCheck intersects the sanity and false-positive/false-negative
	// spike masks before accepting a train.
	QualityCheck bool

	// NormaliseWaveforms applies baseline subtraction and extremum scaling to
	// each waveform before cropping.
	NormaliseWaveforms bool

	// NormaliseACGs clip-normalises each ACG as it is computed.
	NormaliseACGs bool

	// ResampleACGs enhances early ACG lags with synthetic points, keeping the
	// length fixed. Applied uniformly across all rows before stacking.
	ResampleACGs bool

	// CutACG keeps only the causal (non-negative-lag) half of each ACG.
	CutACG bool

	CentralRange int
	NChannels    int

	// ReshapeFortranToC swaps waveform axis order before orientation repair,
	// for archives written column-major.
	ReshapeFortranToC bool

	// LabelAttr is the archive attribute holding the class label.
	LabelAttr string

	Labelling Labelling

	// UseAmplitudes additionally extracts the per-record amplitude sequence.
	UseAmplitudes bool

	// Quiet suppresses the one-line construction summary.
	Quiet bool
}

// DefaultOptions mirrors the archive's established extraction convention:
// quality checks on, causal-half plus resampling on, normalisation off.
func DefaultOptions() Options {
	return Options{
		QualityCheck: true,
		ResampleACGs: true,
		CutACG:       true,
		CentralRange: 60,
		NChannels:    10,
		LabelAttr:    DefaultLabelAttr,
		Labelling:    DefaultLabelling(),
	}
}

func (o *Options) fillDefaults() {
	if o.CentralRange == 0 {
		o.CentralRange = 60
	}
	if o.NChannels == 0 {
		o.NChannels = 10
	}
	if o.LabelAttr == "" {
		o.LabelAttr = DefaultLabelAttr
	}
	if o.Labelling.empty() {
		o.Labelling = DefaultLabelling()
	}
}

// BuildFromFile opens an HDF5 archive, builds the dataset, and releases the
// archive handle before returning.
func BuildFromFile(path string, computeACG acg.Func, opt Options) (*Dataset, error) {
	arch, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer arch.Close()

	return Build(arch, computeACG, opt)
}

// Build drives the record pipeline once per record id in ascending order,
// then stacks the accepted rows into rectangular arrays. Per-record failures
// become discard-table rows; an unreadable archive, an archive with no
// records, or a run in which every record is discarded abort with an error.
func Build(arch archive.Reader, computeACG acg.Func, opt Options) (*Dataset, error) {
	opt.fillDefaults()

	ids, err := arch.RecordIDs()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(ids) == 0 {
		return nil, pfx.Err(fmt.Errorf("cellset: archive contains no neuron records"))
	}
	sort.Ints(ids)

	ds := &Dataset{
		nChannels:    opt.NChannels,
		centralRange: opt.CentralRange,
		labelling:    opt.Labelling,
	}
	if opt.UseAmplitudes {
		ds.Amplitudes = [][]float64{}
	}

	var wfRows [][]float64
	var acgRows [][]float64

	for _, id := range ids {
		st, disc, err := buildRecord(arch, id, computeACG, opt)
		if err != nil {
			return nil, err
		}
		if disc != nil {
			ds.Discarded = append(ds.Discarded, *disc)
			continue
		}

		// Every gate passed: commit the staged record to all parallel
		// sequences at once.
		wfRows = append(wfRows, st.wf)
		acgRows = append(acgRows, st.acg)
		ds.Labels = append(ds.Labels, st.label)
		ds.Targets = append(ds.Targets, opt.Labelling.Code(st.label))
		ds.Spikes = append(ds.Spikes, st.spikes)
		ds.Info = append(ds.Info, st.info)
		if opt.UseAmplitudes {
			ds.Amplitudes = append(ds.Amplitudes, st.amplitudes)
		}
	}

	if len(wfRows) == 0 {
		return nil, pfx.Err(fmt.Errorf("cellset: no records accepted (%d discarded)", len(ds.Discarded)))
	}

	// ACG halving and resampling happen once, uniformly, so that every row
	// keeps the same length before stacking.
	for i, a := range acgRows {
		if opt.CutACG {
			a = acg.CausalHalf(a)
		}
		if opt.ResampleACGs {
			a = acg.Resample(a, acg.DefaultResampleWindow, true)
		}
		acgRows[i] = a
	}

	if ds.WF, err = stackRowSlices(wfRows); err != nil {
		return nil, err
	}
	if ds.ACG, err = stackRowSlices(acgRows); err != nil {
		return nil, err
	}

	if !opt.Quiet {
		log.Println(ds.Summary())
	}

	return ds, nil
}

// Summary reports the construction counts.
type Summary struct {
	Accepted          int
	AcceptedLabelled  int
	Discarded         int
	DiscardedLabelled int
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%d neurons loaded, of which labelled: %d; %d neurons discarded, of which labelled: %d (see the discard table for details)",
		s.Accepted, s.AcceptedLabelled, s.Discarded, s.DiscardedLabelled,
	)
}

// Summary computes the accepted/discarded counts for the current rows.
func (d *Dataset) Summary() Summary {
	out := Summary{Accepted: d.Len(), Discarded: len(d.Discarded)}
	for _, t := range d.Targets {
		if t != -1 {
			out.AcceptedLabelled++
		}
	}
	for _, disc := range d.Discarded {
		if disc.Label != Unlabelled && disc.Label != "" {
			out.DiscardedLabelled++
		}
	}

	return out
}

// Len is the number of accepted rows.
func (d *Dataset) Len() int {
	return len(d.Targets)
}

// Labelling returns the current class-name/code enumeration.
func (d *Dataset) Labelling() Labelling {
	return d.labelling
}

// stackRowSlices stacks equal-length rows into a rectangular matrix.
func stackRowSlices(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := len(rows[0])
	out := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return nil, pfx.Err(fmt.Errorf("cellset: row %d has %d columns, want %d", i, len(row), cols))
		}
		out.SetRow(i, row)
	}

	return out, nil
}
