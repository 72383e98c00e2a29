package cellset

import (
	"fmt"
	"strconv"

	"github.com/carbocation/pfx"

	"github.com/neurodatalab/cellset/acg"
	"github.com/neurodatalab/cellset/archive"
	"github.com/neurodatalab/cellset/waveform"
)

// Archive attribute names, per the recording convention.
const (
	attrSpikes     = "spike_indices"
	attrSaneSpikes = "sane_spikes"
	attrFnFpSpikes = "fn_fp_filtered_spikes"
	attrWaveform   = "mean_waveform_preprocessed"
	attrDatasetID  = "dataset_id"
	attrNeuronID   = "neuron_id"
	attrAmplitudes = "amplitudes"
)

// stage accumulates one record's fields while it moves through the gates.
// Nothing is committed to the dataset's parallel sequences until every gate
// has passed, so a discard at any point simply abandons the stage.
type stage struct {
	label      string
	spikes     []int64
	amplitudes []float64
	wf         []float64
	acg        []float64
	info       string
}

// buildRecord runs one record through the gate sequence. It returns either a
// fully-populated stage, a discard row, or a fatal error.
func buildRecord(arch archive.Reader, id int, computeACG acg.Func, opt Options) (*stage, *Discard, error) {
	st := &stage{}

	// fail converts a gate failure into a discard-table row. A missing
	// attribute is per-record recoverable; any other cause is fatal.
	fail := func(reason string, cause error) (*stage, *Discard, error) {
		if cause != nil && !archive.IsMissing(cause) {
			return nil, nil, pfx.Err(cause)
		}
		return nil, discardRecord(arch, id, st.label, reason), nil
	}

	// Gate 1: label. Decoded once into a canonical class-name string.
	v, err := arch.Attr(id, opt.LabelAttr)
	if err != nil {
		return fail(ReasonMissingAttribute, err)
	}
	st.label = decodeLabel(v)

	// Gate 2: spike train, optionally intersected with the quality masks.
	v, err = arch.Attr(id, attrSpikes)
	if err != nil {
		return fail(ReasonMissingAttribute, err)
	}
	st.spikes = v.Ints()

	if opt.QualityCheck {
		sane, err := arch.Attr(id, attrSaneSpikes)
		if err != nil {
			return fail(ReasonMissingAttribute, err)
		}
		fnfp, err := arch.Attr(id, attrFnFpSpikes)
		if err != nil {
			return fail(ReasonMissingAttribute, err)
		}
		saneMask, fnfpMask := sane.Bools(), fnfp.Bools()
		if len(saneMask) != len(st.spikes) || len(fnfpMask) != len(st.spikes) {
			return fail(ReasonQualityChecks, nil)
		}
		st.spikes = maskSpikes(st.spikes, saneMask, fnfpMask)
	}

	if len(st.spikes) == 0 {
		return fail(ReasonQualityChecks, nil)
	}

	if opt.UseAmplitudes {
		v, err = arch.Attr(id, attrAmplitudes)
		if err != nil {
			return fail(ReasonMissingAttribute, err)
		}
		st.amplitudes = v.Floats()
	}

	// Gate 3: waveform shape repair and crop.
	v, err = arch.Attr(id, attrWaveform)
	if err != nil {
		return fail(ReasonMissingAttribute, err)
	}
	raw, err := v.Matrix()
	if err != nil {
		// Waveforms that cannot be read as a 2-D matrix (extra axes, no
		// elements) are a per-record defect, not a build-wide one.
		return fail(ReasonShapeMismatch, nil)
	}

	st.wf = waveform.Flatten(waveform.Prepare(raw, waveform.Config{
		CentralRange:      opt.CentralRange,
		NChannels:         opt.NChannels,
		ReshapeFortranToC: opt.ReshapeFortranToC,
		Normalise:         opt.NormaliseWaveforms,
	}))

	if len(st.wf) != opt.NChannels*opt.CentralRange {
		return fail(ReasonShapeMismatch, nil)
	}

	// Gate 4: ACG, computed by the external collaborator on the filtered
	// train. The raw (uncut, unresampled) histogram is staged; halving and
	// resampling are dataset-wide decisions applied before stacking.
	a, err := computeACG(st.spikes, acg.BinMS, acg.WindowMS)
	if err != nil {
		return nil, nil, pfx.Err(fmt.Errorf("cellset: ACG computation failed for record %d: %w", id, err))
	}
	if opt.NormaliseACGs {
		a = acg.ClipNormalise(a)
	}
	st.acg = a

	// Gate 5: provenance.
	name, err := arch.Attr(id, attrDatasetID)
	if err != nil {
		return fail(ReasonMissingAttribute, err)
	}
	unit, err := arch.Attr(id, attrNeuronID)
	if err != nil {
		return fail(ReasonMissingAttribute, err)
	}
	st.info = name.Text() + "/" + unit.Text()

	return st, nil, nil
}

// decodeLabel canonicalises the record-dependent label typing: strings pass
// through, nonzero numbers become their decimal literal, and zero means
// unlabelled.
func decodeLabel(v *archive.Value) string {
	if v.IsString {
		if v.Str == "" {
			return Unlabelled
		}
		return v.Str
	}

	f := v.First()
	if f == 0 {
		return Unlabelled
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// maskSpikes keeps spikes where both quality masks hold. The caller has
// already checked that the masks cover the train exactly.
func maskSpikes(spikes []int64, sane, fnfp []bool) []int64 {
	out := make([]int64, 0, len(spikes))
	for i, s := range spikes {
		if sane[i] && fnfp[i] {
			out = append(out, s)
		}
	}

	return out
}

// discardRecord assembles a discard-table row. The provenance attributes are
// read best-effort: when even those are unreadable, the archive record id
// stands in for the unit and the dataset name stays empty.
func discardRecord(arch archive.Reader, id int, label, reason string) *Discard {
	out := &Discard{
		NeuronID: strconv.Itoa(id),
		Label:    label,
		Reason:   reason,
	}
	if v, err := arch.Attr(id, attrDatasetID); err == nil {
		out.Dataset = v.Text()
	}
	if v, err := arch.Attr(id, attrNeuronID); err == nil {
		out.NeuronID = v.Text()
	}

	return out
}
