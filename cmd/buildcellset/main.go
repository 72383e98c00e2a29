// buildcellset reads a neuron recording archive, runs every record through
// the normalization pipeline, and writes the resulting dataset to disk. The
// autocorrelograms are computed by the bundled histogram-based collaborator;
// the library itself only post-processes them.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"

	"github.com/neurodatalab/cellset"
)

func main() {
	var archivePath, outPath, discardedPath string
	var sampleRate float64
	var spikeHist bool

	opt := cellset.DefaultOptions()

	flag.StringVar(&archivePath, "archive", "", "HDF5 recording archive to ingest")
	flag.StringVar(&outPath, "out", "", "Output dataset file")
	flag.StringVar(&discardedPath, "discarded", "", "(Optional) CSV file for the discarded-records table")
	flag.Float64Var(&sampleRate, "samplerate", 30000, "Spike-time sample rate, in Hz")
	flag.BoolVar(&opt.QualityCheck, "quality-check", opt.QualityCheck, "Intersect the sanity and FN/FP spike masks before accepting a train?")
	flag.BoolVar(&opt.NormaliseWaveforms, "normalise-wvf", opt.NormaliseWaveforms, "Baseline-subtract and extremum-scale each waveform?")
	flag.BoolVar(&opt.NormaliseACGs, "normalise-acg", opt.NormaliseACGs, "Clip-normalise each ACG?")
	flag.BoolVar(&opt.ResampleACGs, "resample-acgs", opt.ResampleACGs, "Enhance early ACG lags with synthetic points?")
	flag.BoolVar(&opt.CutACG, "cut-acg", opt.CutACG, "Keep only the causal half of each ACG?")
	flag.IntVar(&opt.CentralRange, "central-range", opt.CentralRange, "Waveform time-axis crop width, in samples")
	flag.IntVar(&opt.NChannels, "n-channels", opt.NChannels, "Waveform channel-axis crop width")
	flag.BoolVar(&opt.ReshapeFortranToC, "fortran", opt.ReshapeFortranToC, "Swap waveform axis order before orientation repair?")
	flag.StringVar(&opt.LabelAttr, "label", opt.LabelAttr, "Archive attribute holding the class label")
	flag.BoolVar(&opt.UseAmplitudes, "amplitudes", opt.UseAmplitudes, "Also extract the per-record amplitude sequence?")
	flag.BoolVar(&spikeHist, "spikehist", false, "Print a terminal histogram of per-unit post-QC spike counts?")
	flag.Parse()

	if archivePath == "" || outPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(archivePath, outPath, discardedPath, sampleRate, spikeHist, opt); err != nil {
		log.Fatalln(err)
	}
}

func run(archivePath, outPath, discardedPath string, sampleRate float64, spikeHist bool, opt cellset.Options) error {
	ds, err := cellset.BuildFromFile(archivePath, correlogram(sampleRate), opt)
	if err != nil {
		return err
	}

	if spikeHist {
		counts := make([]float64, 0, ds.Len())
		for _, train := range ds.Spikes {
			counts = append(counts, float64(len(train)))
		}

		fmt.Println("Post-QC spike counts per unit:")
		hist := histogram.Hist(10, counts)
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
			return pfx.Err(err)
		}
	}

	if discardedPath != "" {
		f, err := os.Create(discardedPath)
		if err != nil {
			return pfx.Err(err)
		}
		if err := ds.WriteDiscardedCSV(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return pfx.Err(err)
		}
	}

	return ds.Save(outPath)
}
