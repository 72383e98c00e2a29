package main

import (
	"sort"

	"github.com/carbocation/pfx"
	hist "github.com/grd/histogram"

	"github.com/neurodatalab/cellset/acg"
)

// correlogram returns the autocorrelogram collaborator the pipeline consumes:
// a histogram of pairwise spike-time lags, binned at binMS over a window
// spanning windowMS (half on each side of zero lag). Spike times arrive as
// sample indices; sampleRate converts them to milliseconds.
func correlogram(sampleRate float64) acg.Func {
	return func(train []int64, binMS, windowMS float64) ([]float64, error) {
		times := make([]float64, len(train))
		for i, t := range train {
			times[i] = float64(t) / sampleRate * 1000
		}
		sort.Float64s(times)

		halfWindow := windowMS / 2
		nBins := int(windowMS / binMS)

		hg, err := hist.NewHistogram(hist.Range(-halfWindow, uint(nBins), binMS))
		if err != nil {
			return nil, pfx.Err(err)
		}

		for i := range times {
			for j := i + 1; j < len(times); j++ {
				lag := times[j] - times[i]
				if lag >= halfWindow {
					break
				}
				hg.Add(lag)
				hg.Add(-lag)
			}
		}

		out := make([]float64, nBins)
		for i := range out {
			out[i] = float64(hg.Get(i))
		}

		return out, nil
	}
}
