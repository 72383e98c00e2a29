package cellset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/mat"
)

// PlotByInfo renders one unit's waveform crop (one line per channel) and its
// post-processed ACG as PNG files in dir, named
// <source>_<unit>_wvf.png and <source>_<unit>_acg.png.
func (d *Dataset) PlotByInfo(source, unit, dir string) error {
	wvf, err := d.WaveformByInfo(source, unit)
	if err != nil {
		return err
	}
	a, err := d.ACGByInfo(source, unit)
	if err != nil {
		return err
	}

	base := strings.ReplaceAll(source, string(os.PathSeparator), "-") + "_" + unit
	if err := plotWaveformPNG(filepath.Join(dir, base+"_wvf.png"), wvf); err != nil {
		return err
	}

	return plotSeriesPNG(filepath.Join(dir, base+"_acg.png"), a)
}

func plotWaveformPNG(filename string, w *mat.Dense) error {
	r, c := w.Dims()

	series := make([]chart.Series, 0, r)
	for i := 0; i < r; i++ {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("ch %d", i),
			XValues: floatSeq(c),
			YValues: append([]float64(nil), w.RawRowView(i)...),
		})
	}

	return renderPNG(filename, series)
}

func plotSeriesPNG(filename string, vals []float64) error {
	return renderPNG(filename, []chart.Series{
		chart.ContinuousSeries{
			XValues: floatSeq(len(vals)),
			YValues: vals,
		},
	})
}

func renderPNG(filename string, series []chart.Series) error {
	graph := chart.Chart{
		Width:  512,
		Height: 256,
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
		},
		Series: series,
	}

	f, err := os.Create(filename)
	if err != nil {
		return pfx.Err(err)
	}

	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return pfx.Err(f.Close())
}

func floatSeq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}

	return out
}
