// plotunit loads a saved dataset and renders one unit's waveform crop and
// autocorrelogram as PNG files, looked up by its provenance pair.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/neurodatalab/cellset"
)

func main() {
	var datasetPath, source, unit, outDir string

	flag.StringVar(&datasetPath, "dataset", "", "Dataset file written by buildcellset")
	flag.StringVar(&source, "dp", "", "Source dataset name of the unit")
	flag.StringVar(&unit, "unit", "", "Unit identifier within the source dataset")
	flag.StringVar(&outDir, "outdir", ".", "Directory for the rendered PNGs")
	flag.Parse()

	if datasetPath == "" || source == "" || unit == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	ds, err := cellset.Load(datasetPath)
	if err != nil {
		log.Fatalln(err)
	}

	if err := ds.PlotByInfo(source, unit, outDir); err != nil {
		log.Fatalln(err)
	}

	log.Printf("rendered %s/%s into %s", source, unit, outDir)
}
