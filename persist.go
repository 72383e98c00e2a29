package cellset

import (
	"encoding/gob"
	"os"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// snapshot is the gob-friendly flattening of a Dataset: matrices become
// (rows, cols, data) triples and the labelling becomes its class list.
type snapshot struct {
	WFRows, WFCols     int
	WFData             []float64
	ACGRows, ACGCols   int
	ACGData            []float64
	FullRows, FullCols int
	FullData           []float64

	Targets    []int
	Info       []string
	Spikes     [][]int64
	Labels     []string
	Amplitudes [][]float64
	Discarded  []Discard

	ScaleWF, ScaleACG       float64
	NChannels, CentralRange int
	Classes                 []string
}

// Save serialises the whole dataset to a file. The format is opaque; Load is
// the only consumer.
func (d *Dataset) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	s := snapshot{
		Targets:      d.Targets,
		Info:         d.Info,
		Spikes:       d.Spikes,
		Labels:       d.Labels,
		Amplitudes:   d.Amplitudes,
		Discarded:    d.Discarded,
		ScaleWF:      d.ScaleWF,
		ScaleACG:     d.ScaleACG,
		NChannels:    d.nChannels,
		CentralRange: d.centralRange,
		Classes:      d.labelling.Classes(),
	}
	s.WFRows, s.WFCols, s.WFData = explodeMatrix(d.WF)
	s.ACGRows, s.ACGCols, s.ACGData = explodeMatrix(d.ACG)
	s.FullRows, s.FullCols, s.FullData = explodeMatrix(d.Full)

	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return pfx.Err(f.Close())
}

// Load deserialises a dataset written by Save.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var s snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, pfx.Err(err)
	}

	return &Dataset{
		WF:           rebuildMatrix(s.WFRows, s.WFCols, s.WFData),
		ACG:          rebuildMatrix(s.ACGRows, s.ACGCols, s.ACGData),
		Full:         rebuildMatrix(s.FullRows, s.FullCols, s.FullData),
		Targets:      s.Targets,
		Info:         s.Info,
		Spikes:       s.Spikes,
		Labels:       s.Labels,
		Amplitudes:   s.Amplitudes,
		Discarded:    s.Discarded,
		ScaleWF:      s.ScaleWF,
		ScaleACG:     s.ScaleACG,
		nChannels:    s.NChannels,
		centralRange: s.CentralRange,
		labelling:    NewLabelling(s.Classes...),
	}, nil
}

func explodeMatrix(m *mat.Dense) (rows, cols int, data []float64) {
	if m == nil {
		return 0, 0, nil
	}

	rows, cols = m.Dims()
	data = make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		data = append(data, m.RawRowView(i)...)
	}

	return rows, cols, data
}

func rebuildMatrix(rows, cols int, data []float64) *mat.Dense {
	if rows == 0 {
		return nil
	}

	return mat.NewDense(rows, cols, data)
}
