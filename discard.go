package cellset

import (
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Discard reasons, one per pipeline gate.
const (
	ReasonQualityChecks    = "quality checks"
	ReasonShapeMismatch    = "shape mismatch"
	ReasonMissingAttribute = "KeyError"
)

// Discard is one row of the discarded-records table: which record was
// dropped, what it was labelled, where it came from, and why it was dropped.
// The table is append-only during construction and retained for programmatic
// inspection.
type Discard struct {
	NeuronID string `csv:"neuron_id"`
	Label    string `csv:"label"`
	Dataset  string `csv:"dataset"`
	Reason   string `csv:"reason"`
}

// WriteDiscardedCSV writes the discard table as CSV with a header row.
func (d *Dataset) WriteDiscardedCSV(w io.Writer) error {
	return pfx.Err(gocsv.Marshal(&d.Discarded, w))
}
