package cellset

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// Unlabelled is the canonical class name of records without a label; it
// always encodes to -1.
const Unlabelled = "unlabelled"

// Labelling is a bidirectional class-name/code enumeration. Codes are the
// positions in the class list; unknown names and the Unlabelled sentinel map
// to -1 in both directions.
type Labelling struct {
	classes []string
}

// NewLabelling enumerates classes in code order: the first name gets code 0.
func NewLabelling(classes ...string) Labelling {
	out := make([]string, len(classes))
	copy(out, classes)

	return Labelling{classes: out}
}

// DefaultLabelling is the cerebellar cell-type table: GrC=0, GoC=1, MLI=2,
// MFB=3, PkC_ss=4, PkC_cs=5.
func DefaultLabelling() Labelling {
	return NewLabelling("GrC", "GoC", "MLI", "MFB", "PkC_ss", "PkC_cs")
}

// Code returns the integer code for a class name, or -1 for unknown names and
// the Unlabelled sentinel.
func (l Labelling) Code(name string) int {
	for i, c := range l.classes {
		if c == name {
			return i
		}
	}

	return -1
}

// Name returns the class name for a code, or Unlabelled for any code outside
// the table.
func (l Labelling) Name(code int) string {
	if code < 0 || code >= len(l.classes) {
		return Unlabelled
	}

	return l.classes[code]
}

// Classes returns the class names in code order.
func (l Labelling) Classes() []string {
	out := make([]string, len(l.classes))
	copy(out, l.classes)

	return out
}

// Drop returns a new enumeration without the named class; codes above it
// shift down by one to close the gap.
func (l Labelling) Drop(name string) (Labelling, error) {
	at := l.Code(name)
	if at < 0 {
		return Labelling{}, pfx.Err(fmt.Errorf("cellset: unknown class %q", name))
	}

	out := make([]string, 0, len(l.classes)-1)
	out = append(out, l.classes[:at]...)
	out = append(out, l.classes[at+1:]...)

	return Labelling{classes: out}, nil
}

func (l Labelling) empty() bool {
	return len(l.classes) == 0
}
