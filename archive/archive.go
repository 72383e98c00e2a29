// Package archive reads per-neuron records out of a hierarchical recording
// archive. Each record is a named group following the <prefix>_neuron_<id>
// convention, and each of its attributes is a dataset inside that group. The
// package only implements the narrow read pattern needed downstream: record
// enumeration and attribute read-by-name.
package archive

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Reader enumerates records and resolves (record id, attribute name) pairs to
// their raw stored values. Implementations must return a
// MissingAttributeError when the attribute path does not exist for a record;
// callers treat that as a per-record condition, not a global one.
type Reader interface {
	RecordIDs() ([]int, error)
	Attr(id int, name string) (*Value, error)
}

// Value is a raw attribute payload, decoded once at the archive boundary into
// either a string or a numeric array with its dimensions. Record-dependent
// typing (the same attribute may hold text in one record and a number in the
// next) is resolved here so that everything downstream sees one shape.
type Value struct {
	IsString bool
	Str      string

	Data []float64
	Dims []int
}

// NewText wraps a string payload.
func NewText(s string) *Value {
	return &Value{IsString: true, Str: s}
}

// NewScalar wraps a single number as a 1-element vector.
func NewScalar(v float64) *Value {
	return &Value{Data: []float64{v}, Dims: []int{1}}
}

// NewVector wraps a 1-D numeric payload.
func NewVector(data []float64) *Value {
	return &Value{Data: data, Dims: []int{len(data)}}
}

// NewMatrix wraps a 2-D numeric payload stored in row-major order.
func NewMatrix(data []float64, rows, cols int) *Value {
	return &Value{Data: data, Dims: []int{rows, cols}}
}

// Floats returns the numeric payload as-is.
func (v *Value) Floats() []float64 {
	return v.Data
}

// Ints truncates the numeric payload to integers. Spike sample indices are
// stored as integers in the archive, so no rounding is involved in practice.
func (v *Value) Ints() []int64 {
	out := make([]int64, len(v.Data))
	for i, f := range v.Data {
		out[i] = int64(f)
	}
	return out
}

// Bools maps the numeric payload to a boolean mask, true where nonzero.
func (v *Value) Bools() []bool {
	out := make([]bool, len(v.Data))
	for i, f := range v.Data {
		out[i] = f != 0
	}
	return out
}

// First returns the first element of the numeric payload, the equivalent of
// ravel()[0] on an arbitrary-dimensional array.
func (v *Value) First() float64 {
	if len(v.Data) == 0 {
		return 0
	}
	return v.Data[0]
}

// Text returns the string payload, or a decimal rendering of First for
// numeric values.
func (v *Value) Text() string {
	if v.IsString {
		return v.Str
	}
	f := v.First()
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Matrix returns the numeric payload as a 2-D matrix. 1-D payloads become a
// single row; higher dimensionality is rejected.
func (v *Value) Matrix() (*mat.Dense, error) {
	if v.IsString {
		return nil, fmt.Errorf("archive: string value is not a matrix")
	}

	var rows, cols int
	switch len(v.Dims) {
	case 1:
		rows, cols = 1, v.Dims[0]
	case 2:
		rows, cols = v.Dims[0], v.Dims[1]
	default:
		return nil, fmt.Errorf("archive: cannot view %d-dimensional value as a matrix", len(v.Dims))
	}

	if rows*cols != len(v.Data) || len(v.Data) == 0 {
		return nil, fmt.Errorf("archive: value has %d elements, dims claim %dx%d", len(v.Data), rows, cols)
	}

	data := make([]float64, len(v.Data))
	copy(data, v.Data)

	return mat.NewDense(rows, cols, data), nil
}

// MissingAttributeError reports that a record exists but does not carry the
// requested attribute.
type MissingAttributeError struct {
	Record int
	Attr   string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("archive: record %d has no attribute %q", e.Record, e.Attr)
}

// IsMissing reports whether err is a MissingAttributeError.
func IsMissing(err error) bool {
	var m *MissingAttributeError
	return errors.As(err, &m)
}
