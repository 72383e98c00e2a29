package archive

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"gonum.org/v1/hdf5"
)

// File reads records from an HDF5 archive on disk. The file handle stays open
// for the lifetime of the accessor so that enumeration and the many small
// attribute reads of a full pipeline pass share one acquisition; Close
// releases it.
type File struct {
	file   *hdf5.File
	prefix string
	ids    []int
}

// Open opens the archive and enumerates its neuron record groups. An
// unreadable file or an archive with zero matching groups is a fatal error.
func Open(path string) (*File, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, pfx.Err(err)
	}

	out := &File{file: f}
	if err := out.scan(); err != nil {
		f.Close()
		return nil, err
	}

	return out, nil
}

// scan walks the top-level groups looking for the <prefix>_neuron_<id>
// convention, learning the prefix from the first match.
func (a *File) scan() error {
	n, err := a.file.NumObjects()
	if err != nil {
		return pfx.Err(err)
	}

	for i := uint(0); i < n; i++ {
		name, err := a.file.ObjectNameByIndex(i)
		if err != nil {
			return pfx.Err(err)
		}

		at := strings.Index(name, "_neuron_")
		if at < 0 {
			continue
		}

		id, err := strconv.Atoi(name[at+len("_neuron_"):])
		if err != nil {
			continue
		}

		a.prefix = name[:at]
		a.ids = append(a.ids, id)
	}

	if len(a.ids) == 0 {
		return pfx.Err(fmt.Errorf("archive: no neuron records found"))
	}

	sort.Ints(a.ids)

	return nil
}

// RecordIDs returns every record id in the archive, ascending.
func (a *File) RecordIDs() ([]int, error) {
	out := make([]int, len(a.ids))
	copy(out, a.ids)
	return out, nil
}

// Attr reads the raw value stored at the conventional path for (id, name).
func (a *File) Attr(id int, name string) (*Value, error) {
	path := fmt.Sprintf("%s_neuron_%d/%s", a.prefix, id, name)

	ds, err := a.file.OpenDataset(path)
	if err != nil {
		return nil, &MissingAttributeError{Record: id, Attr: name}
	}
	defer ds.Close()

	dt, err := ds.Datatype()
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer dt.Close()

	space := ds.Space()
	dims, _, err := space.SimpleExtentDims()
	space.Close()
	if err != nil {
		return nil, pfx.Err(err)
	}

	points := 1
	intDims := make([]int, 0, len(dims))
	for _, d := range dims {
		points *= int(d)
		intDims = append(intDims, int(d))
	}
	if len(intDims) == 0 {
		// Scalar dataspace.
		intDims = []int{1}
	}

	if dt.Class() == hdf5.T_STRING {
		strs := make([]string, points)
		if err := ds.Read(&strs); err != nil {
			return nil, pfx.Err(err)
		}
		return NewText(strs[0]), nil
	}

	data := make([]float64, points)
	if err := ds.Read(&data); err != nil {
		return nil, pfx.Err(err)
	}

	return &Value{Data: data, Dims: intDims}, nil
}

// Close releases the underlying HDF5 handle.
func (a *File) Close() error {
	return a.file.Close()
}
