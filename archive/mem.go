package archive

import "sort"

// Mem is an in-memory Reader. It backs the package tests and lets callers
// assemble record sets programmatically instead of going through HDF5.
type Mem struct {
	records map[int]map[string]*Value
}

// NewMem returns an empty in-memory archive.
func NewMem() *Mem {
	return &Mem{records: make(map[int]map[string]*Value)}
}

// Put stores one attribute for one record, creating the record as needed. It
// returns the archive so fixtures can chain calls.
func (m *Mem) Put(id int, name string, v *Value) *Mem {
	rec := m.records[id]
	if rec == nil {
		rec = make(map[string]*Value)
		m.records[id] = rec
	}
	rec[name] = v

	return m
}

// Delete removes one attribute from one record.
func (m *Mem) Delete(id int, name string) {
	delete(m.records[id], name)
}

// RecordIDs returns every stored record id, ascending.
func (m *Mem) RecordIDs() ([]int, error) {
	ids := make([]int, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids, nil
}

// Attr returns the stored value, or a MissingAttributeError.
func (m *Mem) Attr(id int, name string) (*Value, error) {
	if v, ok := m.records[id][name]; ok {
		return v, nil
	}
	return nil, &MissingAttributeError{Record: id, Attr: name}
}
