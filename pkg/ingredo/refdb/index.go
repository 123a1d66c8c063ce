package refdb

import "slices"

// Index maps folded ingredient names to records. Records keep dataset order,
// which is also the order Similar scans them in.
type Index struct {
	records    []Record
	folded     []string
	byName     map[string]int
	duplicates int
}

// NewIndex builds an index over records. Records with an empty name are
// skipped. When two records fold to the same name the later one wins and the
// collision is counted in Duplicates.
func NewIndex(records []Record) *Index {
	ix := &Index{
		records: make([]Record, 0, len(records)),
		folded:  make([]string, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		key := Fold(r.Name)
		if key == "" {
			continue
		}
		offset := len(ix.records)
		ix.records = append(ix.records, r)
		ix.folded = append(ix.folded, key)
		if _, exists := ix.byName[key]; exists {
			ix.duplicates++
		}
		ix.byName[key] = offset
	}
	return ix
}

// Lookup finds a record by exact, case- and accent-insensitive name.
func (ix *Index) Lookup(name string) (Record, bool) {
	if ix == nil {
		return Record{}, false
	}
	offset, ok := ix.byName[Fold(name)]
	if !ok {
		return Record{}, false
	}
	return ix.records[offset], true
}

// Similar returns the first record, in dataset order, whose name is contained
// in the token or contains it. Containment at a word start is tried over the
// whole dataset first, then containment anywhere for names of four letters or
// more, so "wholemilk powder" still finds "Milk" while "Tea" never wins "steak".
func (ix *Index) Similar(token string) (Record, bool) {
	if ix == nil {
		return Record{}, false
	}
	key := Fold(token)
	if key == "" {
		return Record{}, false
	}
	for _, contains := range []func(hay, needle string) bool{ContainsWordPrefix, ContainsPart} {
		for i, name := range ix.folded {
			if contains(key, name) || contains(name, key) {
				return ix.records[i], true
			}
		}
	}
	return Record{}, false
}

// Records returns a copy of all records in dataset order.
func (ix *Index) Records() []Record {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.records)
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// Duplicates returns how many records shared a folded name with an earlier one.
func (ix *Index) Duplicates() int {
	if ix == nil {
		return 0
	}
	return ix.duplicates
}
