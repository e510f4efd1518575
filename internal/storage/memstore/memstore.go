// Package memstore is the in-memory storage backend: a single growing
// byte arena plus parallel row-start and per-row offset arrays. Scan
// views borrow directly from the arena; nothing is copied until a caller
// projects a row out of a scan.
package memstore

import (
	"sort"

	"rdbi/internal/row"
	"rdbi/internal/storage"
)

// Store is the in-memory backend. It is not safe for concurrent use,
// matching the engine's single-threaded, non-transactional contract.
type Store struct {
	offsetsPerRow int

	data                  []byte
	rowDataStarts         []int
	relativeColumnOffsets []int
}

// New creates an empty in-memory store for a table with numColumns
// columns.
func New(numColumns int) *Store {
	return &Store{offsetsPerRow: numColumns + 1}
}

// Store appends rows to the arena, applying inputToSchema while copying
// each row's columns so that column i of the stored row is always the
// schema's column i.
func (s *Store) Store(rows []row.Row, inputToSchema []int) error {
	for _, r := range rows {
		nextOffset := 0
		s.relativeColumnOffsets = append(s.relativeColumnOffsets, nextOffset)

		rowStart := len(s.data)
		s.rowDataStarts = append(s.rowDataStarts, rowStart)

		for _, inputIdx := range inputToSchema {
			col := r.GetColumn(inputIdx)
			s.data = append(s.data, col...)
			nextOffset += len(col)
			s.relativeColumnOffsets = append(s.relativeColumnOffsets, nextOffset)
		}
	}
	return nil
}

func (s *Store) rowContent(rowID int) row.Row {
	start := s.rowDataStarts[rowID]
	var end int
	if rowID+1 < len(s.rowDataStarts) {
		end = s.rowDataStarts[rowID+1]
	} else {
		end = len(s.data)
	}

	offStart := rowID * s.offsetsPerRow
	offEnd := (rowID + 1) * s.offsetsPerRow

	return row.Row{Data: s.data[start:end], Offsets: s.relativeColumnOffsets[offStart:offEnd]}
}

// Scan returns an iterator over every live row in insertion order, with
// RowIds as the current dense index.
func (s *Store) Scan() (storage.Iterator, error) {
	return &iterator{s: s, next: 0}, nil
}

type iterator struct {
	s    *Store
	next int
}

func (it *iterator) Next() (storage.ScanItem, bool, error) {
	if it.next >= len(it.s.rowDataStarts) {
		return storage.ScanItem{}, false, nil
	}
	id := it.next
	it.next++
	return storage.ScanItem{ID: storage.RowId(id), Row: it.s.rowContent(id)}, true, nil
}

func (it *iterator) Close() error { return nil }

// DeleteRows removes the given rows. Ids are processed in descending
// order so that deleting one row never invalidates the index of another
// not-yet-processed id.
func (s *Store) DeleteRows(ids []storage.RowId) error {
	sorted := make([]int, 0, len(ids))
	for _, id := range ids {
		sorted = append(sorted, int(id))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for i, rowID := range sorted {
		if i > 0 && sorted[i-1] == rowID {
			continue
		}
		if rowID < 0 || rowID >= len(s.rowDataStarts) {
			continue
		}
		start := s.rowDataStarts[rowID]
		var end int
		if rowID+1 < len(s.rowDataStarts) {
			end = s.rowDataStarts[rowID+1]
		} else {
			end = len(s.data)
		}

		s.data = append(s.data[:start], s.data[end:]...)
		deletedLength := end - start

		s.rowDataStarts = append(s.rowDataStarts[:rowID], s.rowDataStarts[rowID+1:]...)
		for i := rowID; i < len(s.rowDataStarts); i++ {
			if s.rowDataStarts[i] > start {
				s.rowDataStarts[i] -= deletedLength
			}
		}

		offStart := rowID * s.offsetsPerRow
		offEnd := (rowID + 1) * s.offsetsPerRow
		s.relativeColumnOffsets = append(s.relativeColumnOffsets[:offStart], s.relativeColumnOffsets[offEnd:]...)
	}
	return nil
}
