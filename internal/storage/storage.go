// Package storage defines the capability abstraction both backends
// (memstore, filestore) implement: store validated rows, scan all live
// rows, and delete rows by id.
package storage

import "rdbi/internal/row"

// RowId identifies a row within one storage instance. It is scan-local:
// stable only until the next mutating operation against that storage, and
// never guaranteed stable across a delete. The in-memory backend
// densifies ids after a delete; the disk backend's scan counter advances
// over tombstoned records too. Neither policy promises a durable handle —
// callers that need to act on a row again must re-scan.
type RowId uint64

// ScanItem is one entry a Scan yields: a RowId paired with that row's
// content. The Row itself may borrow backing storage memory (memstore) or
// own a freshly materialized buffer (filestore); both are represented the
// same way since row.Row's Data/Offsets are just slices either way.
type ScanItem struct {
	ID  RowId
	Row row.Row
}

// Backend is the storage capability contract. store/scan/delete never see
// unvalidated input: the engine validates rows and filter columns before
// calling in.
type Backend interface {
	// Store appends all rows or appends none on error. inputToSchema maps
	// schema column index -> input row column index, i.e. the permutation
	// Store must apply while copying each row's columns into schema order.
	Store(rows []row.Row, inputToSchema []int) error

	// Scan enumerates all non-deleted rows in insertion order.
	Scan() (Iterator, error)

	// DeleteRows removes the given row ids. It accepts arbitrarily
	// ordered ids and is idempotent on ids already out of range.
	DeleteRows(ids []RowId) error
}

// Iterator yields ScanItems one at a time. Callers must call Close when
// done (the disk backend holds an open file handle during a scan).
type Iterator interface {
	Next() (ScanItem, bool, error)
	Close() error
}
