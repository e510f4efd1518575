// Package filestore is the on-disk storage backend: an append-only log
// of tombstone-prefixed, length-prefixed row records behind a small
// magic-and-arity header. There is no write-ahead log, no transaction
// log, and no compaction — deletes stamp a tombstone byte in place and
// leave the payload bytes where they are.
package filestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"rdbi/internal/row"
	"rdbi/internal/storage"
)

// Store is the on-disk backend for one table. It owns path for the
// database's lifetime; removing the file is the caller's responsibility.
type Store struct {
	path          string
	offsetsPerRow uint64
}

// New opens or creates the table file at path. numColumns must match the
// schema's column count; it fixes offsetsPerRow = numColumns+1 for the
// life of the file. Opening an existing file whose header arity disagrees
// with numColumns, or whose magic doesn't match, fails immediately.
func New(path string, numColumns int) (*Store, error) {
	offsetsPerRow := uint64(numColumns + 1)

	f, err := os.OpenFile(path, os.O_RDONLY, 0o644)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if ferr := createEmpty(path, offsetsPerRow); ferr != nil {
			return nil, ferr
		}
	case err != nil:
		return nil, fmt.Errorf("filestore: open %s: %w", path, err)
	default:
		defer f.Close()
		got, herr := readHeader(f)
		if herr != nil {
			return nil, fmt.Errorf("filestore: %s: %w", path, herr)
		}
		if got != offsetsPerRow {
			return nil, fmt.Errorf("filestore: %s: header arity %d does not match schema arity %d", path, got, offsetsPerRow)
		}
	}

	return &Store{path: path, offsetsPerRow: offsetsPerRow}, nil
}

func createEmpty(path string, offsetsPerRow uint64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("filestore: create %s: %w", path, err)
	}
	defer f.Close()

	if err := writeHeader(f, offsetsPerRow); err != nil {
		return fmt.Errorf("filestore: write header for %s: %w", path, err)
	}
	return f.Sync()
}

// Store appends one record per row, in schema column order, and flushes
// before returning. If a write fails, the file is truncated back to its
// size before the call, so no record of this batch remains.
func (s *Store) Store(rows []row.Row, inputToSchema []int) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("filestore: open %s for append: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("filestore: stat %s: %w", s.path, err)
	}

	for _, r := range rows {
		rec := recordOf(r, inputToSchema)
		if err := writeRecord(f, rec); err != nil {
			f.Truncate(info.Size())
			return fmt.Errorf("filestore: write row to %s: %w", s.path, err)
		}
	}
	return f.Sync()
}

func recordOf(r row.Row, inputToSchema []int) record {
	offsets := make([]uint64, 0, len(inputToSchema)+1)
	offsets = append(offsets, 0)

	var payload []byte
	var next uint64
	for _, inputIdx := range inputToSchema {
		col := r.GetColumn(inputIdx)
		payload = append(payload, col...)
		next += uint64(len(col))
		offsets = append(offsets, next)
	}

	return record{tombstone: tombstoneLive, offsets: offsets, payload: payload}
}

// Scan opens a fresh read-only handle, validates the header, and streams
// records in file order. RowIds are the record's ordinal position
// counting both live and tombstoned records, so a delete never changes
// the RowId another still-live row was assigned during the same scan.
func (s *Store) Scan() (storage.Iterator, error) {
	f, err := os.OpenFile(s.path, os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filestore: open %s for scan: %w", s.path, err)
	}

	offsetsPerRow, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("filestore: %s: %w", s.path, err)
	}
	if offsetsPerRow != s.offsetsPerRow {
		f.Close()
		return nil, fmt.Errorf("filestore: %s: header arity %d does not match store arity %d", s.path, offsetsPerRow, s.offsetsPerRow)
	}

	return &iterator{f: f, offsetsPerRow: offsetsPerRow}, nil
}

type iterator struct {
	f             *os.File
	offsetsPerRow uint64
	ordinal       storage.RowId
}

func (it *iterator) Next() (storage.ScanItem, bool, error) {
	for {
		rec, err := readRecord(it.f, it.offsetsPerRow)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return storage.ScanItem{}, false, nil
			}
			return storage.ScanItem{}, false, err
		}

		id := it.ordinal
		it.ordinal++

		if rec.tombstone == tombstoneDeleted {
			continue
		}

		offsets := make([]int, len(rec.offsets))
		for i, o := range rec.offsets {
			offsets[i] = int(o)
		}
		return storage.ScanItem{ID: id, Row: row.Row{Data: rec.payload, Offsets: offsets}}, true, nil
	}
}

func (it *iterator) Close() error {
	return it.f.Close()
}

// DeleteRows stamps a tombstone byte over each targeted record, in a
// single sequential pass over the file. Byte offsets of later records
// never move, so this never needs to rewrite payload bytes. No
// compaction is performed.
func (s *Store) DeleteRows(ids []storage.RowId) error {
	if len(ids) == 0 {
		return nil
	}

	sorted := append([]storage.RowId(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	f, err := os.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("filestore: open %s for delete: %w", s.path, err)
	}
	defer f.Close()

	offsetsPerRow, err := readHeader(f)
	if err != nil {
		return fmt.Errorf("filestore: %s: %w", s.path, err)
	}

	headerSize := int64(len(fileMagic) + 8)
	pos := headerSize
	wantIdx := 0
	var ordinal storage.RowId

	for wantIdx < len(sorted) {
		if _, err := f.Seek(pos, 0); err != nil {
			return fmt.Errorf("filestore: seek in %s: %w", s.path, err)
		}

		var tombstone [1]byte
		if _, err := f.Read(tombstone[:]); err != nil {
			// Ran out of records before finding every requested id:
			// out-of-range ids are ignored, matching DeleteRows'
			// idempotence contract.
			break
		}

		offsets := make([]uint64, offsetsPerRow)
		for i := range offsets {
			if err := binary.Read(f, binary.LittleEndian, &offsets[i]); err != nil {
				return fmt.Errorf("filestore: %s: truncated record offsets: %w", s.path, err)
			}
		}
		var length uint64
		if err := binary.Read(f, binary.LittleEndian, &length); err != nil {
			return fmt.Errorf("filestore: %s: truncated record length: %w", s.path, err)
		}

		recSize := recordByteSize(offsetsPerRow, length)

		if ordinal == sorted[wantIdx] {
			if _, err := f.WriteAt([]byte{tombstoneDeleted}, pos); err != nil {
				return fmt.Errorf("filestore: %s: stamp tombstone: %w", s.path, err)
			}
			for wantIdx < len(sorted) && sorted[wantIdx] == ordinal {
				wantIdx++
			}
		}

		pos += recSize
		ordinal++
	}

	return f.Sync()
}
