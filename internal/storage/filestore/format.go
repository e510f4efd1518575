package filestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// File layout (little-endian throughout):
//
//	Header:  magic="RDBI" (4 bytes) ‖ offsetsPerRow: uint64
//	Per row: tombstone: uint8 (0 = live, 1 = deleted)
//	         relativeOffsets: uint64 × offsetsPerRow (first entry always 0)
//	         contentLength:  uint64
//	         payload:        contentLength bytes
//
// offsetsPerRow = columns+1 is fixed at creation time and implicitly
// commits the column arity of every record appended afterward.
const fileMagic = "RDBI"

const (
	tombstoneLive    = 0
	tombstoneDeleted = 1
)

// ErrBadMagic is returned by readHeader when the file does not start with
// the expected magic bytes.
var ErrBadMagic = errors.New("filestore: invalid file magic")

func writeHeader(w io.Writer, offsetsPerRow uint64) error {
	if _, err := w.Write([]byte(fileMagic)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, offsetsPerRow)
}

// readHeader validates the magic and returns offsetsPerRow, leaving the
// reader positioned at the start of the first record.
func readHeader(r io.Reader) (uint64, error) {
	magicBuf := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		return 0, fmt.Errorf("filestore: read magic: %w", err)
	}
	if string(magicBuf) != fileMagic {
		return 0, ErrBadMagic
	}

	var offsetsPerRow uint64
	if err := binary.Read(r, binary.LittleEndian, &offsetsPerRow); err != nil {
		return 0, fmt.Errorf("filestore: read header: %w", err)
	}
	return offsetsPerRow, nil
}

// record is one on-disk row: a tombstone flag, the per-column offsets
// (relative to the start of payload), and the payload bytes.
type record struct {
	tombstone byte
	offsets   []uint64
	payload   []byte
}

func writeRecord(w io.Writer, rec record) error {
	if _, err := w.Write([]byte{rec.tombstone}); err != nil {
		return err
	}
	for _, off := range rec.offsets {
		if err := binary.Write(w, binary.LittleEndian, off); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(rec.payload))); err != nil {
		return err
	}
	_, err := w.Write(rec.payload)
	return err
}

// readRecord decodes one record, given the table's fixed offsetsPerRow.
// io.EOF is returned (unwrapped) when the reader is positioned exactly at
// end-of-table; any other truncation mid-record is a distinct error.
func readRecord(r io.Reader, offsetsPerRow uint64) (record, error) {
	var tombstoneBuf [1]byte
	if _, err := io.ReadFull(r, tombstoneBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return record{}, io.EOF
		}
		return record{}, fmt.Errorf("filestore: truncated record: %w", err)
	}

	offsets := make([]uint64, offsetsPerRow)
	for i := range offsets {
		if err := binary.Read(r, binary.LittleEndian, &offsets[i]); err != nil {
			return record{}, fmt.Errorf("filestore: truncated record offsets: %w", err)
		}
	}

	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return record{}, fmt.Errorf("filestore: truncated record length: %w", err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return record{}, fmt.Errorf("filestore: truncated record payload: %w", err)
	}

	return record{tombstone: tombstoneBuf[0], offsets: offsets, payload: payload}, nil
}

// recordByteSize is the total on-disk size of a record whose payload is
// payloadLen bytes, used by DeleteRows to step from one record's tombstone
// byte to the next.
func recordByteSize(offsetsPerRow uint64, payloadLen uint64) int64 {
	return 1 + int64(offsetsPerRow)*8 + 8 + int64(payloadLen)
}
