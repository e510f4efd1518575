// Package row defines the self-describing byte-buffer row value: a
// contiguous payload plus an offsets vector, so that column i always
// occupies data[offsets[i]:offsets[i+1]].
package row

// Row is a caller-owned, self-contained row. It is the shape handed to
// Insert and the shape Select returns; storage backends work with their
// own borrowed or owned views but present the same offsets discipline.
type Row struct {
	Data    []byte
	Offsets []int
}

// OfColumns builds a Row by concatenating cols in order and recording the
// running offset after each one. Offsets[0] is always 0 and
// len(Offsets) == len(cols)+1.
func OfColumns(cols [][]byte) Row {
	offsets := make([]int, 0, len(cols)+1)
	offsets = append(offsets, 0)

	total := 0
	for _, c := range cols {
		total += len(c)
	}
	data := make([]byte, 0, total)

	for _, c := range cols {
		data = append(data, c...)
		offsets = append(offsets, len(data))
	}

	return Row{Data: data, Offsets: offsets}
}

// NumColumns reports how many columns this row carries.
func (r Row) NumColumns() int {
	if len(r.Offsets) == 0 {
		return 0
	}
	return len(r.Offsets) - 1
}

// GetColumn returns data[offsets[i]:offsets[i+1]]. Calling it with an
// out-of-range i is a programming error and panics, matching the
// contract that callers never invoke it with an unchecked index — schema
// validation runs first.
func (r Row) GetColumn(i int) []byte {
	return r.Data[r.Offsets[i]:r.Offsets[i+1]]
}
