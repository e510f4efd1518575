package filestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdbi/internal/row"
	"rdbi/internal/storage"
)

func drain(t *testing.T, it storage.Iterator) []storage.ScanItem {
	t.Helper()
	var out []storage.ScanItem
	for {
		item, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, item)
	}
	require.NoError(t, it.Close())
	return out
}

func TestStoreAndScanPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fruits.rdbi")
	s, err := New(path, 2)
	require.NoError(t, err)

	rows := []row.Row{
		row.OfColumns([][]byte{{1, 0, 0, 0}, []byte("apple")}),
		row.OfColumns([][]byte{{2, 0, 0, 0}, []byte("banana")}),
	}
	require.NoError(t, s.Store(rows, []int{0, 1}))

	it, err := s.Scan()
	require.NoError(t, err)
	items := drain(t, it)

	require.Len(t, items, 2)
	assert.Equal(t, storage.RowId(0), items[0].ID)
	assert.Equal(t, []byte("apple"), items[0].Row.GetColumn(1))
	assert.Equal(t, storage.RowId(1), items[1].ID)
	assert.Equal(t, []byte("banana"), items[1].Row.GetColumn(1))
}

func TestReopenValidatesHeaderArity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.rdbi")
	_, err := New(path, 3)
	require.NoError(t, err)

	_, err = New(path, 2)
	assert.Error(t, err)
}

func TestStoreAppliesInputToSchemaPermutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.rdbi")
	s, err := New(path, 2)
	require.NoError(t, err)

	r := row.OfColumns([][]byte{[]byte("banana"), {100, 0, 0, 0}})
	require.NoError(t, s.Store([]row.Row{r}, []int{1, 0}))

	it, err := s.Scan()
	require.NoError(t, err)
	items := drain(t, it)
	require.Len(t, items, 1)
	assert.Equal(t, []byte{100, 0, 0, 0}, items[0].Row.GetColumn(0))
	assert.Equal(t, []byte("banana"), items[0].Row.GetColumn(1))
}

func TestDeleteRowsTombstonesWithoutRenumbering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.rdbi")
	s, err := New(path, 1)
	require.NoError(t, err)

	rows := []row.Row{
		row.OfColumns([][]byte{[]byte("a")}),
		row.OfColumns([][]byte{[]byte("b")}),
		row.OfColumns([][]byte{[]byte("c")}),
	}
	require.NoError(t, s.Store(rows, []int{0}))
	require.NoError(t, s.DeleteRows([]storage.RowId{1}))

	it, err := s.Scan()
	require.NoError(t, err)
	items := drain(t, it)

	require.Len(t, items, 2)
	assert.Equal(t, storage.RowId(0), items[0].ID)
	assert.Equal(t, []byte("a"), items[0].Row.GetColumn(0))
	assert.Equal(t, storage.RowId(2), items[1].ID)
	assert.Equal(t, []byte("c"), items[1].Row.GetColumn(0))
}

func TestDeleteRowsOutOfRangeIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.rdbi")
	s, err := New(path, 1)
	require.NoError(t, err)

	require.NoError(t, s.Store([]row.Row{row.OfColumns([][]byte{[]byte("a")})}, []int{0}))
	require.NoError(t, s.DeleteRows([]storage.RowId{50}))

	it, err := s.Scan()
	require.NoError(t, err)
	items := drain(t, it)
	assert.Len(t, items, 1)
}

func TestDeleteAllLeavesEmptyScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.rdbi")
	s, err := New(path, 1)
	require.NoError(t, err)

	require.NoError(t, s.Store([]row.Row{
		row.OfColumns([][]byte{[]byte("a")}),
		row.OfColumns([][]byte{[]byte("b")}),
	}, []int{0}))

	require.NoError(t, s.DeleteRows([]storage.RowId{0, 1}))

	it, err := s.Scan()
	require.NoError(t, err)
	items := drain(t, it)
	assert.Empty(t, items)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.rdbi")
	s, err := New(path, 1)
	require.NoError(t, err)
	require.NoError(t, s.Store([]row.Row{row.OfColumns([][]byte{[]byte("persisted")})}, []int{0}))

	reopened, err := New(path, 1)
	require.NoError(t, err)

	it, err := reopened.Scan()
	require.NoError(t, err)
	items := drain(t, it)
	require.Len(t, items, 1)
	assert.Equal(t, []byte("persisted"), items[0].Row.GetColumn(0))
}
