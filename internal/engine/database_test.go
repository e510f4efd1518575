package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdbi/internal/dtype"
	"rdbi/internal/predicate"
	"rdbi/internal/row"
	"rdbi/internal/schema"
)

func fruitsSchema() []schema.Column {
	return []schema.Column{
		{Name: "id", DType: dtype.U32()},
		{Name: "name", DType: dtype.Utf8(20)},
	}
}

func u32Bytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func seedFruits(t *testing.T, db *Database) {
	t.Helper()
	require.NoError(t, db.NewTable("Fruits", fruitsSchema(), InMemoryStorage()))
	rows := []row.Row{
		row.OfColumns([][]byte{u32Bytes(100), []byte("apple")}),
		row.OfColumns([][]byte{u32Bytes(200), []byte("banana")}),
		row.OfColumns([][]byte{u32Bytes(300), []byte("banana")}),
		row.OfColumns([][]byte{u32Bytes(400), []byte("cherry")}),
	}
	n, err := db.Insert("Fruits", []string{"id", "name"}, rows)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestFruitsRoundTrip(t *testing.T) {
	db := New()
	seedFruits(t, db)

	all, err := db.Select("Fruits", []predicate.Value{predicate.ColumnRef("id"), predicate.ColumnRef("name")}, predicate.True())
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []byte("apple"), all[0].GetColumn(1))
	assert.Equal(t, []byte("cherry"), all[3].GetColumn(1))

	bananas, err := db.Select("Fruits",
		[]predicate.Value{predicate.ColumnRef("id"), predicate.ColumnRef("name")},
		predicate.Eq(predicate.ColumnRef("name"), predicate.Const(dtype.Utf8Value("banana"))))
	require.NoError(t, err)
	require.Len(t, bananas, 2)
	assert.Equal(t, u32Bytes(200), bananas[0].GetColumn(0))
	assert.Equal(t, u32Bytes(300), bananas[1].GetColumn(0))

	overTwoHundred, err := db.Select("Fruits",
		[]predicate.Value{predicate.ColumnRef("id"), predicate.ColumnRef("name")},
		predicate.Gt(predicate.ColumnRef("id"), predicate.Const(dtype.U32Value(200))))
	require.NoError(t, err)
	require.Len(t, overTwoHundred, 2)
	assert.Equal(t, []byte("banana"), overTwoHundred[0].GetColumn(1))
	assert.Equal(t, []byte("cherry"), overTwoHundred[1].GetColumn(1))

	underTwoHundred, err := db.Select("Fruits",
		[]predicate.Value{predicate.ColumnRef("name")},
		predicate.Lt(predicate.ColumnRef("id"), predicate.Const(dtype.U32Value(200))))
	require.NoError(t, err)
	require.Len(t, underTwoHundred, 1)
	assert.Equal(t, []byte("apple"), underTwoHundred[0].GetColumn(0))
}

func TestDeleteByPredicate(t *testing.T) {
	db := New()
	seedFruits(t, db)

	removed, err := db.Delete("Fruits", predicate.Gt(predicate.ColumnRef("id"), predicate.Const(dtype.U32Value(200))))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := db.Select("Fruits", []predicate.Value{predicate.ColumnRef("id"), predicate.ColumnRef("name")}, predicate.True())
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, []byte("apple"), remaining[0].GetColumn(1))
	assert.Equal(t, []byte("banana"), remaining[1].GetColumn(1))
}

func TestTypeMismatchSurfacesAsQueryError(t *testing.T) {
	db := New()
	seedFruits(t, db)

	_, err := db.Select("Fruits",
		[]predicate.Value{predicate.ColumnRef("name")},
		predicate.Gt(predicate.ColumnRef("name"), predicate.Const(dtype.Utf8Value("banana"))))
	require.Error(t, err)
	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	var mismatch *dtype.TypeMismatchError
	assert.ErrorAs(t, qerr.Err, &mismatch)
	assert.Equal(t, "gt", mismatch.Op)
}

func TestInsertReverseColumnOrder(t *testing.T) {
	db := New()
	require.NoError(t, db.NewTable("Fruits", fruitsSchema(), InMemoryStorage()))

	r := row.OfColumns([][]byte{[]byte("apple"), u32Bytes(100)})
	n, err := db.Insert("Fruits", []string{"name", "id"}, []row.Row{r})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := db.Select("Fruits", []predicate.Value{predicate.ColumnRef("id"), predicate.ColumnRef("name")}, predicate.True())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, u32Bytes(100), rows[0].GetColumn(0))
	assert.Equal(t, []byte("apple"), rows[0].GetColumn(1))
}

func TestInsertRowSizeBoundaryScenario(t *testing.T) {
	db := New()
	require.NoError(t, db.NewTable("Fruits", fruitsSchema(), InMemoryStorage()))

	tooLongName := make([]byte, 21)
	for i := range tooLongName {
		tooLongName[i] = 'a'
	}
	bad := row.OfColumns([][]byte{u32Bytes(1), tooLongName})

	_, err := db.Insert("Fruits", []string{"id", "name"}, []row.Row{bad})
	require.Error(t, err)
	var exceeded *schema.RowSizeExceededError
	assert.ErrorAs(t, err, &exceeded)

	rows, err := db.Select("Fruits", []predicate.Value{predicate.ColumnRef("id")}, predicate.True())
	require.NoError(t, err)
	assert.Empty(t, rows, "all-or-nothing insert must not have stored the bad row")
}

func TestInsertAllOrNothing(t *testing.T) {
	db := New()
	require.NoError(t, db.NewTable("Fruits", fruitsSchema(), InMemoryStorage()))

	tooLongName := make([]byte, 21)
	rows := []row.Row{
		row.OfColumns([][]byte{u32Bytes(1), []byte("ok")}),
		row.OfColumns([][]byte{u32Bytes(2), tooLongName}),
	}
	_, err := db.Insert("Fruits", []string{"id", "name"}, rows)
	require.Error(t, err)

	all, err := db.Select("Fruits", []predicate.Value{predicate.ColumnRef("id")}, predicate.True())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewTableRejectsEmptySchemaAndDuplicateName(t *testing.T) {
	db := New()
	err := db.NewTable("Empty", nil, InMemoryStorage())
	var empty *EmptyTableSchemaError
	assert.ErrorAs(t, err, &empty)

	require.NoError(t, db.NewTable("Fruits", fruitsSchema(), InMemoryStorage()))
	err = db.NewTable("Fruits", fruitsSchema(), InMemoryStorage())
	var exists *TableAlreadyExistsError
	assert.ErrorAs(t, err, &exists)
}

func TestOperationsOnMissingTable(t *testing.T) {
	db := New()
	_, err := db.Insert("Ghost", []string{"id"}, nil)
	var notFound *TableNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = db.Select("Ghost", nil, predicate.True())
	assert.ErrorAs(t, err, &notFound)

	_, err = db.Delete("Ghost", predicate.True())
	assert.ErrorAs(t, err, &notFound)
}

func TestProjectionMustReferenceColumns(t *testing.T) {
	db := New()
	seedFruits(t, db)

	_, err := db.Select("Fruits", []predicate.Value{predicate.Const(dtype.U32Value(1))}, predicate.True())
	var unsupported *UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestBackendEquivalenceMemstoreAndFilestore(t *testing.T) {
	mem := New()
	require.NoError(t, mem.NewTable("Fruits", fruitsSchema(), InMemoryStorage()))

	disk := New()
	require.NoError(t, disk.NewTable("Fruits", fruitsSchema(), DiskStorage(filepath.Join(t.TempDir(), "fruits.rdbi"))))

	rows := []row.Row{
		row.OfColumns([][]byte{u32Bytes(100), []byte("apple")}),
		row.OfColumns([][]byte{u32Bytes(200), []byte("banana")}),
		row.OfColumns([][]byte{u32Bytes(300), []byte("banana")}),
	}
	_, err := mem.Insert("Fruits", []string{"id", "name"}, rows)
	require.NoError(t, err)
	_, err = disk.Insert("Fruits", []string{"id", "name"}, rows)
	require.NoError(t, err)

	filter := predicate.Eq(predicate.ColumnRef("name"), predicate.Const(dtype.Utf8Value("banana")))
	memRows, err := mem.Select("Fruits", []predicate.Value{predicate.ColumnRef("id")}, filter)
	require.NoError(t, err)
	diskRows, err := disk.Select("Fruits", []predicate.Value{predicate.ColumnRef("id")}, filter)
	require.NoError(t, err)

	require.Len(t, diskRows, len(memRows))
	for i := range memRows {
		assert.Equal(t, memRows[i].GetColumn(0), diskRows[i].GetColumn(0))
	}
}
