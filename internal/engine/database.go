// Package engine is the query executor: the Database façade that owns
// one schema and one storage backend per table, and drives insert,
// select, and delete through schema validation, predicate evaluation,
// and the storage capability contract.
package engine

import (
	"errors"

	"rdbi/internal/dtype"
	"rdbi/internal/predicate"
	"rdbi/internal/row"
	"rdbi/internal/schema"
	"rdbi/internal/storage"
)

// Database is the public façade. It is not safe for concurrent use,
// matching the single-threaded, non-transactional contract the whole
// engine is built to.
type Database struct {
	schemas  map[string]schema.Table
	backends map[string]storage.Backend
}

// New returns an empty Database with no tables.
func New() *Database {
	return &Database{
		schemas:  make(map[string]schema.Table),
		backends: make(map[string]storage.Backend),
	}
}

// NewTable registers a table under name with the given columns and
// provisions storage per cfg. The table transitions Absent -> Present;
// there is no drop-table operation.
func (d *Database) NewTable(name string, columns []schema.Column, cfg StorageConfig) error {
	if len(columns) == 0 {
		return &EmptyTableSchemaError{Name: name}
	}
	if _, exists := d.schemas[name]; exists {
		return &TableAlreadyExistsError{Name: name}
	}
	if _, exists := d.backends[name]; exists {
		return &TableAlreadyExistsError{Name: name}
	}

	backend, err := cfg.build(len(columns))
	if err != nil {
		return err
	}

	d.schemas[name] = schema.New(name, columns)
	d.backends[name] = backend
	return nil
}

// SchemaFor returns the registered schema for name, if present.
func (d *Database) SchemaFor(name string) (schema.Table, bool) {
	t, ok := d.schemas[name]
	return t, ok
}

func (d *Database) lookup(name string) (schema.Table, storage.Backend, error) {
	t, ok := d.schemas[name]
	if !ok {
		return schema.Table{}, nil, &TableNotFoundError{Name: name}
	}
	return t, d.backends[name], nil
}

// Insert validates every row against table's schema before appending any
// of them: if any row fails validation, nothing is stored. columnNames
// gives the column order the caller's rows are laid out in; it need not
// match schema order. Returns the number of rows inserted.
func (d *Database) Insert(table string, columnNames []string, rows []row.Row) (int, error) {
	t, backend, err := d.lookup(table)
	if err != nil {
		return 0, err
	}

	schemaToInput, err := t.ProjectRequired(columnNames)
	if err != nil {
		return 0, err
	}

	for _, r := range rows {
		if err := t.ValidateInput(r, schemaToInput); err != nil {
			return 0, err
		}
	}

	if err := backend.Store(rows, schemaToInput); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Select evaluates filter against every live row of table, and for each
// match projects the columns named in projection (in projection order,
// not schema order) into a new self-contained Row. Every projection
// Value must be a ColumnRef.
func (d *Database) Select(table string, projection []predicate.Value, filter predicate.Bool) ([]row.Row, error) {
	t, backend, err := d.lookup(table)
	if err != nil {
		return nil, err
	}

	projectionNames := make([]string, len(projection))
	for i, v := range projection {
		name, ok := v.ColumnName()
		if !ok {
			return nil, &UnsupportedOperationError{Msg: "projection must reference columns"}
		}
		projectionNames[i] = name
	}
	projectionIdxs, err := t.ProjectOptional(projectionNames)
	if err != nil {
		return nil, err
	}

	if _, err := t.ProjectOptional(predicate.CollectFilterColumns(filter)); err != nil {
		return nil, err
	}

	it, err := backend.Scan()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []row.Row
	for {
		item, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		matched, err := predicate.Evaluate(filter, resolver(t, table, item))
		if err != nil {
			return nil, wrapEvalErr(err)
		}
		if !matched {
			continue
		}

		cols := make([][]byte, len(projectionIdxs))
		for i, idx := range projectionIdxs {
			cols[i] = append([]byte(nil), item.Row.GetColumn(idx)...)
		}
		out = append(out, row.OfColumns(cols))
	}
	return out, nil
}

// Delete evaluates filter against every live row of table and removes
// every match in one call to the backend. Returns the number removed.
func (d *Database) Delete(table string, filter predicate.Bool) (int, error) {
	t, backend, err := d.lookup(table)
	if err != nil {
		return 0, err
	}

	if _, err := t.ProjectOptional(predicate.CollectFilterColumns(filter)); err != nil {
		return 0, err
	}

	it, err := backend.Scan()
	if err != nil {
		return 0, err
	}
	defer it.Close()

	var ids []storage.RowId
	for {
		item, ok, err := it.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}

		matched, err := predicate.Evaluate(filter, resolver(t, table, item))
		if err != nil {
			return 0, wrapEvalErr(err)
		}
		if matched {
			ids = append(ids, item.ID)
		}
	}

	if err := backend.DeleteRows(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// wrapEvalErr classifies an error predicate.Evaluate returned: an
// IntegrityError (raised inside resolver, below) passes through as-is,
// since it is already the error the caller should see; anything else —
// in practice a dtype.TypeMismatchError from a comparison operator — is
// a query-shape problem the caller supplied, wrapped as QueryError.
func wrapEvalErr(err error) error {
	var integrity *IntegrityError
	if errors.As(err, &integrity) {
		return err
	}
	return &QueryError{Err: err}
}

// resolver binds a schema and one scan item into the predicate.Resolve
// callback Evaluate needs: ColumnRef("x") looks x up in t, decodes its
// slice of item.Row, and wraps a decode failure into an IntegrityError
// naming the offending table/row/column/dtype.
func resolver(t schema.Table, tableName string, item storage.ScanItem) predicate.Resolve {
	return func(column string) (dtype.ColumnValue, error) {
		idx, col, err := t.RequireColumn(column)
		if err != nil {
			return dtype.ColumnValue{}, err
		}
		v, err := dtype.Canonical(col.DType, item.Row.GetColumn(idx))
		if err != nil {
			return dtype.ColumnValue{}, &IntegrityError{
				Table:  tableName,
				RowId:  uint64(item.ID),
				Column: column,
				DType:  col.DType,
			}
		}
		return v, nil
	}
}
