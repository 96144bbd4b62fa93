package contract

// Column is one column of a table. A column without a concrete DataType is
// incomplete and behaves as "not yet present" for contract purposes
// (spec.md §3, "A column is complete iff it has a concrete data_type").
type Column struct {
	DataType string
	Variant  bool
}

// Complete reports whether this column has a concrete data type.
func (c Column) Complete() bool { return c.DataType != "" }

// Table is a named collection of columns, optionally nested under a parent
// table, with an optional per-table contract override.
type Table struct {
	Name     string
	Parent   string
	Columns  map[string]Column
	Contract *Setting
}

// HasCompleteColumn reports whether name exists in the table as a complete
// column.
func (t *Table) HasCompleteColumn(name string) bool {
	if t == nil {
		return false
	}
	col, ok := t.Columns[name]
	return ok && col.Complete()
}

// Schema is a named collection of tables plus the schema-wide contract
// override overlaid on top of the all-evolve default.
type Schema struct {
	Name     string
	Tables   map[string]*Table
	Contract *Setting
}

// NewSchema builds an empty schema.
func NewSchema(name string) *Schema {
	return &Schema{Name: name, Tables: map[string]*Table{}}
}

// Table looks up a table by name, returning nil if it does not exist yet
// (the "new table" change kind).
func (s *Schema) Table(name string) *Table {
	return s.Tables[name]
}

// TableDelta is the set of columns a resource's declared hints and an
// incoming item together infer for a table, keyed by column name.
type TableDelta struct {
	TableName string
	Columns   map[string]Column
}

// Clone returns a deep-enough copy of the delta's column map so Apply can
// trim entries without mutating the caller's original delta.
func (d *TableDelta) Clone() *TableDelta {
	if d == nil {
		return nil
	}
	cols := make(map[string]Column, len(d.Columns))
	for k, v := range d.Columns {
		cols[k] = v
	}
	return &TableDelta{TableName: d.TableName, Columns: cols}
}
