package contract

// ResolveSettingsForTable computes the effective contract triple for table,
// following the strict hierarchy from spec.md §4.C: schema-wide default,
// then the schema's own override, then the parent table's override (if
// any), then the table's own override. Each overlay only touches the slots
// it names; an atom override touches all three.
func ResolveSettingsForTable(schema *Schema, parent, table *Table) Triple {
	t := DefaultTriple()
	if schema != nil {
		t = overlay(t, schema.Contract)
	}
	if parent != nil {
		t = overlay(t, parent.Contract)
	}
	if table != nil {
		t = overlay(t, table.Contract)
	}
	return t
}
