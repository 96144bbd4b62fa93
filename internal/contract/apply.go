package contract

import (
	"errors"
	"sort"

	"github.com/dlt-go/dlt/internal/metrics"
)

// Apply is the schema-contract engine's public contract (spec.md §4.C):
// decide, for one incoming item and its inferred table delta, whether to
// evolve the schema, discard the value or the whole row, or freeze and
// reject the change. It is total: every (mode, change kind) combination
// below produces exactly one of pass-through, (nil, nil), a trimmed pair,
// or a *FrozenError.
func Apply(mode Triple, tableName string, data map[string]any, delta *TableDelta, existingTable *Table) (map[string]any, *TableDelta, error) {
	if existingTable == nil {
		switch mode.Tables {
		case Evolve:
			// fall through to column-level checks below, against an empty
			// existing table: every column in delta counts as new.
		case DiscardRow, DiscardValue:
			return nil, nil, nil
		case Freeze:
			return nil, nil, &FrozenError{TableName: tableName, Slot: SlotTables, Change: NewTable}
		}
	}

	if delta == nil || len(delta.Columns) == 0 {
		return data, delta, nil
	}

	names := make([]string, 0, len(delta.Columns))
	for name := range delta.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	var discardRow bool
	toStrip := make(map[string]bool, len(names))

	for _, name := range names {
		col := delta.Columns[name]

		var outcome Mode
		var slot Slot
		var change ChangeKind

		switch {
		case col.Variant:
			// A variant is also a new column (spec.md §4.C, open question):
			// the stricter of the data_type and columns slots applies.
			outcome = stricter(mode.DataType, mode.Columns)
			slot, change = SlotDataType, NewVariant
			if mode.Columns.severity() > mode.DataType.severity() {
				slot = SlotColumns
			}
		case !existingTable.HasCompleteColumn(name):
			outcome, slot, change = mode.Columns, SlotColumns, NewColumn
		default:
			continue // column already present and complete: no change here
		}

		switch outcome {
		case Evolve:
			continue
		case DiscardValue:
			toStrip[name] = true
		case DiscardRow:
			discardRow = true
		case Freeze:
			return nil, nil, &FrozenError{TableName: tableName, ColumnName: name, Slot: slot, Change: change}
		}
	}

	if discardRow {
		return nil, nil, nil
	}
	if len(toStrip) == 0 {
		return data, delta, nil
	}

	trimmedData := make(map[string]any, len(data))
	for k, v := range data {
		if !toStrip[k] {
			trimmedData[k] = v
		}
	}
	trimmedDelta := delta.Clone()
	for name := range toStrip {
		delete(trimmedDelta.Columns, name)
	}
	return trimmedData, trimmedDelta, nil
}

// ApplyWithMetrics wraps Apply, additionally recording exactly one
// ContractDecisions counter increment per call: a freeze is labelled with
// the FrozenError's slot and change kind; any other result is labelled
// slot "columns", change kind "applied", and outcome evolve, discard_row or
// discard_value. m may be nil, in which case this behaves exactly like Apply.
func ApplyWithMetrics(m *metrics.Metrics, mode Triple, tableName string, data map[string]any, delta *TableDelta, existingTable *Table) (map[string]any, *TableDelta, error) {
	result, resultDelta, err := Apply(mode, tableName, data, delta, existingTable)
	if m == nil {
		return result, resultDelta, err
	}

	var frozen *FrozenError
	if errors.As(err, &frozen) {
		m.ContractDecisions.WithLabelValues(string(frozen.Slot), string(frozen.Change), string(Freeze)).Inc()
		return result, resultDelta, err
	}

	outcome := "evolve"
	switch {
	case result == nil && resultDelta == nil && (delta != nil && len(delta.Columns) > 0 || existingTable == nil):
		outcome = string(DiscardRow)
	case resultDelta != nil && delta != nil && len(resultDelta.Columns) < len(delta.Columns):
		outcome = string(DiscardValue)
	}
	m.ContractDecisions.WithLabelValues(string(SlotColumns), "applied", outcome).Inc()
	return result, resultDelta, err
}
