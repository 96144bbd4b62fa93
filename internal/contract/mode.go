// Package contract implements the schema-contract engine (spec.md §4.C): a
// total, deterministic function from (contract mode, kind of schema change)
// to an outcome of evolve, discard the row, discard just the value, or
// freeze and reject the change.
package contract

import "fmt"

// Mode is one contract-mode atom.
type Mode string

const (
	Evolve       Mode = "evolve"
	DiscardRow   Mode = "discard_row"
	DiscardValue Mode = "discard_value"
	Freeze       Mode = "freeze"
)

func (m Mode) valid() bool {
	switch m {
	case Evolve, DiscardRow, DiscardValue, Freeze:
		return true
	}
	return false
}

// severity ranks modes from least to most strict, so the engine can pick
// the strictest outcome when several change kinds apply to the same
// record (spec.md §4.C, "the strictest outcome wins").
func (m Mode) severity() int {
	switch m {
	case Evolve:
		return 0
	case DiscardValue:
		return 1
	case DiscardRow:
		return 2
	case Freeze:
		return 3
	}
	return -1
}

func stricter(a, b Mode) Mode {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// Triple is a fully-specified contract mode: one setting per slot.
type Triple struct {
	Tables   Mode
	Columns  Mode
	DataType Mode
}

// DefaultTriple is the schema-wide default before any overrides are
// overlaid: evolve on every slot.
func DefaultTriple() Triple {
	return Triple{Tables: Evolve, Columns: Evolve, DataType: Evolve}
}

// Setting is a partial or atom contract-mode override: any slot left nil
// defers to whatever it overlays. An atom override (spec.md §4.C / §6) sets
// every slot; a partial mapping sets only the slots it names.
type Setting struct {
	Tables   *Mode
	Columns  *Mode
	DataType *Mode
}

// Atom builds a Setting that overrides every slot to the same mode.
func Atom(m Mode) *Setting {
	return &Setting{Tables: &m, Columns: &m, DataType: &m}
}

// Partial builds a Setting overriding only the named slots; pass nil for a
// slot to leave it un-overridden at this level.
func Partial(tables, columns, dataType *Mode) *Setting {
	return &Setting{Tables: tables, Columns: columns, DataType: dataType}
}

// overlay applies setting on top of base, slot by slot; a nil setting or a
// nil slot within it leaves base's value for that slot untouched.
func overlay(base Triple, setting *Setting) Triple {
	if setting == nil {
		return base
	}
	out := base
	if setting.Tables != nil {
		out.Tables = *setting.Tables
	}
	if setting.Columns != nil {
		out.Columns = *setting.Columns
	}
	if setting.DataType != nil {
		out.DataType = *setting.DataType
	}
	return out
}

// ParseSetting decodes the wire form described in spec.md §6: either an
// atom string, or a map with optional "tables"/"columns"/"data_type" keys
// each carrying an atom string.
func ParseSetting(raw any) (*Setting, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		m := Mode(v)
		if !m.valid() {
			return nil, fmt.Errorf("contract: invalid mode atom %q", v)
		}
		return Atom(m), nil
	case map[string]any:
		s := &Setting{}
		for _, slot := range []struct {
			key string
			dst **Mode
		}{
			{"tables", &s.Tables},
			{"columns", &s.Columns},
			{"data_type", &s.DataType},
		} {
			raw, ok := v[slot.key]
			if !ok {
				continue
			}
			str, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("contract: slot %q must be a string atom", slot.key)
			}
			m := Mode(str)
			if !m.valid() {
				return nil, fmt.Errorf("contract: invalid mode atom %q for slot %q", str, slot.key)
			}
			*slot.dst = &m
		}
		return s, nil
	default:
		return nil, fmt.Errorf("contract: unsupported contract-mode representation %T", raw)
	}
}
