package entity

import (
	"encoding/json"
	"fmt"
)

// Row is one record laid out by column. Values are typed by column:
//
//	ColumnText    string
//	ColumnInteger int64
//	ColumnReal    float64
//	ColumnBool    bool
//	ColumnJSON    json.RawMessage
//
// A nil value is SQL NULL. Table drivers translate these to their native
// representations.
type Row map[string]any

// ID returns the row's primary key.
func (r Row) ID() string {
	id, _ := r[IDColumn].(string)
	return id
}

// ToRow lays out a record according to the kind's columns. Columns the
// record omits are nil.
func ToRow(info KindInfo, item any) (Row, error) {
	fields, err := Fields(item)
	if err != nil {
		return nil, fmt.Errorf("to row %s: %w", info.Kind, err)
	}
	row := make(Row, len(info.Columns))
	for _, c := range info.Columns {
		v, err := columnValue(c, fields[c.Name])
		if err != nil {
			return nil, fmt.Errorf("to row %s: %w", info.Kind, err)
		}
		row[c.Name] = v
	}
	for name := range fields {
		if _, ok := info.Column(name); !ok {
			return nil, fmt.Errorf("to row %s: field %q has no column", info.Kind, name)
		}
	}
	return row, nil
}

// CheckPatch reports an error if patch names a field that kind does not
// have.
func CheckPatch(info KindInfo, patch Patch) error {
	for name := range patch {
		if _, ok := info.Column(name); !ok {
			return fmt.Errorf("patch %s: field %q has no column", info.Kind, name)
		}
	}
	return nil
}

// PatchRow converts a patch into column values. Only the named columns are
// present in the result.
func PatchRow(info KindInfo, patch Patch) (Row, error) {
	if err := CheckPatch(info, patch); err != nil {
		return nil, err
	}
	// Round-trip so native Go values (int, []string, ...) normalize the same
	// way record fields do.
	fields, err := Fields(map[string]any(patch))
	if err != nil {
		return nil, fmt.Errorf("patch row %s: %w", info.Kind, err)
	}
	row := make(Row, len(fields))
	for name, v := range fields {
		c, ok := info.Column(name)
		if !ok {
			return nil, fmt.Errorf("patch row %s: field %q has no column", info.Kind, name)
		}
		cv, err := columnValue(c, v)
		if err != nil {
			return nil, fmt.Errorf("patch row %s: %w", info.Kind, err)
		}
		row[name] = cv
	}
	return row, nil
}

// FromRow decodes a row back into a record. Nil columns are left at their
// zero value.
func FromRow[T any](info KindInfo, row Row) (T, error) {
	fields := make(map[string]any, len(row))
	for _, c := range info.Columns {
		v, ok := row[c.Name]
		if !ok || v == nil {
			continue
		}
		fields[c.Name] = v
	}
	out, err := FromFields[T](fields)
	if err != nil {
		return out, fmt.Errorf("from row %s: %w", info.Kind, err)
	}
	return out, nil
}

func columnValue(c Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Type {
	case ColumnText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("column %q: want string, got %T", c.Name, v)
		}
		return s, nil
	case ColumnInteger:
		n, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("column %q: want number, got %T", c.Name, v)
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		return i, nil
	case ColumnReal:
		n, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("column %q: want number, got %T", c.Name, v)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		return f, nil
	case ColumnBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("column %q: want bool, got %T", c.Name, v)
		}
		return b, nil
	case ColumnJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		return json.RawMessage(data), nil
	default:
		return nil, fmt.Errorf("column %q: unknown type %s", c.Name, c.Type)
	}
}
