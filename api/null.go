package api

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NullInt is an optional integer that accepts JSON numbers, numeric strings,
// null and "" (the last two meaning "no value").
type NullInt struct {
	Int   int64
	Valid bool
}

// IntOf returns a valid NullInt.
func IntOf(v int64) NullInt { return NullInt{Int: v, Valid: true} }

func (n *NullInt) UnmarshalJSON(b []byte) error {
	raw, empty, err := unquoteNumber(b)
	if err != nil {
		return err
	}
	if empty {
		*n = NullInt{}
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("invalid integer %q", raw)
		}
		v = int64(f)
	}
	*n = IntOf(v)
	return nil
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.Int, 10)), nil
}

// Value lets the validator and database drivers see through the wrapper.
func (n NullInt) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Int, nil
}

// UintPtr converts to an optional foreign key.
func (n NullInt) UintPtr() *uint {
	if !n.Valid || n.Int <= 0 {
		return nil
	}
	v := uint(n.Int)
	return &v
}

// IntPtr converts to an optional int column.
func (n NullInt) IntPtr() *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int)
	return &v
}

// NullFloat is the float counterpart of NullInt.
type NullFloat struct {
	Float float64
	Valid bool
}

// FloatOf returns a valid NullFloat.
func FloatOf(v float64) NullFloat { return NullFloat{Float: v, Valid: true} }

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	raw, empty, err := unquoteNumber(b)
	if err != nil {
		return err
	}
	if empty {
		*n = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}
	*n = FloatOf(v)
	return nil
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Float, 'f', -1, 64)), nil
}

func (n NullFloat) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Float, nil
}

// Ptr converts to an optional float column.
func (n NullFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float
	return &v
}

// unquoteNumber strips JSON quotes around a number and reports null/blank input.
func unquoteNumber(b []byte) (raw string, empty bool, err error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", true, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false, err
		}
		s = strings.TrimSpace(s)
		return s, s == "", nil
	}
	return string(b), false, nil
}
