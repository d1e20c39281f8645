package sqlite

import (
	"database/sql/driver"
	"strconv"
	"time"
)

// Value is the closed set of application types this package marshals to
// and from the engine's dynamic value domain.
//
// Timestamps are stored as whole epoch seconds; sub-second precision is
// truncated on bind and absent on extraction.
type Value interface {
	int8 | int16 | int32 | int64 | int |
		uint8 | uint16 | uint32 |
		float64 | bool | string | []byte | time.Time
}

// bindValue converts an application value into the engine's dynamic
// representation. nil and nil typed pointers become SQL NULL; pointers to
// supported types bind their pointee. []byte is copied so the statement
// owns independent storage (BindBlob offers the non-copying variant).
func bindValue(v any) (driver.Value, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		return v, nil
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		return buf, nil
	case time.Time:
		return v.Unix(), nil
	case *int8:
		return bindPtr(v)
	case *int16:
		return bindPtr(v)
	case *int32:
		return bindPtr(v)
	case *int64:
		return bindPtr(v)
	case *int:
		return bindPtr(v)
	case *uint8:
		return bindPtr(v)
	case *uint16:
		return bindPtr(v)
	case *uint32:
		return bindPtr(v)
	case *float64:
		return bindPtr(v)
	case *bool:
		return bindPtr(v)
	case *string:
		return bindPtr(v)
	case *[]byte:
		return bindPtr(v)
	case *time.Time:
		return bindPtr(v)
	default:
		return nil, bindError("unsupported bind type %T", v)
	}
}

// bindPtr resolves a nullable pointer: nil binds NULL, otherwise the
// pointee binds by value.
func bindPtr[T Value](p *T) (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return bindValue(*p)
}

// Column extracts column index (0-based) of the statement's current row as
// T, applying the engine's weak-typing coercion rules. A NULL column reads
// as the zero value of T; use NullColumn to distinguish NULL.
//
// Calling Column without a current row, or with an out-of-range index, is
// a programming error and panics.
func Column[T Value](s *Stmt, index int) T {
	var zero T
	raw := s.columnRaw(index)
	if raw == nil {
		return zero
	}
	return convertValue[T](raw)
}

// NullColumn extracts column index (0-based) of the current row as *T,
// returning nil when the column is NULL. Preconditions match Column.
func NullColumn[T Value](s *Stmt, index int) *T {
	raw := s.columnRaw(index)
	if raw == nil {
		return nil
	}
	v := convertValue[T](raw)
	return &v
}

// convertValue coerces a non-NULL engine value into T.
func convertValue[T Value](raw driver.Value) T {
	var out T
	switch p := any(&out).(type) {
	case *int8:
		*p = int8(coerceInt(raw))
	case *int16:
		*p = int16(coerceInt(raw))
	case *int32:
		*p = int32(coerceInt(raw))
	case *int64:
		*p = coerceInt(raw)
	case *int:
		*p = int(coerceInt(raw))
	case *uint8:
		*p = uint8(coerceInt(raw))
	case *uint16:
		*p = uint16(coerceInt(raw))
	case *uint32:
		*p = uint32(coerceInt(raw))
	case *float64:
		*p = coerceFloat(raw)
	case *bool:
		*p = coerceInt(raw) != 0
	case *string:
		*p = coerceString(raw)
	case *[]byte:
		*p = coerceBlob(raw)
	case *time.Time:
		*p = time.Unix(coerceInt(raw), 0)
	}
	return out
}

// coerceInt reads an engine value as int64. Text that does not parse as a
// number reads as 0, matching the engine's weak typing. Floats truncate.
func coerceInt(raw driver.Value) int64 {
	switch v := raw.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	case time.Time:
		return v.Unix()
	default:
		return 0
	}
}

// coerceFloat reads an engine value as float64, with the same text
// behaviour as coerceInt.
func coerceFloat(raw driver.Value) float64 {
	switch v := raw.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	case time.Time:
		return float64(v.Unix())
	default:
		return 0
	}
}

// coerceString reads an engine value as text; numeric values format the
// way the engine would render them.
func coerceString(raw driver.Value) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return strconv.FormatInt(v.Unix(), 10)
	default:
		return ""
	}
}

// coerceBlob reads an engine value as binary, copying so the result stays
// valid after the cursor advances.
func coerceBlob(raw driver.Value) []byte {
	switch v := raw.(type) {
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		return buf
	case string:
		return []byte(v)
	default:
		return []byte(coerceString(raw))
	}
}

func parseInt(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return 0
}
