package sqlite

import (
	"testing"
	"time"
)

func TestBindValue(t *testing.T) {
	t.Run("integers widen to int64", func(t *testing.T) {
		for _, v := range []any{int8(1), int16(1), int32(1), int64(1), int(1), uint8(1), uint16(1), uint32(1)} {
			dv, err := bindValue(v)
			if err != nil {
				t.Fatalf("bindValue(%T) error = %v", v, err)
			}
			if dv != int64(1) {
				t.Errorf("bindValue(%T) = %v (%T), want int64(1)", v, dv, dv)
			}
		}
	})

	t.Run("bool stores as 0 or 1", func(t *testing.T) {
		if dv, _ := bindValue(true); dv != int64(1) {
			t.Errorf("bindValue(true) = %v, want 1", dv)
		}
		if dv, _ := bindValue(false); dv != int64(0) {
			t.Errorf("bindValue(false) = %v, want 0", dv)
		}
	})

	t.Run("timestamp stores whole epoch seconds", func(t *testing.T) {
		ts := time.Date(2024, 5, 1, 12, 0, 0, 500_000_000, time.UTC)
		dv, err := bindValue(ts)
		if err != nil {
			t.Fatalf("bindValue(time) error = %v", err)
		}
		if dv != ts.Unix() {
			t.Errorf("bindValue(time) = %v, want %d", dv, ts.Unix())
		}
	})

	t.Run("byte slices are copied", func(t *testing.T) {
		src := []byte{1, 2, 3}
		dv, err := bindValue(src)
		if err != nil {
			t.Fatalf("bindValue([]byte) error = %v", err)
		}
		src[0] = 9
		if got := dv.([]byte); got[0] != 1 {
			t.Error("bindValue([]byte) aliases caller memory")
		}
	})

	t.Run("nil pointers bind NULL", func(t *testing.T) {
		for _, v := range []any{(*int64)(nil), (*string)(nil), (*time.Time)(nil), (*[]byte)(nil)} {
			dv, err := bindValue(v)
			if err != nil {
				t.Fatalf("bindValue(%T) error = %v", v, err)
			}
			if dv != nil {
				t.Errorf("bindValue(%T) = %v, want nil", v, dv)
			}
		}
	})

	t.Run("unsupported type is a bind error", func(t *testing.T) {
		_, err := bindValue(map[string]int{})
		if !IsBindError(err) {
			t.Errorf("bindValue(map) error = %v, want bind kind", err)
		}
	})
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int64
	}{
		{name: "int64 passes through", raw: int64(-7), want: -7},
		{name: "float truncates", raw: float64(3.9), want: 3},
		{name: "numeric text parses", raw: []byte("17"), want: 17},
		{name: "float text truncates", raw: []byte("2.5"), want: 2},
		{name: "non-numeric text is zero", raw: []byte("abc"), want: 0},
		{name: "bool true", raw: true, want: 1},
		{name: "time reads epoch seconds", raw: time.Unix(1714564800, 0), want: 1714564800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceInt(tt.raw); got != tt.want {
				t.Errorf("coerceInt(%v) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{name: "text passes through", raw: []byte("hello"), want: "hello"},
		{name: "integer formats", raw: int64(42), want: "42"},
		{name: "float formats", raw: float64(2.5), want: "2.5"},
		{name: "bool formats as digit", raw: true, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceString(tt.raw); got != tt.want {
				t.Errorf("coerceString(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestConvertValueTruncation(t *testing.T) {
	// Narrow integer targets truncate by plain conversion, mirroring the
	// engine's indifference to declared width.
	if got := convertValue[uint8](int64(300)); got != 44 {
		t.Errorf("convertValue[uint8](300) = %d, want 44", got)
	}
	if got := convertValue[int8](int64(-129)); got != 127 {
		t.Errorf("convertValue[int8](-129) = %d, want 127", got)
	}
}
