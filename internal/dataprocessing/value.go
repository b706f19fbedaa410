package dataprocessing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// Value is a normalized cell value. The zero Value is empty and serialises
// as the empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
}

// EmptyValue returns the empty value
func EmptyValue() Value { return Value{} }

// StringValue wraps text verbatim
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a floating point number
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// BoolValue wraps a boolean
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// DateValue wraps a point in time
func DateValue(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Kind reports the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the empty value
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Number returns the numeric payload and whether v is a number
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Bool returns the boolean payload and whether v is a boolean
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the date payload and whether v is a date
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDate }

// String renders the natural text form: numbers without trailing zeros,
// booleans as true/false and dates in RFC 3339.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return json.Marshal(v.String())
	}
}

// UnmarshalJSON implements json.Unmarshaler. null and "" decode to the
// empty value; objects and arrays are kept as compact JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case 'n':
		*v = EmptyValue()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*v = EmptyValue()
		} else {
			*v = StringValue(s)
		}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = StringValue(buf.String())
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid JSON number %s: %w", data, err)
		}
		*v = NumberValue(f)
	}
	return nil
}
