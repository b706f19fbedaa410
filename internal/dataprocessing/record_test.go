package dataprocessing

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"empty", EmptyValue(), ""},
		{"text", StringValue("north"), "north"},
		{"integral number", NumberValue(25), "25"},
		{"fraction", NumberValue(0.25), "0.25"},
		{"negative", NumberValue(-3.5), "-3.5"},
		{"large number", NumberValue(1e21), "1000000000000000000000"},
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"date", DateValue(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)), "2024-01-15T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"empty is empty string", EmptyValue(), `""`},
		{"text", StringValue(`say "hi"`), `"say \"hi\""`},
		{"number", NumberValue(25), `25`},
		{"fraction", NumberValue(0.125), `0.125`},
		{"NaN", NumberValue(math.NaN()), `null`},
		{"infinity", NumberValue(math.Inf(1)), `null`},
		{"bool", BoolValue(true), `true`},
		{"date", DateValue(time.Date(2023, 6, 30, 12, 0, 0, 0, time.UTC)), `"2023-06-30T12:00:00Z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"null", `null`, EmptyValue()},
		{"empty string", `""`, EmptyValue()},
		{"string", `"East"`, StringValue("East")},
		{"number", `12.5`, NumberValue(12.5)},
		{"exponent", `1e3`, NumberValue(1000)},
		{"bool", `false`, BoolValue(false)},
		{"array kept as text", `[1, 2]`, StringValue("[1,2]")},
		{"object kept as text", `{"a": 1}`, StringValue(`{"a":1}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.True(t, tt.want.Equal(v), "want %v (%s), got %v (%s)", tt.want, tt.want.Kind(), v, v.Kind())
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	f, ok := NumberValue(4).Number()
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	_, ok = StringValue("4").Number()
	assert.False(t, ok)

	b, ok := BoolValue(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	when := time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)
	got, ok := DateValue(when).Time()
	assert.True(t, ok)
	assert.True(t, when.Equal(got))

	assert.True(t, Value{}.IsEmpty())
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "empty", KindEmpty.String())
}

func TestRecord_SetKeepsFirstPosition(t *testing.T) {
	r := NewRecord(3)
	r.Set("Region", StringValue("North"))
	r.Set("Sales", NumberValue(10))
	r.Set("Region", StringValue("South"))

	assert.Equal(t, []string{"Region", "Sales"}, r.Keys())
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get("Region")
	require.True(t, ok)
	assert.Equal(t, "South", v.String())

	_, ok = r.Get("Missing")
	assert.False(t, ok)
}

func TestRecord_ZeroValueIsUsable(t *testing.T) {
	var r Record
	r.Set("a", NumberValue(1))
	assert.Equal(t, []string{"a"}, r.Keys())
}

func TestRecord_MarshalJSONPreservesOrder(t *testing.T) {
	r := RecordOf(
		Field{"Zeta", StringValue("z")},
		Field{"Alpha", NumberValue(1)},
		Field{"Mid", BoolValue(true)},
		Field{"Blank", EmptyValue()},
	)

	got, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":"z","Alpha":1,"Mid":true,"Blank":""}`, string(got))
}

func TestRecord_UnmarshalJSONPreservesOrder(t *testing.T) {
	var records []Record
	err := json.Unmarshal([]byte(`[{"month":"Jan","west":"5","east":3},{"month":"Feb","west":null,"east":4.5}]`), &records)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"month", "west", "east"}, records[0].Keys())

	east, ok := records[1].Get("east")
	require.True(t, ok)
	assert.True(t, NumberValue(4.5).Equal(east))

	west, _ := records[1].Get("west")
	assert.True(t, west.IsEmpty())
}

func TestRecord_UnmarshalJSONRejectsNonObjects(t *testing.T) {
	var r Record
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &r))
}

func TestRecord_Equal(t *testing.T) {
	a := RecordOf(Field{"x", NumberValue(1)}, Field{"y", StringValue("b")})
	b := RecordOf(Field{"x", NumberValue(1)}, Field{"y", StringValue("b")})
	reordered := RecordOf(Field{"y", StringValue("b")}, Field{"x", NumberValue(1)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(reordered))
	assert.False(t, a.Equal(RecordOf(Field{"x", NumberValue(1)})))
}

func TestRecord_FieldsReturnsCopy(t *testing.T) {
	r := RecordOf(Field{"a", NumberValue(1)})
	fields := r.Fields()
	fields[0].Key = "changed"
	assert.Equal(t, []string{"a"}, r.Keys())
}
