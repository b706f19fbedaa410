package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dp "chartapp/internal/dataprocessing"
)

func TestHeaders(t *testing.T) {
	records := []dp.Record{
		dp.RecordOf(dp.Field{Key: "b", Value: dp.StringValue("1")}, dp.Field{Key: "a", Value: dp.StringValue("2")}),
		dp.RecordOf(dp.Field{Key: "c", Value: dp.StringValue("3")}, dp.Field{Key: "b", Value: dp.StringValue("4")}),
	}
	assert.Equal(t, []string{"b", "a", "c"}, Headers(records))
	assert.Empty(t, Headers(nil))
}

func TestWriteRecords(t *testing.T) {
	records := []dp.Record{
		dp.RecordOf(
			dp.Field{Key: "month", Value: dp.StringValue("Jan, early")},
			dp.Field{Key: "sales", Value: dp.NumberValue(10.5)},
			dp.Field{Key: "open", Value: dp.BoolValue(true)},
		),
		dp.RecordOf(
			dp.Field{Key: "month", Value: dp.StringValue("Feb")},
			dp.Field{Key: "day", Value: dp.DateValue(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))},
		),
	}

	tests := []struct {
		name string
		opts WriteOptions
		want string
	}{
		{
			name: "comma",
			want: "month,sales,open,day\n" +
				"\"Jan, early\",10.5,true,\n" +
				"Feb,,,2024-02-01T00:00:00Z\n",
		},
		{
			name: "semicolon with BOM",
			opts: WriteOptions{Delimiter: ';', BOMPrefix: true},
			want: "\xEF\xBB\xBFmonth;sales;open;day\n" +
				"\"Jan, early\";10.5;true;\n" +
				"Feb;;;2024-02-01T00:00:00Z\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteRecords(&buf, records, tt.opts))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil, WriteOptions{BOMPrefix: true}))
	assert.Zero(t, buf.Len())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rows.csv")
	records := []dp.Record{dp.RecordOf(dp.Field{Key: "a", Value: dp.NumberValue(1)})}

	require.NoError(t, WriteFile(path, records, WriteOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}

func TestProperties_RoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("exported text parses back to the same records", prop.ForAll(
		func(cells []string) bool {
			rec := dp.NewRecord(len(cells))
			for i, c := range cells {
				rec.Set(string(rune('a'+i%26))+strings.Repeat("x", i/26), dp.StringValue(c))
			}
			records := []dp.Record{rec}

			var buf bytes.Buffer
			if err := WriteRecords(&buf, records, WriteOptions{}); err != nil {
				return false
			}
			parsed, err := dp.ParseDelimited(&buf, ',')
			if err != nil || len(parsed) != 1 {
				return false
			}
			return parsed[0].Equal(rec)
		},
		gen.SliceOfN(5, gen.AlphaString()),
	))

	properties.TestingRun(t)
}
