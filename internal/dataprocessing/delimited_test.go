package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter rune
		want      [][]Field
	}{
		{
			name:  "headers verbatim",
			input: "Month, Sales\nJan,10\nFeb,20\n",
			want: [][]Field{
				{{"Month", StringValue("Jan")}, {" Sales", StringValue("10")}},
				{{"Month", StringValue("Feb")}, {" Sales", StringValue("20")}},
			},
		},
		{
			name:  "short rows padded",
			input: "a,b,c\n1\n",
			want: [][]Field{
				{{"a", StringValue("1")}, {"b", StringValue("")}, {"c", StringValue("")}},
			},
		},
		{
			name:  "extra fields dropped",
			input: "a,b\n1,2,3,4\n",
			want: [][]Field{
				{{"a", StringValue("1")}, {"b", StringValue("2")}},
			},
		},
		{
			name:  "quoted delimiter",
			input: "name,city\n\"Smith, J\",Leeds\n",
			want: [][]Field{
				{{"name", StringValue("Smith, J")}, {"city", StringValue("Leeds")}},
			},
		},
		{
			name:      "semicolon",
			input:     "x;y\r\n1;2\r\n",
			delimiter: ';',
			want: [][]Field{
				{{"x", StringValue("1")}, {"y", StringValue("2")}},
			},
		},
		{
			name:  "blank line becomes empty record",
			input: "a,b\n1,2\n\n3,4\n",
			want: [][]Field{
				{{"a", StringValue("1")}, {"b", StringValue("2")}},
				{{"a", StringValue("")}, {"b", StringValue("")}},
				{{"a", StringValue("3")}, {"b", StringValue("4")}},
			},
		},
		{
			name:  "blank lines after headers and at the end",
			input: "x\r\n\r\n\r\n1\r\n\r\n",
			want: [][]Field{
				{{"x", StringValue("")}},
				{{"x", StringValue("")}},
				{{"x", StringValue("1")}},
				{{"x", StringValue("")}},
			},
		},
		{
			name:  "blank first line is a single empty header",
			input: "\n1,2\n",
			want: [][]Field{
				{{"", StringValue("1")}},
			},
		},
		{
			name:  "quoted newline is not a blank line",
			input: "note,n\n\"a\n\nb\",1\n2,3\n",
			want: [][]Field{
				{{"note", StringValue("a\n\nb")}, {"n", StringValue("1")}},
				{{"note", StringValue("2")}, {"n", StringValue("3")}},
			},
		},
		{
			name:  "duplicate header keeps first position",
			input: "k,v,k\n1,2,3\n",
			want: [][]Field{
				{{"k", StringValue("3")}, {"v", StringValue("2")}},
			},
		},
		{
			name:  "byte order mark stripped",
			input: "\xEF\xBB\xBFid,name\n1,a\n",
			want: [][]Field{
				{{"id", StringValue("1")}, {"name", StringValue("a")}},
			},
		},
		{
			name:  "windows-1252 fallback",
			input: "place\ncaf\xE9\n",
			want: [][]Field{
				{{"place", StringValue("café")}},
			},
		},
		{
			name:  "stray quote tolerated",
			input: "q\nsay \"hi\n",
			want: [][]Field{
				{{"q", StringValue("say \"hi")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDelimited(strings.NewReader(tt.input), tt.delimiter)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i, fields := range tt.want {
				want := RecordOf(fields...)
				assert.True(t, want.Equal(got[i]), "row %d: want %v, got %v", i, want.Fields(), got[i].Fields())
			}
		})
	}
}

func TestParseDelimited_EmptyInput(t *testing.T) {
	got, err := ParseDelimited(strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = ParseDelimited(strings.NewReader("only,headers\n"), ',')
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseDelimited_InvalidDelimiter(t *testing.T) {
	_, err := ParseDelimited(strings.NewReader("a\n1\n"), '"')
	assert.ErrorIs(t, err, ErrInvalidDelimiter)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{"|", '|', false},
		{`\t`, '\t', false},
		{"\t", '\t', false},
		{"ab", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
