package display

import (
	"bytes"
	"testing"

	"github.com/harrison/grepline/internal/matcher"
	"github.com/harrison/grepline/internal/result"
)

// Writing to a bytes.Buffer disables color automatically (not a terminal),
// so these tests assert the plain-text forms.
func render(rec result.Record) string {
	var buf bytes.Buffer
	NewPrinter(&buf, false).WriteRecord(rec)
	return buf.String()
}

func TestWriteRecordForms(t *testing.T) {
	tests := []struct {
		name string
		rec  result.Record
		want string
	}{
		{
			name: "bare match",
			rec:  result.Record{Text: []byte("hello")},
			want: "hello\n",
		},
		{
			name: "labeled match",
			rec:  result.Record{Source: "a.txt", Text: []byte("hello")},
			want: "a.txt:hello\n",
		},
		{
			name: "labeled numbered match",
			rec:  result.Record{Source: "a.txt", Line: 7, Text: []byte("hello")},
			want: "a.txt:7:hello\n",
		},
		{
			name: "context line uses dash separators",
			rec:  result.Record{Source: "a.txt", Line: 6, Text: []byte("before"), Context: true},
			want: "a.txt-6-before\n",
		},
		{
			name: "group separator",
			rec:  result.Record{Separator: true},
			want: "--\n",
		},
		{
			name: "binary summary",
			rec:  result.Record{Source: "blob.bin", Binary: true},
			want: "Binary file blob.bin matches\n",
		},
		{
			name: "labeled count",
			rec:  result.Record{Source: "a.txt", CountOnly: true, Count: 4},
			want: "a.txt:4\n",
		},
		{
			name: "bare count",
			rec:  result.Record{CountOnly: true, Count: 0},
			want: "0\n",
		},
		{
			name: "spans do not alter plain text",
			rec: result.Record{
				Text:  []byte("concatenate"),
				Spans: []matcher.Span{{Start: 3, End: 6}},
			},
			want: "concatenate\n",
		},
		{
			name: "zero length span",
			rec: result.Record{
				Text:  []byte("line"),
				Spans: []matcher.Span{{Start: 0, End: 0}},
			},
			want: "line\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.rec); got != tt.want {
				t.Errorf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}
