package client

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, raw string) []Event {
	t.Helper()
	dec := newEventDecoder(strings.NewReader(raw))
	var out []Event
	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestEventDecoder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Event
	}{
		{
			name: "single data line",
			raw:  "data: {\"step\":1}\n\n",
			want: []Event{{Type: "message", Data: `{"step":1}`}},
		},
		{
			name: "multi line data joined with newline",
			raw:  "data: a\ndata: b\ndata:c\n\n",
			want: []Event{{Type: "message", Data: "a\nb\nc"}},
		},
		{
			name: "comments and unknown fields ignored",
			raw:  ": keep-alive\nfoo: bar\ndata: x\nretry: 1000\n\n",
			want: []Event{{Type: "message", Data: "x"}},
		},
		{
			name: "crlf and lone cr line endings",
			raw:  "data: one\r\n\r\ndata: two\r\rdata: three\n\n",
			want: []Event{
				{Type: "message", Data: "one"},
				{Type: "message", Data: "two"},
				{Type: "message", Data: "three"},
			},
		},
		{
			name: "event type and sticky id",
			raw:  "id: 7\nevent: progress\ndata: p\n\ndata: q\n\n",
			want: []Event{
				{ID: "7", Type: "progress", Data: "p"},
				{ID: "7", Type: "message", Data: "q"},
			},
		},
		{
			name: "event without data is not dispatched",
			raw:  "event: ping\n\ndata: real\n\n",
			want: []Event{{Type: "message", Data: "real"}},
		},
		{
			name: "bare data field dispatches empty payload",
			raw:  "data\n\n",
			want: []Event{{Type: "message", Data: ""}},
		},
		{
			name: "only one leading space is stripped",
			raw:  "data:   padded\n\n",
			want: []Event{{Type: "message", Data: "  padded"}},
		},
		{
			name: "unterminated event at eof is discarded",
			raw:  "data: done\n\ndata: partial\n",
			want: []Event{{Type: "message", Data: "done"}},
		},
		{
			name: "leading byte order mark",
			raw:  "\ufeffdata: bom\n\n",
			want: []Event{{Type: "message", Data: "bom"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.raw))
		})
	}
}

func TestScanEventLinesWaitsForLF(t *testing.T) {
	advance, token, err := scanEventLines([]byte("abc\r"), false)
	require.NoError(t, err)
	assert.Equal(t, 0, advance)
	assert.Nil(t, token)

	advance, token, err = scanEventLines([]byte("abc\r\n"), false)
	require.NoError(t, err)
	assert.Equal(t, 5, advance)
	assert.Equal(t, "abc", string(token))
}
