package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const maxEventLine = 1 << 20

// Event is one dispatched server-push message. Data is the raw payload with
// multiple data lines joined by "\n".
type Event struct {
	ID   string
	Type string
	Data string
}

// eventDecoder reads text/event-stream framing. Only one goroutine may call Next.
type eventDecoder struct {
	scanner *bufio.Scanner
	lastID  string
	started bool
}

func newEventDecoder(r io.Reader) *eventDecoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), maxEventLine)
	sc.Split(scanEventLines)
	return &eventDecoder{scanner: sc}
}

// Next blocks until a complete event is available. A partial event at the end
// of the stream is discarded and io.EOF returned.
func (d *eventDecoder) Next() (Event, error) {
	var (
		data    strings.Builder
		hasData bool
		evType  string
	)

	for d.scanner.Scan() {
		line := d.scanner.Text()
		if !d.started {
			line = strings.TrimPrefix(line, "\ufeff")
			d.started = true
		}

		if line == "" {
			if !hasData {
				evType = ""
				continue
			}
			if evType == "" {
				evType = "message"
			}
			return Event{ID: d.lastID, Type: evType, Data: data.String()}, nil
		}
		if line[0] == ':' {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			evType = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				d.lastID = value
			}
		case "retry":
			// Reconnection is never attempted.
		}
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// scanEventLines splits on LF, CRLF or a lone CR.
func scanEventLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// Need one more byte to tell CR from CRLF.
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
