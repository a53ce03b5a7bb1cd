package status

import (
	"bufio"
	"bytes"
	"io"
)

// maxFrameSize bounds a single SSE line. Terminal records carry the full
// transcript and summary, so the default bufio limit is far too small.
const maxFrameSize = 16 * 1024 * 1024

// FrameReader splits a text/event-stream body into the payloads of its
// "data:" fields. Event names, ids, retry hints and comments are ignored.
type FrameReader struct {
	scanner *bufio.Scanner
}

// NewFrameReader returns a reader of SSE frames from r.
func NewFrameReader(r io.Reader) *FrameReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &FrameReader{scanner: s}
}

// Next returns the data of the next frame. Multiple data lines of one frame
// are joined with a newline. It returns io.EOF when the stream ends cleanly;
// a trailing frame without its blank line terminator is discarded.
func (f *FrameReader) Next() ([]byte, error) {
	var (
		data    bytes.Buffer
		hasData bool
	)
	for f.scanner.Scan() {
		line := bytes.TrimSuffix(f.scanner.Bytes(), []byte("\r"))

		if len(line) == 0 {
			if hasData {
				return data.Bytes(), nil
			}
			continue
		}
		if line[0] == ':' {
			continue
		}

		field, value, found := bytes.Cut(line, []byte(":"))
		if !found || string(field) != "data" {
			continue
		}
		value = bytes.TrimPrefix(value, []byte(" "))
		if hasData {
			data.WriteByte('\n')
		}
		data.Write(value)
		hasData = true
	}
	if err := f.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
