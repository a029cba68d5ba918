package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/five82/brandloom/internal/api"
)

const maxFrameSize = 1 << 20

// Reader splits an SSE body into data payloads. Comment lines and fields
// other than data are skipped.
type Reader struct {
	scanner *bufio.Scanner
	data    bytes.Buffer
	hasData bool
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &Reader{scanner: sc}
}

// Next returns the payload of the next complete frame. It returns io.EOF
// when the stream ends; a trailing frame without its blank line is dropped.
func (r *Reader) Next() ([]byte, error) {
	for r.scanner.Scan() {
		line := bytes.TrimSuffix(r.scanner.Bytes(), []byte("\r"))
		if len(line) == 0 {
			if !r.hasData {
				continue
			}
			out := bytes.Clone(r.data.Bytes())
			r.data.Reset()
			r.hasData = false
			return out, nil
		}
		if line[0] == ':' {
			continue
		}
		field, value, _ := bytes.Cut(line, []byte(":"))
		if string(field) != "data" {
			continue
		}
		value = bytes.TrimPrefix(value, []byte(" "))
		if r.hasData {
			r.data.WriteByte('\n')
		}
		r.data.Write(value)
		r.hasData = true
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Pump reads frames from body, decodes them and hands each event to fn in
// arrival order. It stops when fn returns false, the body ends, or ctx is
// cancelled. Body is always closed.
//
// A nil return means fn asked to stop or the stream ended cleanly.
// Read failures wrap api.ErrTransport; undecodable frames return a
// *ProtocolError.
func Pump(ctx context.Context, body io.ReadCloser, fn func(Event) bool) error {
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer func() {
		stop()
		_ = body.Close()
	}()

	reader := NewReader(body)
	for {
		data, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read stream: %w: %v", api.ErrTransport, err)
		}
		ev, err := Decode(data)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !fn(ev) {
			return nil
		}
	}
}
