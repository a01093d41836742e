package capture

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("capture: closed")

// Sink accumulates decoded text from a stream and can be closed to halt
// any background draining into it.
type Sink interface {
	io.WriteCloser
	Text() string
}

var _ Sink = (*Capture)(nil)

// Capture buffers one output stream of a child process.
// It is safe for concurrent use.
type Capture struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	name     string
	encoding encoding.Encoding
	closed   bool
}

// New returns an empty Capture decoding with the named encoding.
func New(encodingName string) (*Capture, error) {
	enc, err := Lookup(encodingName)
	if err != nil {
		return nil, err
	}
	return &Capture{name: encodingName, encoding: enc}, nil
}

// Write appends raw output. It fails with ErrClosed once the capture is closed.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	return c.buf.Write(p)
}

// Bytes returns a copy of the raw output collected so far.
func (c *Capture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.buf.Bytes())
}

// Len returns the number of raw bytes collected so far.
func (c *Capture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// Text returns the output collected so far, decoded with the capture's
// encoding. Undecodable input is replaced rather than reported. A nil
// Capture has no text.
func (c *Capture) Text() string {
	if c == nil {
		return ""
	}
	raw := c.Bytes()
	out, err := c.encoding.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(out)
}

// Lines splits Text on "\n". An empty capture yields a single empty line.
func (c *Capture) Lines() []string {
	return strings.Split(c.Text(), "\n")
}

// Encoding returns the encoding name the capture was created with.
func (c *Capture) Encoding() string {
	return c.name
}

// Close stops accepting output. Collected output stays readable.
// Close is idempotent.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (c *Capture) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
