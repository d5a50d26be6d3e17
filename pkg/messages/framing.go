package messages

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
)

// LineWriter writes newline-delimited messages. Each line is written with a
// single Write call under a lock so concurrent senders never interleave.
type LineWriter struct {
	lock sync.Mutex
	w    io.Writer
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// WriteLine writes line, appending a newline if it has none.
func (w *LineWriter) WriteLine(line []byte) error {
	if bytes.IndexByte(bytes.TrimSuffix(line, []byte{'\n'}), '\n') >= 0 {
		return fmt.Errorf("line contains an embedded newline")
	}
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(line[:len(line):len(line)], '\n')
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	if _, err := w.w.Write(line); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}

// WriteClientMessage encodes msg and writes it as one line.
func (w *LineWriter) WriteClientMessage(msg ClientMessage) ([]byte, error) {
	line, err := EncodeClientMessage(msg)
	if err != nil {
		return nil, err
	}
	return line, w.WriteLine(line)
}

// WriteServerMessage encodes msg and writes it as one line.
func (w *LineWriter) WriteServerMessage(msg ServerMessage) ([]byte, error) {
	line, err := EncodeServerMessage(msg)
	if err != nil {
		return nil, err
	}
	return line, w.WriteLine(line)
}

// LineReader reads newline-delimited messages without a length limit.
type LineReader struct {
	r *bufio.Reader
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line terminator. A final line
// without a terminator is returned before io.EOF.
func (r *LineReader) ReadLine() ([]byte, error) {
	line, err := r.r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return trimLine(line), nil
		}
		return nil, err
	}
	return trimLine(line), nil
}

func trimLine(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}
