// Package transcript records the lines exchanged with the game server into a
// zstd-compressed JSON lines stream.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Entry is one recorded line.
type Entry struct {
	Timestamp int64     `json:"ts"`
	Session   string    `json:"session,omitempty"`
	Direction Direction `json:"dir"`
	Line      string    `json:"line"`
}

// Recorder records wire lines. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(dir Direction, line []byte) error
	Close() error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) Record(Direction, []byte) error { return nil }
func (NopRecorder) Close() error                   { return nil }

// ZstdRecorder writes entries to a zstd stream.
type ZstdRecorder struct {
	lock    sync.Mutex
	session string
	enc     *zstd.Encoder
	json    *json.Encoder
	closer  io.Closer
	now     func() time.Time
}

// NewZstdRecorder records to w. Close flushes the stream but does not close w.
func NewZstdRecorder(w io.Writer, session string) (*ZstdRecorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	return &ZstdRecorder{
		session: session,
		enc:     enc,
		json:    json.NewEncoder(enc),
		now:     time.Now,
	}, nil
}

// CreateFile records to a new file at path. Close closes the file.
func CreateFile(path string, session string) (*ZstdRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript %s: %w", path, err)
	}
	r, err := NewZstdRecorder(f, session)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

func (r *ZstdRecorder) Record(dir Direction, line []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	entry := Entry{
		Timestamp: r.now().UnixMilli(),
		Session:   r.session,
		Direction: dir,
		Line:      string(line),
	}
	if err := r.json.Encode(entry); err != nil {
		return fmt.Errorf("failed to record line: %w", err)
	}
	return nil
}

func (r *ZstdRecorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	err := r.enc.Close()
	if r.closer != nil {
		err = errors.Join(err, r.closer.Close())
	}
	return err
}

// ReadEntries decodes every entry of a transcript.
func ReadEntries(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	entries := make([]Entry, 0)
	jsonDec := json.NewDecoder(dec)
	for {
		var entry Entry
		if err := jsonDec.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, fmt.Errorf("failed to read transcript entry: %w", err)
		}
		entries = append(entries, entry)
	}
}
