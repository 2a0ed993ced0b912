package sequencer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-trails/midi"
)

// Recording file formats
const (
	FormatJSON = "json"
	FormatSMF  = "mid"
)

// ErrNoRecordings is returned by Latest when the directory holds none
var ErrNoRecordings = errors.New("no recordings found")

// timestampLayout names recording files; milliseconds avoid collisions
const timestampLayout = "2006-01-02_15-04-05.000"

// RecordingInfo represents a saved recording file (for listing)
type RecordingInfo struct {
	Filename  string
	Path      string
	Timestamp time.Time
}

// FileLibrary keeps one file per finalized recording in Dir
type FileLibrary struct {
	Dir    string
	Format string

	now func() time.Time
}

// NewLibrary creates a library writing format ("json" or "mid") into dir
func NewLibrary(dir, format string) *FileLibrary {
	if format == "" {
		format = FormatJSON
	}
	return &FileLibrary{Dir: dir, Format: format, now: time.Now}
}

// Save writes seq to a new timestamped file and returns its path
func (l *FileLibrary) Save(seq *Sequence) (string, error) {
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return "", err
	}

	base := l.now().Format(timestampLayout)
	path := filepath.Join(l.Dir, base+"."+l.Format)
	for i := 2; fileExists(path); i++ {
		path = filepath.Join(l.Dir, fmt.Sprintf("%s_%d.%s", base, i, l.Format))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}

	switch l.Format {
	case FormatSMF:
		err = WriteSMF(f, seq)
	default:
		err = WriteJSON(f, seq)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// List returns recordings in Dir, newest first
func (l *FileLibrary) List() ([]RecordingInfo, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RecordingInfo{}, nil
		}
		return nil, err
	}

	var recs []RecordingInfo
	for _, entry := range entries {
		if entry.IsDir() || !isRecordingFile(entry.Name()) {
			continue
		}
		name := entry.Name()

		// Timestamp is the first 23 chars: 2006-01-02_15-04-05.000
		if len(name) < len(timestampLayout) {
			continue
		}
		ts, err := time.ParseInLocation(timestampLayout, name[:len(timestampLayout)], time.Local)
		if err != nil {
			// Not a timestamped file, skip
			continue
		}

		recs = append(recs, RecordingInfo{
			Filename:  name,
			Path:      filepath.Join(l.Dir, name),
			Timestamp: ts,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Filename > recs[j].Filename
		}
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})

	return recs, nil
}

// Latest loads the newest recording
func (l *FileLibrary) Latest() (*Sequence, string, error) {
	recs, err := l.List()
	if err != nil {
		return nil, "", err
	}
	if len(recs) == 0 {
		return nil, "", fmt.Errorf("%s: %w", l.Dir, ErrNoRecordings)
	}
	seq, err := LoadFile(recs[0].Path)
	if err != nil {
		return nil, "", err
	}
	return seq, recs[0].Path, nil
}

// Load reads a recording by path, or by file name inside Dir
func (l *FileLibrary) Load(name string) (*Sequence, error) {
	if !filepath.IsAbs(name) && !fileExists(name) {
		name = filepath.Join(l.Dir, name)
	}
	return LoadFile(name)
}

// LoadFile reads a recording, choosing the format from the extension
func LoadFile(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seq *Sequence
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".smf":
		seq, err = ReadSMF(f)
	default:
		seq, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return seq, nil
}

type jsonRecording struct {
	Events []midi.Event `json:"events"`
}

// WriteJSON writes seq as indented JSON
func WriteJSON(w io.Writer, seq *Sequence) error {
	data, err := json.MarshalIndent(jsonRecording{Events: seq.events}, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadJSON parses a JSON recording, rejecting malformed or empty input
func ReadJSON(r io.Reader) (*Sequence, error) {
	var rec jsonRecording
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSequence, err)
	}
	return NewSequence(rec.Events)
}

func isRecordingFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".mid", ".midi", ".smf":
		return true
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
