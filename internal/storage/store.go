// Package storage persists simulation runs on disk. Each run gets its
// own directory under the base dir with a metadata.json and a
// snapshots.jsonl holding one body-store snapshot per line, so long
// runs can be streamed without holding every snapshot in memory.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okuno/orbitsim/internal/body"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Catalog   string             `json:"catalog"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Theta     float64            `json:"theta"`
	Asteroids int                `json:"asteroids"`
	Steps     int                `json:"steps"`     // configured step count, set by the caller
	Snapshots int                `json:"snapshots"` // stored snapshot lines, counted by the writer
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Snapshot is the body store at a single point in simulated time.
type Snapshot struct {
	Time   float64     `json:"t"`
	Bodies []body.Body `json:"bodies"`
}

// RunWriter streams snapshots for one run. It satisfies the driver's
// Sink interface; Finish must be called to flush and record final
// metric values.
type RunWriter struct {
	store *Store
	meta  RunMetadata
	file  *os.File
	buf   *bufio.Writer
	enc   *json.Encoder
	snaps int
}

// Begin creates the run directory, writes the initial metadata and
// opens the snapshot stream. The run ID is derived from the catalog
// and the wall clock.
func (s *Store) Begin(meta RunMetadata) (*RunWriter, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	meta.ID = fmt.Sprintf("%s_%d", meta.Catalog, time.Now().UnixNano())
	meta.Timestamp = time.Now()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	if err := s.writeMetadata(meta); err != nil {
		return nil, err
	}

	file, err := os.Create(filepath.Join(runDir, "snapshots.jsonl"))
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(file)

	return &RunWriter{
		store: s,
		meta:  meta,
		file:  file,
		buf:   buf,
		enc:   json.NewEncoder(buf),
	}, nil
}

func (w *RunWriter) ID() string { return w.meta.ID }

// OnSnapshot appends one snapshot line to the stream.
func (w *RunWriter) OnSnapshot(t float64, bodies []body.Body) error {
	w.snaps++
	return w.enc.Encode(Snapshot{Time: t, Bodies: bodies})
}

// Finish flushes the snapshot stream and rewrites the metadata with
// final metric values and the snapshot count. Steps stays as the
// caller configured it at Begin.
func (w *RunWriter) Finish(metrics map[string]float64) error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}
	w.meta.Snapshots = w.snaps
	w.meta.Metrics = metrics
	return w.store.writeMetadata(w.meta)
}

func (s *Store) writeMetadata(meta RunMetadata) error {
	path := filepath.Join(s.baseDir, meta.ID, "metadata.json")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns metadata for every run under the base dir. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshots reads the full snapshot stream of a run into memory.
func (s *Store) LoadSnapshots(runID string) ([]Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "snapshots.jsonl"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snaps []Snapshot
	dec := json.NewDecoder(bufio.NewReader(file))
	for dec.More() {
		var snap Snapshot
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("run %s: decode snapshot %d: %w", runID, len(snaps), err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
