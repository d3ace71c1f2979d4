// Package history stores finished game results. The engine emits a
// GameResult at game end and performs no I/O itself; a Store implementation
// is injected at the session boundary and called only there.
package history

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/Equinox89/1000/internal/engine"
)

// Record is the archive of saved games plus per-player lifetime totals.
type Record struct {
	Games       []engine.GameResult `json:"games"`
	TotalScores map[string]int      `json:"totalScores"`
}

// Store persists finished games.
type Store interface {
	Save(engine.GameResult) error
	History() (Record, error)
	Clear() error
}

// InMemoryStore keeps results for the lifetime of the process.
type InMemoryStore struct {
	mu     sync.Mutex
	record Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{record: emptyRecord()}
}

func (s *InMemoryStore) Save(res engine.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&res)
	appendResult(&s.record, res)
	return nil
}

func (s *InMemoryStore) History() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecord(s.record), nil
}

func (s *InMemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = emptyRecord()
	return nil
}

// FileStore persists results as a JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(res engine.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load()
	if err != nil {
		return err
	}
	stamp(&res)
	appendResult(&record, res)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileStore) History() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return emptyRecord(), nil
	}
	if err != nil {
		return Record{}, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, err
	}
	if record.TotalScores == nil {
		record.TotalScores = map[string]int{}
	}
	return record, nil
}

func stamp(res *engine.GameResult) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
}

func appendResult(record *Record, res engine.GameResult) {
	record.Games = append(record.Games, res)
	for _, p := range res.Players {
		record.TotalScores[p.Name] += p.FinalScore
	}
}

func emptyRecord() Record {
	return Record{TotalScores: map[string]int{}}
}

func cloneRecord(in Record) Record {
	out := Record{
		Games:       append([]engine.GameResult(nil), in.Games...),
		TotalScores: make(map[string]int, len(in.TotalScores)),
	}
	for k, v := range in.TotalScores {
		out.TotalScores[k] = v
	}
	return out
}
