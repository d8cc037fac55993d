package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage persists the cart between runs. It is keyed independently of any
// server session; logout wipes it through ClearAll, not by deleting the store.
type Storage interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// FileStorage keeps the serialized line array in a single JSON file.
type FileStorage struct {
	Path string
}

func NewFileStorage(path string) *FileStorage { return &FileStorage{Path: path} }

func (s *FileStorage) Load() ([]Line, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return lines, nil
}

// Save writes the snapshot atomically so a crash mid-write cannot corrupt the
// cart.
func (s *FileStorage) Save(lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".cart-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// MemStorage is the in-memory Storage used by tests and by clients that opt
// out of persistence.
type MemStorage struct {
	lines []Line
}

func (s *MemStorage) Load() ([]Line, error) {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *MemStorage) Save(lines []Line) error {
	s.lines = make([]Line, len(lines))
	copy(s.lines, lines)
	return nil
}
