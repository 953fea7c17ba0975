package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// ErrCorruptIndex is returned when the index file is unreadable or malformed.
// On first run (no file yet) the wrapped error also matches fs.ErrNotExist so
// callers can tell "never initialized" from "damaged".
var ErrCorruptIndex = errors.New("entry index is corrupt")

type indexFile struct {
	IDs []uuid.UUID `json:"ids"`
}

// RecordIndex is the durable, insertion-ordered set of living entry ids.
// It is the single source of truth for which entries exist. Methods are not
// internally synchronized; FileStore serializes all mutations.
type RecordIndex struct {
	path string
}

func NewRecordIndex(path string) *RecordIndex {
	return &RecordIndex{path: path}
}

func (ix *RecordIndex) Path() string { return ix.path }

// Read returns the ordered id list, or ErrCorruptIndex if the backing file
// cannot be read or parsed.
func (ix *RecordIndex) Read() ([]uuid.UUID, error) {
	data, err := os.ReadFile(ix.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	return f.IDs, nil
}

// Write atomically replaces the index contents. The index is never patched
// in place, so a crash cannot leave it partially written.
func (ix *RecordIndex) Write(ids []uuid.UUID) error {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	data, err := json.MarshalIndent(indexFile{IDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}
	if err := writeFileAtomic(ix.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// Upsert adds id to the index if absent. A missing index file is treated as
// empty; a malformed one surfaces as ErrCorruptIndex.
func (ix *RecordIndex) Upsert(id uuid.UUID) error {
	ids, err := ix.Read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		ids = nil
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return ix.Write(append(ids, id))
}

// Remove drops id from the index if present; removing an absent id is a no-op.
func (ix *RecordIndex) Remove(id uuid.UUID) error {
	ids, err := ix.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	kept := ids[:0]
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return nil
	}
	return ix.Write(kept)
}
