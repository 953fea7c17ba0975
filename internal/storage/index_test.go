package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func newTestIndex(t *testing.T) *RecordIndex {
	t.Helper()
	return NewRecordIndex(filepath.Join(t.TempDir(), "index.json"))
}

func TestIndexReadMissing(t *testing.T) {
	ix := newTestIndex(t)

	_, err := ix.Read()
	if !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("Read() error = %v, want ErrCorruptIndex", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read() on missing file should also match os.ErrNotExist, got %v", err)
	}
}

func TestIndexReadMalformed(t *testing.T) {
	ix := newTestIndex(t)
	if err := os.WriteFile(ix.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write malformed index: %v", err)
	}

	_, err := ix.Read()
	if !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("Read() error = %v, want ErrCorruptIndex", err)
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Error("malformed index should not match os.ErrNotExist")
	}
}

func TestIndexWriteReadRoundTrip(t *testing.T) {
	ix := newTestIndex(t)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	if err := ix.Write(ids); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := ix.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, ids) {
		t.Errorf("Read() = %v, want %v (insertion order preserved)", got, ids)
	}
}

func TestIndexUpsert(t *testing.T) {
	ix := newTestIndex(t)
	a, b := uuid.New(), uuid.New()

	for _, id := range []uuid.UUID{a, b, a} {
		if err := ix.Upsert(id); err != nil {
			t.Fatalf("Upsert(%v) error = %v", id, err)
		}
	}

	got, err := ix.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []uuid.UUID{a, b}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() = %v, want %v (duplicate upsert is a no-op)", got, want)
	}
}

func TestIndexRemove(t *testing.T) {
	ix := newTestIndex(t)
	a, b := uuid.New(), uuid.New()
	if err := ix.Write([]uuid.UUID{a, b}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	t.Run("removes present id", func(t *testing.T) {
		if err := ix.Remove(a); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		got, _ := ix.Read()
		if !reflect.DeepEqual(got, []uuid.UUID{b}) {
			t.Errorf("Read() = %v, want [%v]", got, b)
		}
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		if err := ix.Remove(uuid.New()); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		got, _ := ix.Read()
		if !reflect.DeepEqual(got, []uuid.UUID{b}) {
			t.Errorf("Read() = %v, want [%v]", got, b)
		}
	})

	t.Run("missing index file is a no-op", func(t *testing.T) {
		empty := newTestIndex(t)
		if err := empty.Remove(uuid.New()); err != nil {
			t.Fatalf("Remove() on missing index error = %v", err)
		}
	})
}

func TestIndexWriteAtomicReplace(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Write([]uuid.UUID{uuid.New(), uuid.New()}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	replacement := []uuid.UUID{uuid.New()}
	if err := ix.Write(replacement); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := ix.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, replacement) {
		t.Errorf("Read() = %v, want full-content replacement %v", got, replacement)
	}

	// No temp files may linger after a successful swap.
	dirEntries, err := os.ReadDir(filepath.Dir(ix.Path()))
	if err != nil {
		t.Fatalf("failed to read index dir: %v", err)
	}
	if len(dirEntries) != 1 {
		names := make([]string, 0, len(dirEntries))
		for _, de := range dirEntries {
			names = append(names, de.Name())
		}
		t.Errorf("index dir contains %v, want only the index file", names)
	}
}
