package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/logger"
	"github.com/voxdiary/voxdiary/internal/models"
	"github.com/voxdiary/voxdiary/internal/utils"
)

// WriteError is a storage mutation failure: serialization or a filesystem
// write. It is fatal to the specific operation and is not retried.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithWeekStart changes the weekday on which WeeklyCount's week begins.
func WithWeekStart(d time.Weekday) FileStoreOption {
	return func(s *FileStore) { s.weekStart = d }
}

// FileStore keeps one JSON file per entry plus an index file and audio blobs
// in a single directory. It is the sole owner of all durable mutation: saves,
// deletes and index updates run under one mutex so concurrent callers cannot
// race the index read-modify-write cycle. Reads go lock-free and rely on the
// atomic-replace write discipline for consistency.
type FileStore struct {
	dir       string
	index     *RecordIndex
	weekStart time.Weekday

	mu sync.Mutex // serializes all mutations
}

// NewFileStore creates a store rooted at dir. Weeks start on Monday unless
// overridden.
func NewFileStore(dir string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		dir:       dir,
		index:     NewRecordIndex(filepath.Join(dir, constants.IndexFileName)),
		weekStart: time.Monday,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the entry directory and an empty index. Calling Init on an
// already-initialized store is a no-op.
func (s *FileStore) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create entry directory: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.index.Path()); err == nil {
		return nil
	}
	return s.index.Write(nil)
}

// Load verifies the store is usable before a command runs. A corrupt index is
// repaired here by directory scan rather than silently treated as empty.
func (s *FileStore) Load() error {
	if _, err := os.Stat(s.dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read entry directory: %w", err)
	}
	if _, err := s.index.Read(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.index.Write(nil)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.rebuildIndexLocked()
	}
	return nil
}

func (s *FileStore) Dir() string { return s.dir }

// AudioPath resolves a blob file name to its location in the entry directory.
func (s *FileStore) AudioPath(fileName string) string {
	return filepath.Join(s.dir, fileName)
}

// AudioPathForEntry returns the canonical blob location for an entry id.
func (s *FileStore) AudioPathForEntry(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+constants.AudioFileExt)
}

func (s *FileStore) entryPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

// Save writes the entry record atomically, then upserts its id into the
// index. The index update always follows the record write so a crash between
// the two steps leaves, at worst, an unindexed file.
func (s *FileStore) Save(e models.Entry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return &WriteError{Path: s.entryPath(e.ID), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.entryPath(e.ID), data, 0600); err != nil {
		return &WriteError{Path: s.entryPath(e.ID), Err: err}
	}
	return s.upsertIndexLocked(e.ID)
}

// Delete removes the id from the index first, then best-effort removes the
// record file and any audio blob the entry owned. Missing files are
// tolerated; deleting a nonexistent id is a no-op.
func (s *FileStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Learn the blob name before the record goes away.
	blob := ""
	if data, err := os.ReadFile(s.entryPath(id)); err == nil {
		var e models.Entry
		if err := json.Unmarshal(data, &e); err == nil {
			blob = e.AudioFileName
		}
	}

	if err := s.removeIndexLocked(id); err != nil {
		return err
	}

	if err := os.Remove(s.entryPath(id)); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove entry file", "id", id, "error", err)
	}
	if blob == "" {
		blob = id.String() + constants.AudioFileExt
	}
	if err := os.Remove(s.AudioPath(blob)); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove audio blob", "id", id, "error", err)
	}
	return nil
}

// LoadAll reads every indexed entry, sorted by date descending. The index is
// treated as a hint: unreadable or malformed records are logged and skipped
// so partial corruption never breaks listings.
func (s *FileStore) LoadAll() ([]models.Entry, error) {
	ids, err := s.readIDs()
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(ids))
	for _, id := range ids {
		data, err := os.ReadFile(s.entryPath(id))
		if err != nil {
			logger.Warn("skipping unreadable entry", "id", id, "error", err)
			continue
		}
		var e models.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			logger.Warn("skipping malformed entry", "id", id, "error", err)
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// LoadOn returns the first entry whose date falls on the given calendar day.
func (s *FileStore) LoadOn(day time.Time) (models.Entry, bool, error) {
	all, err := s.LoadAll()
	if err != nil {
		return models.Entry{}, false, err
	}
	for _, e := range all {
		if utils.SameDay(e.Date, day) {
			return e, true, nil
		}
	}
	return models.Entry{}, false, nil
}

// LoadAllOn returns every entry on the given calendar day, sorted by date
// ascending (chronological within the day).
func (s *FileStore) LoadAllOn(day time.Time) ([]models.Entry, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	entries := make([]models.Entry, 0)
	for _, e := range all {
		if utils.SameDay(e.Date, day) {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

// WeeklyCount returns the number of entries dated within
// [weekStart, weekStart+7d) for the week containing ref.
func (s *FileStore) WeeklyCount(ref time.Time) (int, error) {
	all, err := s.LoadAll()
	if err != nil {
		return 0, err
	}
	weekStart := utils.StartOfWeek(ref, s.weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)
	count := 0
	for _, e := range all {
		if !e.Date.Before(weekStart) && e.Date.Before(weekEnd) {
			count++
		}
	}
	return count, nil
}

// readIDs reads the index on behalf of the read path. A missing index means
// an empty store; a corrupt one triggers a rebuild from the entry directory.
func (s *FileStore) readIDs() ([]uuid.UUID, error) {
	ids, err := s.index.Read()
	if err == nil {
		return ids, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if errors.Is(err, ErrCorruptIndex) {
		s.mu.Lock()
		rerr := s.rebuildIndexLocked()
		s.mu.Unlock()
		if rerr != nil {
			return nil, rerr
		}
		return s.index.Read()
	}
	return nil, err
}

func (s *FileStore) upsertIndexLocked(id uuid.UUID) error {
	err := s.index.Upsert(id)
	if err != nil && errors.Is(err, ErrCorruptIndex) {
		if rerr := s.rebuildIndexLocked(); rerr != nil {
			return rerr
		}
		err = s.index.Upsert(id)
	}
	return err
}

func (s *FileStore) removeIndexLocked(id uuid.UUID) error {
	err := s.index.Remove(id)
	if err != nil && errors.Is(err, ErrCorruptIndex) {
		if rerr := s.rebuildIndexLocked(); rerr != nil {
			return rerr
		}
		err = s.index.Remove(id)
	}
	return err
}

// rebuildIndexLocked re-derives the id set from the record files on disk.
// Insertion order is lost, so recovered ids are ordered by file modification
// time. Caller must hold mu.
func (s *FileStore) rebuildIndexLocked() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to scan entry directory: %w", err)
	}

	type rec struct {
		id  uuid.UUID
		mod time.Time
	}
	var recs []rec
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") || name == constants.IndexFileName {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		recs = append(recs, rec{id: id, mod: info.ModTime()})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].mod.Before(recs[j].mod) })

	ids := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.id)
	}

	logger.Warn("rebuilding entry index from directory scan", "dir", s.dir, "entries", len(ids))
	return s.index.Write(ids)
}
