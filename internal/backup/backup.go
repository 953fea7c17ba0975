package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/logger"
)

// Info describes a backup archive on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots the entry directory (records, index and audio blobs)
// into rotated zip archives under <data-dir>/backups.
type Manager struct {
	dataDir   string
	backupDir string
}

// NewManager creates a backup manager for the given data directory.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:   dataDir,
		backupDir: filepath.Join(dataDir, constants.BackupDirName),
	}
}

// GetBackupDir returns the backup directory path.
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup archives the entry directory and rotates old backups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dataDir); os.IsNotExist(err) {
		return "", fmt.Errorf("data directory does not exist: %s", m.dataDir)
	}

	backupPath, err := m.uniqueBackupPath()
	if err != nil {
		return "", err
	}

	if err := m.archiveDataDir(backupPath); err != nil {
		os.Remove(backupPath)
		return "", fmt.Errorf("failed to archive entry directory: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

// uniqueBackupPath generates a timestamped archive name, adding seconds and
// then a counter on collision.
func (m *Manager) uniqueBackupPath() (string, error) {
	timestamp := time.Now().Format("20060102-1504")
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+constants.BackupFileSuffix)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	timestamp = time.Now().Format("20060102-150405")
	path = filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+constants.BackupFileSuffix)
	counter := 1
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		path = filepath.Join(m.backupDir,
			fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, timestamp, counter, constants.BackupFileSuffix))
		counter++
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
	}
}

// archiveDataDir zips the top-level files of the data directory: entry
// records, the index and audio blobs. Subdirectories (backups, logs) are
// skipped.
func (m *Manager) archiveDataDir(destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	dirEntries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return err
	}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if err := m.addFile(zw, de.Name()); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (m *Manager) addFile(zw *zip.Writer, name string) error {
	in, err := os.Open(filepath.Join(m.dataDir, name))
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

// ListBackups returns available backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	dirEntries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) ||
			!strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: info.ModTime(),
			Size:      info.Size(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// RestoreBackup extracts an archive over the data directory. A safety backup
// of the current state is taken first.
func (m *Manager) RestoreBackup(archivePath string) error {
	if !filepath.IsAbs(archivePath) && !strings.ContainsRune(archivePath, os.PathSeparator) {
		archivePath = filepath.Join(m.backupDir, archivePath)
	}
	if _, err := os.Stat(archivePath); err != nil {
		return fmt.Errorf("backup not found: %s", archivePath)
	}

	if _, err := m.createBackup(true); err != nil {
		return fmt.Errorf("failed to create safety backup before restore: %w", err)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open backup archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		// Archives only ever contain flat top-level files; reject anything else.
		if f.Name != filepath.Base(f.Name) {
			return fmt.Errorf("unexpected path in backup archive: %s", f.Name)
		}
		if err := m.extractFile(f); err != nil {
			return fmt.Errorf("failed to restore %s: %w", f.Name, err)
		}
	}
	return nil
}

func (m *Manager) extractFile(f *zip.File) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(filepath.Join(m.dataDir, f.Name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// rotateBackups removes the oldest archives beyond constants.MaxBackups.
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}
