package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/voxdiary/voxdiary/internal/logger"
)

// ImportBlob moves a finished recording from src into the store-owned
// location at dest, replacing any stale blob already there. Falls back to
// copy-and-remove when src and dest are on different filesystems. On failure
// the destination is removed so no partial blob is left behind.
func ImportBlob(src, dest string) error {
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace existing blob: %w", err)
	}

	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	if err := CopyBlob(src, dest); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		// The import succeeded; a leftover temp file is not worth failing over.
		logger.Warn("failed to remove source recording after import", "src", src, "error", err)
	}
	return nil
}

// CopyBlob copies a recording into dest, leaving src in place. On failure the
// destination is removed.
func CopyBlob(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to copy recording: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to finalize blob: %w", err)
	}
	return nil
}
