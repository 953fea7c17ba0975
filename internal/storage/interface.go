package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/voxdiary/voxdiary/internal/models"
)

// Provider is the storage boundary consumed by commands and the aggregation
// service. Only the provider writes the entry directory and the index file;
// all other components read through it.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error

	// Entries
	Save(models.Entry) error
	LoadAll() ([]models.Entry, error)
	LoadOn(day time.Time) (models.Entry, bool, error)
	LoadAllOn(day time.Time) ([]models.Entry, error)
	Delete(id uuid.UUID) error
	WeeklyCount(ref time.Time) (int, error)

	// Blobs
	AudioPath(fileName string) string
	AudioPathForEntry(id uuid.UUID) string

	// Utils
	Dir() string
}
