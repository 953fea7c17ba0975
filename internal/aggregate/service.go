package aggregate

import (
	"time"

	"github.com/voxdiary/voxdiary/internal/audio"
	"github.com/voxdiary/voxdiary/internal/logger"
	"github.com/voxdiary/voxdiary/internal/models"
	"github.com/voxdiary/voxdiary/internal/storage"
)

// Stats are derived read-only statistics over the full entry set.
type Stats struct {
	EntryCount                int
	TotalWordCount            int
	TotalAudioDurationSeconds float64
	WeeklyCount               int
}

// ProbeFunc reports the duration of an audio file in seconds.
type ProbeFunc func(path string) (float64, error)

// Option configures a Service.
type Option func(*Service)

// WithRepair toggles the duration backfill pass. Disabling it makes Refresh
// a pure read.
func WithRepair(enabled bool) Option {
	return func(s *Service) { s.repair = enabled }
}

// WithProbe replaces the audio duration probe.
func WithProbe(fn ProbeFunc) Option {
	return func(s *Service) { s.probe = fn }
}

// Service derives statistics on top of the entry store without becoming a
// second writer of truth: everything is recomputed lazily on Refresh, and
// the only write it ever issues is the idempotent duration backfill, which
// goes through the store like any other save.
type Service struct {
	store  storage.Provider
	probe  ProbeFunc
	repair bool
}

// NewService creates an aggregation service over the store.
func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:  store,
		probe:  audio.Duration,
		repair: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh loads all entries, runs the repair pass unless disabled, and
// returns best-effort statistics plus the enriched entries. Per-entry probe
// failures are swallowed; aggregation never fails because of one bad blob.
func (s *Service) Refresh(ref time.Time) (Stats, []models.Entry, error) {
	entries, err := s.store.LoadAll()
	if err != nil {
		return Stats{}, nil, err
	}
	if s.repair {
		s.repairDurations(entries)
	}

	stats := Stats{EntryCount: len(entries)}
	for _, e := range entries {
		stats.TotalWordCount += e.WordCount()
		if e.AudioDurationSeconds != nil && *e.AudioDurationSeconds > 0 {
			stats.TotalAudioDurationSeconds += *e.AudioDurationSeconds
		}
	}

	weekly, err := s.store.WeeklyCount(ref)
	if err != nil {
		logger.Warn("weekly count unavailable", "error", err)
	} else {
		stats.WeeklyCount = weekly
	}
	return stats, entries, nil
}

// repairDurations backfills missing audio durations in place. Only entries
// with a blob and no cached duration are touched; a zero or failed probe
// leaves the field nil rather than storing zero. Recomputing an
// already-populated duration is a no-op, so the pass is idempotent.
func (s *Service) repairDurations(entries []models.Entry) {
	for i := range entries {
		e := &entries[i]
		if e.AudioDurationSeconds != nil || e.AudioFileName == "" {
			continue
		}
		d, err := s.probe(s.store.AudioPath(e.AudioFileName))
		if err != nil {
			logger.Debug("audio duration probe failed", "id", e.ID, "error", err)
			continue
		}
		if d <= 0 {
			continue
		}
		e.AudioDurationSeconds = &d
		if err := s.store.Save(*e); err != nil {
			logger.Warn("failed to cache audio duration", "id", e.ID, "error", err)
		}
	}
}
