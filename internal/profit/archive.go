package profit

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	appio "github.com/skinarb/skinarb/internal/io"
)

// maxHistory bounds OpportunityArchive.History at 10 entries (§3).
const maxHistory = 10

// Snapshot is one point-in-time scan result, persisted both as the
// archive's current entry and (once superseded) as a history entry.
type Snapshot struct {
	Timestamp     time.Time     `json:"timestamp"`
	Total         int           `json:"total"`
	Mode          Mode          `json:"mode"`
	Opportunities []Opportunity `json:"opportunities"`
}

// Archive is the on-disk OpportunityArchive: the latest scan plus a
// ring-buffered history of prior scans, capped at maxHistory entries.
type Archive struct {
	Current     Snapshot   `json:"current"`
	LastUpdated time.Time  `json:"last_updated"`
	History     []Snapshot `json:"history"`
}

// ArchiveStore guards one archive file behind a mutex; writes are
// serialized through a single critical section per §5.
type ArchiveStore struct {
	mu   sync.Mutex
	path string
}

func NewArchiveStore(path string) *ArchiveStore {
	return &ArchiveStore{path: path}
}

func (s *ArchiveStore) Load() (*Archive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *ArchiveStore) loadLocked() (*Archive, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Archive{}, nil
	}
	if err != nil {
		return nil, err
	}
	var a Archive
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Push writes a new current snapshot, pushing the previous current onto
// history (ring-buffered at maxHistory), then persists atomically.
func (s *ArchiveStore) Push(snap Snapshot) (*Archive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archive, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	if !archive.Current.Timestamp.IsZero() {
		archive.History = append(archive.History, archive.Current)
		if len(archive.History) > maxHistory {
			archive.History = archive.History[len(archive.History)-maxHistory:]
		}
	}
	archive.Current = snap
	archive.LastUpdated = snap.Timestamp

	if err := appio.WriteJSONAtomic(s.path, archive); err != nil {
		return nil, err
	}
	return archive, nil
}
