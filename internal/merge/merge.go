// Package merge implements the incremental merge store used to keep a
// venue's on-disk catalog current without rewriting entries that haven't
// changed (§4.6). It is the on-disk counterpart to venue.Dedup: where Dedup
// resolves duplicates within a single fetch, Store folds a fresh snapshot
// into whatever was already persisted from previous runs.
package merge

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	appio "github.com/skinarb/skinarb/internal/io"
	"github.com/skinarb/skinarb/internal/venue"
)

// priceEpsilon is the minimum absolute price delta that counts as a real
// change; smaller deltas are treated as noise and the stored price is left
// untouched.
const priceEpsilon = 0.01

// Stats summarizes the outcome of one Merge call.
type Stats struct {
	Inserted          int
	Updated           int
	AssetUpgraded     int
	DuplicatesSkipped int
	Total             int
}

// Catalog is one venue's merged listings, keyed by item name for O(1)
// lookups during merge. Venue and UpdatedAt are in-memory bookkeeping only:
// the on-disk shape (MarshalJSON/UnmarshalJSON below) is the canonical
// array of Listing records the <venue>_data.* files document, with no
// wrapping object — UpdatedAt is instead recovered from the file's mtime
// on Load.
type Catalog struct {
	Venue     string
	UpdatedAt time.Time
	Items     map[string]venue.Listing
}

// MarshalJSON renders the catalog as the bare array of Listing records
// (canonical on-disk shape), sorted by item name for deterministic output.
func (c Catalog) MarshalJSON() ([]byte, error) {
	items := make([]venue.Listing, 0, len(c.Items))
	for _, l := range c.Items {
		items = append(items, l)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemName < items[j].ItemName })
	return json.Marshal(items)
}

// UnmarshalJSON accepts the canonical on-disk array shape and rebuilds the
// keyed map used internally for merge lookups.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var items []venue.Listing
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.Items = make(map[string]venue.Listing, len(items))
	for _, l := range items {
		c.Items[l.ItemName] = l
		if c.Venue == "" {
			c.Venue = l.Venue
		}
	}
	return nil
}

// Store guards one venue's catalog file behind a mutex; writes are
// serialized through a single critical section per §5's ordering guarantee.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the catalog from disk, returning an empty catalog (not an
// error) when the file does not yet exist.
func (s *Store) Load() (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*Catalog, error) {
	info, statErr := os.Stat(s.path)
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Catalog{Items: make(map[string]venue.Listing)}, nil
	}
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = make(map[string]venue.Listing)
	}
	if statErr == nil {
		c.UpdatedAt = info.ModTime()
	}
	return &c, nil
}

// Merge folds incoming into the persisted catalog per the §4.6 rules and
// writes the result back atomically. New items are inserted; existing items
// have their price updated only when the delta is at least priceEpsilon;
// asset URLs are upgraded from remote to cached form when the incoming URL
// references a locally-cached prefix and the stored one does not; exact
// duplicates (same price and URL) are counted and skipped.
func (s *Store) Merge(venueName string, incoming []venue.Listing) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.loadLocked()
	if err != nil {
		return Stats{}, err
	}
	catalog.Venue = venueName

	var stats Stats
	for _, item := range incoming {
		stats.Total++
		existing, ok := catalog.Items[item.ItemName]
		if !ok {
			catalog.Items[item.ItemName] = item
			stats.Inserted++
			continue
		}

		changed := false
		merged := existing

		if priceDelta(existing.Price, item.Price) >= priceEpsilon {
			merged.Price = item.Price
			changed = true
		}

		if isCachedAssetURL(item.URL) && !isCachedAssetURL(existing.URL) {
			merged.URL = item.URL
			stats.AssetUpgraded++
			changed = true
		}

		if changed {
			catalog.Items[item.ItemName] = merged
			stats.Updated++
		} else if existing.Price == item.Price && existing.URL == item.URL {
			stats.DuplicatesSkipped++
		}
	}

	catalog.UpdatedAt = time.Now()
	if err := appio.WriteJSONAtomic(s.path, catalog); err != nil {
		return stats, err
	}
	return stats, nil
}

func priceDelta(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d
}

// isCachedAssetURL reports whether url points at locally-cached image
// storage rather than a remote CDN, per §4.6's "/static/" or "/cache/"
// upgrade rule.
func isCachedAssetURL(url string) bool {
	return strings.Contains(url, "/static/") || strings.Contains(url, "/cache/")
}
