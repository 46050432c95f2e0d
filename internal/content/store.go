package content

import (
	"sync"
	"time"

	"socsite/internal/model"
)

// Snapshot is the complete content a render works from. Readers receive a
// copy of the header; slices are never mutated after the swap.
type Snapshot struct {
	Site     model.Site
	LoadedAt time.Time

	// FeedEvents is the number of records that came from ICS feeds.
	FeedEvents int
}

// Store holds the current snapshot. Static events (built-in or data file)
// stay fixed; feed events are replaced as a whole on every sync.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	static []model.EventRecord
	synced bool

	readyAt time.Time
}

// NewStore builds a store for site. needsSync is false when no feeds are
// configured, in which case the store is ready once loadingDelay has passed.
func NewStore(site model.Site, needsSync bool, loadingDelay time.Duration, now time.Time) *Store {
	if loadingDelay < 0 {
		loadingDelay = 0
	}
	return &Store{
		snap:    Snapshot{Site: site, LoadedAt: now},
		static:  site.Events,
		synced:  !needsSync,
		readyAt: now.Add(loadingDelay),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// ReplaceFeedEvents swaps in a new snapshot whose events are the static
// records followed by feed. A feed record whose ID collides with an earlier
// record is dropped.
func (s *Store) ReplaceFeedEvents(feed []model.EventRecord, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.static)+len(feed))
	events := make([]model.EventRecord, 0, len(s.static)+len(feed))
	for _, ev := range s.static {
		seen[ev.ID] = struct{}{}
		events = append(events, ev)
	}
	added := 0
	for _, ev := range feed {
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		events = append(events, ev)
		added++
	}

	site := s.snap.Site
	site.Events = events
	s.snap = Snapshot{Site: site, LoadedAt: at, FeedEvents: added}
	s.synced = true
}

// MarkSynced ends the loading state without changing content; used when the
// first sync fails and there is nothing better to show.
func (s *Store) MarkSynced() {
	s.mu.Lock()
	s.synced = true
	s.mu.Unlock()
}

// Ready reports whether event surfaces should render real content rather
// than the skeleton.
func (s *Store) Ready(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced && !now.Before(s.readyAt)
}
