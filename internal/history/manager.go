package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/aggregator"
	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/pricing"
)

// DefaultMaxEntries bounds the history; the oldest entries are pruned first
const DefaultMaxEntries = 500

var bucketSearches = []byte("searches")

// lockTimeout bounds the wait for another process holding the database
const lockTimeout = 1 * time.Second

var (
	// ErrNotFound is returned by Get for unknown IDs
	ErrNotFound = errors.New("history entry not found")

	// ErrLocked is returned by NewManager when another process has the database open
	ErrLocked = errors.New("history database is in use by another process")
)

// Entry records one completed search. Result listings are not stored.
type Entry struct {
	ID           string           `json:"id"`
	Query        string           `json:"query"`
	Timestamp    time.Time        `json:"timestamp"`
	Failed       bool             `json:"failed,omitempty"`
	ResultCount  int              `json:"result_count"`
	SourceCounts map[string]int   `json:"source_counts,omitempty"`
	Summary      *pricing.Summary `json:"summary,omitempty"`
}

// Manager keeps search history in a bolt database
type Manager struct {
	db         *bolt.DB
	maxEntries int

	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewManager opens (or creates) the history database in dir
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	path := filepath.Join(dir, "history.db")
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: lockTimeout})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSearches)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	now := time.Now()
	return &Manager{
		db:         db,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0),
	}, nil
}

// Close releases the database
func (m *Manager) Close() error {
	return m.db.Close()
}

// Record stores the outcome of a search. A non-nil searchErr marks the entry failed.
func (m *Manager) Record(query string, results []aggregator.SearchResult, searchErr error) (*Entry, error) {
	entry := &Entry{
		Query:       query,
		Failed:      searchErr != nil,
		ResultCount: len(results),
	}
	if len(results) > 0 {
		entry.SourceCounts = make(map[string]int)
		for _, group := range aggregator.GroupBySource(results) {
			entry.SourceCounts[group.Source] = len(group.Results)
		}
	}
	if summary, ok := aggregator.Summarize(results); ok {
		entry.Summary = &summary
	}

	m.mu.Lock()
	entry.Timestamp = m.now()
	entry.ID = ulid.MustNew(ulid.Timestamp(entry.Timestamp), m.entropy).String()
	m.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history entry: %w", err)
	}

	err = m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSearches)
		if err := b.Put([]byte(entry.ID), data); err != nil {
			return err
		}
		return prune(b, m.maxEntries)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save history entry: %w", err)
	}
	return entry, nil
}

// prune drops the oldest keys beyond max. ULID keys sort by creation time.
func prune(b *bolt.Bucket, max int) error {
	if max <= 0 {
		return nil
	}
	c := b.Cursor()
	count := 0
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		count++
	}
	excess := count - max
	if excess <= 0 {
		return nil
	}
	var stale [][]byte
	for k, _ := c.First(); k != nil && len(stale) < excess; k, _ = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// List returns up to limit entries, newest first. A non-positive limit returns all.
func (m *Manager) List(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := m.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketSearches).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt history entry %s: %w", k, err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns the entry with id
func (m *Manager) Get(id string) (*Entry, error) {
	var entry *Entry
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSearches).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		entry = &Entry{}
		return json.Unmarshal(v, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Clear removes every entry
func (m *Manager) Clear() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketSearches); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketSearches)
		return err
	})
}
