package persistence

import (
	"hash/fnv"
	"sync"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

const numShards = 16

// MemoryStorage keeps the most recent reports in memory, evicting the oldest
// once capacity is reached.
type MemoryStorage struct {
	shards [numShards]reportShard

	mu       sync.Mutex
	order    []string // insertion order, oldest first
	capacity int
}

type reportShard struct {
	mu      sync.RWMutex
	reports map[string]*domain.QuoteReport
}

func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = 1
	}
	m := &MemoryStorage{capacity: capacity}
	for i := 0; i < numShards; i++ {
		m.shards[i].reports = make(map[string]*domain.QuoteReport)
	}
	return m
}

func (m *MemoryStorage) getShard(id string) *reportShard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &m.shards[h.Sum32()%numShards]
}

func (m *MemoryStorage) Save(r *domain.QuoteReport) error {
	shard := m.getShard(r.ID)
	shard.mu.Lock()
	_, exists := shard.reports[r.ID]
	shard.reports[r.ID] = r
	shard.mu.Unlock()
	if exists {
		return nil
	}

	m.mu.Lock()
	m.order = append(m.order, r.ID)
	var evicted []string
	if over := len(m.order) - m.capacity; over > 0 {
		evicted = append(evicted, m.order[:over]...)
		m.order = append([]string(nil), m.order[over:]...)
	}
	m.mu.Unlock()

	for _, id := range evicted {
		s := m.getShard(id)
		s.mu.Lock()
		delete(s.reports, id)
		s.mu.Unlock()
	}
	return nil
}

func (m *MemoryStorage) Get(id string) (*domain.QuoteReport, error) {
	shard := m.getShard(id)
	shard.mu.RLock()
	r, ok := shard.reports[id]
	shard.mu.RUnlock()
	if !ok {
		return nil, ErrReportNotFound
	}
	return r, nil
}

// List returns up to limit reports, newest first.
func (m *MemoryStorage) List(limit int) ([]*domain.QuoteReport, error) {
	if limit <= 0 {
		return nil, nil
	}

	m.mu.Lock()
	ids := make([]string, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(ids) < limit; i-- {
		ids = append(ids, m.order[i])
	}
	m.mu.Unlock()

	reports := make([]*domain.QuoteReport, 0, len(ids))
	for _, id := range ids {
		if r, err := m.Get(id); err == nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

// Len returns total count across all shards
func (m *MemoryStorage) Len() int {
	total := 0
	for i := 0; i < numShards; i++ {
		m.shards[i].mu.RLock()
		total += len(m.shards[i].reports)
		m.shards[i].mu.RUnlock()
	}
	return total
}

func (m *MemoryStorage) Close() error {
	return nil
}
