// Package sync provides concurrency primitives shared across the registries.
package sync

import (
	"sync"

	"tokengate/pkg/domain"
)

const shardCount = 32

type shard struct {
	mu  sync.RWMutex
	set map[domain.Address]struct{}
}

// ShardedAddressSet is a concurrent membership set for addresses. Instead of a
// single global lock, entries are distributed across 32 shards keyed by the
// address bytes, reducing contention when many verifications and lookups run
// concurrently.
type ShardedAddressSet struct {
	shards [shardCount]shard
}

// NewShardedAddressSet creates an empty set with all shards initialized.
func NewShardedAddressSet() *ShardedAddressSet {
	s := &ShardedAddressSet{}
	for i := range s.shards {
		s.shards[i].set = make(map[domain.Address]struct{})
	}
	return s
}

// Add inserts addr and reports whether it was newly added.
func (s *ShardedAddressSet) Add(addr domain.Address) bool {
	sh := &s.shards[s.shardFor(addr)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.set[addr]; ok {
		return false
	}
	sh.set[addr] = struct{}{}
	return true
}

// Contains reports membership.
func (s *ShardedAddressSet) Contains(addr domain.Address) bool {
	sh := &s.shards[s.shardFor(addr)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.set[addr]
	return ok
}

// Len returns the total number of entries across all shards.
func (s *ShardedAddressSet) Len() int {
	var n int
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += len(s.shards[i].set)
		s.shards[i].mu.RUnlock()
	}
	return n
}

// shardFor hashes the address bytes to a shard index.
func (s *ShardedAddressSet) shardFor(addr domain.Address) int {
	var h uint32
	for _, b := range addr {
		h = h*31 + uint32(b)
	}
	return int(h % shardCount)
}
