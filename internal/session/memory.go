package session

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const memoryShards = 32

// MemoryStore keeps sessions in process memory, sharded by identity so
// concurrent access to different identities does not contend. Sessions
// are lost on restart, which is accepted: users simply restart the flow.
type MemoryStore struct {
	shards [memoryShards]memoryShard
	now    func() time.Time
}

type memoryShard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for i := range s.shards {
		s.shards[i].sessions = make(map[string]*Session)
	}
	return s
}

func (s *MemoryStore) shard(identity string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(identity))
	return &s.shards[h.Sum32()%memoryShards]
}

func (s *MemoryStore) Get(_ context.Context, identity string) (*Session, error) {
	shard := s.shard(identity)

	shard.mu.RLock()
	sess, ok := shard.sessions[identity]
	shard.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if sess.Expired(s.now()) {
		shard.mu.Lock()
		delete(shard.sessions, identity)
		shard.mu.Unlock()
		return nil, nil
	}

	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, identity string, sess *Session) error {
	shard := s.shard(identity)

	copied := *sess

	shard.mu.Lock()
	shard.sessions[identity] = &copied
	shard.mu.Unlock()
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, identity string, now time.Time) error {
	shard := s.shard(identity)

	shard.mu.Lock()
	if sess, ok := shard.sessions[identity]; ok {
		sess.LastActive = now
	}
	shard.mu.Unlock()
	return nil
}
