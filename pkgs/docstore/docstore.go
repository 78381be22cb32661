// Package docstore content-addresses docstring bodies so identical
// docstrings attached to different declarations share one stored copy
// instead of being duplicated.
package docstore

import (
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Hash is the blake2b-256 content address of a docstring body.
type Hash [32]byte

// Store deduplicates docstring bodies by content hash.
type Store struct {
	mu   sync.Mutex
	byID map[Hash]string
}

// New creates an empty store.
func New() *Store {
	return &Store{byID: make(map[Hash]string)}
}

// Intern registers text under its content hash, returning the hash.
// A body already seen is not stored twice.
func (s *Store) Intern(text string) Hash {
	id := Hash(blake2b.Sum256([]byte(text)))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		s.byID[id] = text
	}
	return id
}

// Text returns the body stored under id, if any.
func (s *Store) Text(id Hash) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.byID[id]
	return text, ok
}

// Len reports how many distinct docstring bodies are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
