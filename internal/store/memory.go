package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// MemoryStore keeps documents in process memory. It backs tests and the
// "memory" environment.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[path] = doc.Clone()
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, path string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[path]; ok {
		return ErrExists
	}
	s.docs[path] = doc.Clone()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		doc = make(Document, len(fields))
		s.docs[path] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, path, field string, delta int64, opts IncrementOptions) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok && opts.RequireExisting {
		return 0, ErrNotFound
	}
	if opts.GuardPath != "" {
		if _, exists := s.docs[opts.GuardPath]; exists {
			return 0, ErrGuardExists
		}
	}
	if !ok {
		doc = make(Document)
		s.docs[path] = doc
	}

	value := doc.Int(field) + delta
	doc[field] = strconv.FormatInt(value, 10)
	for k, v := range opts.Set {
		doc[k] = v
	}
	if opts.GuardPath != "" {
		guard := opts.GuardDocument.Clone()
		if len(guard) == 0 {
			guard["guard"] = "1"
		}
		s.docs[opts.GuardPath] = guard
	}
	return value, nil
}

func (s *MemoryStore) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.docs[path]; ok {
		return true, nil
	}
	prefix := path + "/"
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := strings.TrimSuffix(prefix, "/") + "/"
	var entries []Entry
	for key, doc := range s.docs {
		if strings.HasPrefix(key, p) {
			entries = append(entries, Entry{Path: key, Document: doc.Clone()})
		}
	}
	sortEntries(entries)
	return entries, nil
}
