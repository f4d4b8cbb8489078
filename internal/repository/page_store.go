// Package repository holds the in-memory buffer for captured pages.
package repository

import (
	"sync"

	"batch-scanner/internal/domain"
)

// MemoryPageStore keeps captured pages keyed by ID until they are
// saved or discarded. It is intentionally unbounded; the session
// controller enforces any configured page cap before capturing.
type MemoryPageStore struct {
	mu    sync.RWMutex
	pages map[string]*domain.ScanPage
}

// NewMemoryPageStore creates an empty page store.
func NewMemoryPageStore() *MemoryPageStore {
	return &MemoryPageStore{
		pages: make(map[string]*domain.ScanPage),
	}
}

// Put inserts a page, replacing any existing entry with the same ID.
func (s *MemoryPageStore) Put(page *domain.ScanPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.ID] = page
}

// Get returns the page for an ID or domain.ErrPageNotFound.
func (s *MemoryPageStore) Get(id string) (*domain.ScanPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	return page, nil
}

// RemoveMany deletes the given IDs and returns how many were present.
// Buffers are released for collection as soon as entries are deleted.
func (s *MemoryPageStore) RemoveMany(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := s.pages[id]; ok {
			delete(s.pages, id)
			removed++
		}
	}
	return removed
}

// Clear removes every page.
func (s *MemoryPageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[string]*domain.ScanPage)
}

// Len returns the number of stored pages.
func (s *MemoryPageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}
