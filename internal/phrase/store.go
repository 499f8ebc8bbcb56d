// Package phrase provides the persisted deny-lists the moderation pipeline
// matches against. Each category (text phrases, image keywords) owns one
// ordered list of phrases mirrored 1:1 to a UTF-8 line-per-phrase file.
//
// The file is the source of truth: every mutation rewrites it in full, and
// the in-memory list is only updated after the write has been committed, so
// memory and disk never diverge on a failed write.
package phrase

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category selects which deny-list and which matching policy apply.
type Category string

const (
	// CategoryText holds phrases matched as substrings of message text.
	CategoryText Category = "text"

	// CategoryImage holds keyword lines matched against OCR-extracted text
	// with the all-words-present policy.
	CategoryImage Category = "image"
)

// Store is one category's deny-list backed by a line-oriented file.
// Safe for concurrent use.
type Store struct {
	category Category
	path     string

	mu      sync.Mutex
	phrases []string
}

// NewStore loads the deny-list for a category from path, creating the file
// empty if it does not exist.
func NewStore(category Category, path string) (*Store, error) {
	s := &Store{category: category, path: path}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Category returns the store's category tag.
func (s *Store) Category() Category { return s.category }

// Refresh re-reads the persisted file, replacing the in-memory list.
// Called once at construction and again after external edits; per-message
// reloads are deliberately avoided.
func (s *Store) Refresh() error {
	f, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("phrase: open %s: %w", s.path, err)
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("phrase: read %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.phrases = phrases
	s.mu.Unlock()
	return nil
}

// Add appends a phrase to the deny-list and persists it. The phrase is
// trimmed; comparison against existing entries is case-insensitive. Returns
// false without mutating anything if an equal phrase is already present.
// The stored form keeps the caller's casing.
func (s *Store) Add(raw string) (bool, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(p)
	for _, existing := range s.phrases {
		if strings.ToLower(existing) == lowered {
			return false, nil
		}
	}

	next := make([]string, len(s.phrases), len(s.phrases)+1)
	copy(next, s.phrases)
	next = append(next, p)

	if err := s.persist(next); err != nil {
		return false, err
	}
	s.phrases = next
	return true, nil
}

// Remove deletes the first entry case-insensitively equal to the trimmed
// phrase and persists the shortened list. Returns false if no entry matched.
// Removal is case-insensitive to stay symmetric with Add.
func (s *Store) Remove(raw string) (bool, error) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.phrases {
		if strings.ToLower(existing) != lowered {
			continue
		}
		next := make([]string, 0, len(s.phrases)-1)
		next = append(next, s.phrases[:i]...)
		next = append(next, s.phrases[i+1:]...)

		if err := s.persist(next); err != nil {
			return false, err
		}
		s.phrases = next
		return true, nil
	}
	return false, nil
}

// Phrases returns a copy of the current entries in insertion order.
func (s *Store) Phrases() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.phrases)
}

// persist rewrites the whole file atomically: write to a temp file in the
// same directory, sync, then rename over the original. Caller holds s.mu.
func (s *Store) persist(phrases []string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("phrase: create temp: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, p := range phrases {
		if _, err := w.WriteString(p + "\n"); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("phrase: write temp: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("phrase: flush temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("phrase: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("phrase: rename %s: %w", s.path, err)
	}
	return nil
}
