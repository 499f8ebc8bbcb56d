package phrase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "banned.txt")
	s, err := NewStore(CategoryText, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, path
}

func TestNewStore_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banned.txt")

	s, err := NewStore(CategoryText, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file was not created: %v", err)
	}
}

func TestNewStore_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banned.txt")
	content := "cheap watches\n\n   \nfree crypto\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	s, err := NewStore(CategoryText, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	got := s.Phrases()
	want := []string{"cheap watches", "free crypto"}
	if len(got) != len(want) {
		t.Fatalf("Phrases() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Phrases()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAdd_DedupCaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)

	ok, err := s.Add("Cheap Watches")
	if err != nil || !ok {
		t.Fatalf("Add = (%v, %v), want (true, nil)", ok, err)
	}

	// Same phrase in a different case must not duplicate.
	ok, err = s.Add("cheap watches")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok {
		t.Error("Add of case-variant duplicate returned true")
	}

	got := s.Phrases()
	if len(got) != 1 {
		t.Fatalf("Phrases() = %v, want exactly one entry", got)
	}
	// Stored form keeps the original casing.
	if got[0] != "Cheap Watches" {
		t.Errorf("stored phrase = %q, want %q", got[0], "Cheap Watches")
	}
}

func TestAdd_TrimsWhitespace(t *testing.T) {
	s, _ := newTestStore(t)

	if ok, _ := s.Add("  spam offer  "); !ok {
		t.Fatal("Add of trimmed phrase failed")
	}
	if got := s.Phrases()[0]; got != "spam offer" {
		t.Errorf("stored phrase = %q, want %q", got, "spam offer")
	}
	if ok, _ := s.Add("spam offer"); ok {
		t.Error("Add of already-present trimmed phrase returned true")
	}
}

func TestAdd_EmptyPhrase(t *testing.T) {
	s, _ := newTestStore(t)

	if ok, err := s.Add("   "); ok || err != nil {
		t.Errorf("Add(blank) = (%v, %v), want (false, nil)", ok, err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after blank add, want 0", s.Len())
	}
}

func TestRemove_CaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)

	if ok, _ := s.Add("Cheap Watches"); !ok {
		t.Fatal("seed Add failed")
	}

	ok, err := s.Remove("cheap watches")
	if err != nil || !ok {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", ok, err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after remove, want 0", s.Len())
	}

	// Second remove of the same phrase reports not found.
	ok, err = s.Remove("cheap watches")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok {
		t.Error("second Remove returned true")
	}
}

func TestRemove_RemovesFirstMatchOnly(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("one")
	s.Add("two")
	s.Add("three")

	if ok, _ := s.Remove("two"); !ok {
		t.Fatal("Remove(two) failed")
	}

	got := s.Phrases()
	want := []string{"one", "three"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Phrases() = %v, want %v", got, want)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	phrases := []string{"cheap watches", "FREE crypto", "казино онлайн"}
	for _, p := range phrases {
		if ok, err := s.Add(p); err != nil || !ok {
			t.Fatalf("Add(%q) = (%v, %v)", p, ok, err)
		}
	}

	// A fresh store over the same file sees the same ordered list.
	reloaded, err := NewStore(CategoryText, path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.Phrases()
	if len(got) != len(phrases) {
		t.Fatalf("reloaded %v, want %v", got, phrases)
	}
	for i := range phrases {
		if got[i] != phrases[i] {
			t.Errorf("reloaded[%d] = %q, want %q", i, got[i], phrases[i])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := strings.Join(phrases, "\n") + "\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

func TestPhrases_DefensiveCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("original")

	got := s.Phrases()
	got[0] = "mutated"

	if s.Phrases()[0] != "original" {
		t.Error("mutating the returned slice changed the store")
	}
}

func TestRefresh_PicksUpExternalEdit(t *testing.T) {
	s, path := newTestStore(t)
	s.Add("old phrase")

	if err := os.WriteFile(path, []byte("new phrase\n"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}
	if err := s.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := s.Phrases()
	if len(got) != 1 || got[0] != "new phrase" {
		t.Errorf("Phrases() after refresh = %v, want [new phrase]", got)
	}
}

func TestAdd_PersistFailureLeavesMemoryUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banned.txt")
	s, err := NewStore(CategoryText, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if ok, _ := s.Add("kept"); !ok {
		t.Fatal("seed Add failed")
	}

	// Make the directory read-only so the temp-file write fails.
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(dir, 0o755)

	if os.Geteuid() == 0 {
		t.Skip("running as root, read-only directory is not enforced")
	}

	ok, err := s.Add("lost")
	if err == nil {
		t.Fatal("Add succeeded despite read-only directory")
	}
	if ok {
		t.Error("Add returned true on persistence failure")
	}

	got := s.Phrases()
	if len(got) != 1 || got[0] != "kept" {
		t.Errorf("Phrases() = %v, want [kept]", got)
	}
}
