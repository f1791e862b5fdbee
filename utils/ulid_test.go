package utils

import (
	"sync"
	"testing"
)

func TestNewRunIDParses(t *testing.T) {
	id := NewRunID()
	if len(id) != 26 {
		t.Fatalf("ULID strings are 26 chars, got %d (%q)", len(id), id)
	}
	if _, err := ParseRunID(id); err != nil {
		t.Fatalf("ParseRunID(%q): %v", id, err)
	}
}

func TestParseRunIDRejectsGarbage(t *testing.T) {
	if _, err := ParseRunID("not-a-ulid"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewRunIDUniqueUnderConcurrency(t *testing.T) {
	const n = 100
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewRunID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate run ID %q", id)
		}
		seen[id] = true
	}
}
