package save

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSubmitInMemory(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		score    int
		improved bool
		best     int
	}{
		{3, true, 3},
		{2, false, 3},
		{3, false, 3},
		{7, true, 7},
	}
	for _, tt := range tests {
		improved, err := s.Submit(tt.score)
		if err != nil {
			t.Fatalf("Submit(%d): %v", tt.score, err)
		}
		if improved != tt.improved {
			t.Errorf("Submit(%d) improved = %v, want %v", tt.score, improved, tt.improved)
		}
		if got := s.Best(); got != tt.best {
			t.Errorf("Best() after %d = %d, want %d", tt.score, got, tt.best)
		}
	}
	if got := s.Record().Runs; got != len(tests) {
		t.Errorf("Runs = %d, want %d", got, len(tests))
	}
}

func TestSubmitPersists(t *testing.T) {
	appName := fmt.Sprintf("roids_save_test_%d", time.Now().UnixNano())
	m, err := Open(appName)
	if err != nil {
		t.Skipf("save data unavailable: %v", err)
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})

	s, err := New(m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Submit(12); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	reloaded, err := New(m)
	if err != nil {
		t.Fatalf("New after save: %v", err)
	}
	if got := reloaded.Best(); got != 12 {
		t.Errorf("Best() after reload = %d, want 12", got)
	}
}
