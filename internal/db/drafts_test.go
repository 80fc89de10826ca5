package db

import (
	"testing"

	"github.com/jonathan/draft-assistant/internal/draftstore"
)

// The store consumes this package through its Persistence interface; keep
// the two from drifting apart.
var _ draftstore.Persistence = (*DB)(nil)

func TestDraftColumnsStayInSyncWithScan(t *testing.T) {
	// scanDraft scans 8 values; draftColumns must name exactly those.
	want := 8
	got := 1
	for _, c := range draftColumns {
		if c == ',' {
			got++
		}
	}
	if got != want {
		t.Fatalf("draftColumns lists %d columns, scanDraft expects %d", got, want)
	}
}
