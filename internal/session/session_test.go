package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stencilworks/stencil/internal/extract"
)

func testGen() extract.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(time.Hour, testGen())
	sess := m.Create("Demo", "some text", nil)

	if sess.ID == "" {
		t.Fatal("expected a session id")
	}
	if got := m.Get(sess.ID); got != sess {
		t.Errorf("Get returned a different session: %v", got)
	}
	if m.Get("missing") != nil {
		t.Error("expected nil for unknown session id")
	}
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(time.Hour, testGen())
	sess := m.Create("", "text", nil)

	m.Delete(sess.ID)
	if m.Get(sess.ID) != nil {
		t.Error("session still present after delete")
	}

	// Deleting again is a no-op.
	m.Delete(sess.ID)
}

func TestManager_CleanupEvictsIdleSessions(t *testing.T) {
	m := NewManager(10*time.Millisecond, testGen())
	stale := m.Create("", "old", nil)
	m.Create("", "fresh", nil)

	// Backdate the stale session past the TTL.
	stale.mu.Lock()
	stale.updatedAt = time.Now().Add(-time.Minute)
	stale.mu.Unlock()

	m.Cleanup()

	if m.Get(stale.ID) != nil {
		t.Error("stale session survived cleanup")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 session after cleanup, got %d", m.Len())
	}
}

func TestSession_SelectionLifecycle(t *testing.T) {
	m := NewManager(time.Hour, testGen())
	sess := m.Create("", "The fox jumps.", func(id string) bool { return id == "character" })

	sel, err := sess.AddSelection("fox", "character", "a1", "Animals", true)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := sess.AddSelection("fox", "vehicle", "a1", "Animals", true); !errors.Is(err, extract.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection for unknown category, got %v", err)
	}
	if len(sess.Selections()) != 1 {
		t.Errorf("failed add altered the session: %d selections", len(sess.Selections()))
	}

	sess.RemoveSelection("not-there")
	if len(sess.Selections()) != 1 {
		t.Error("removing an unknown id altered the session")
	}

	sess.RemoveSelection(sel.ID)
	if len(sess.Selections()) != 0 {
		t.Error("selection not removed")
	}
}

func TestSession_ResetClearsSelectionsOnly(t *testing.T) {
	m := NewManager(time.Hour, testGen())
	sess := m.Create("Title", "The fox jumps.", nil)
	if _, err := sess.AddSelection("fox", "character", "a1", "Animals", true); err != nil {
		t.Fatal(err)
	}

	sess.Reset()

	if len(sess.Selections()) != 0 {
		t.Error("selections survived reset")
	}
	if sess.Content != "The fox jumps." || sess.Title != "Title" {
		t.Error("reset must not touch session content or title")
	}
}

func TestSession_CompileUsesStoredSelections(t *testing.T) {
	m := NewManager(time.Hour, testGen())
	sess := m.Create("", "The fox jumps over the fox.", nil)
	if _, err := sess.AddSelection("fox", "character", "a1", "Animals", true); err != nil {
		t.Fatal(err)
	}

	res := sess.Compile()

	want := "The {{a1}} jumps over the {{a1}}."
	if res.FinalContent != want {
		t.Errorf("expected %q, got %q", want, res.FinalContent)
	}
	if len(res.ProcessedBanks) != 1 {
		t.Errorf("expected 1 bank write, got %d", len(res.ProcessedBanks))
	}
}

func TestSession_SnapshotIsJSONSafeCopy(t *testing.T) {
	m := NewManager(time.Hour, testGen())
	sess := m.Create("Title", "content", nil)
	sess.AddSelection("content", "other", "b1", "Bank", false)

	snap := sess.Snapshot()
	if snap.ID != sess.ID || snap.Title != "Title" || snap.Content != "content" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Selections) != 1 {
		t.Fatalf("expected 1 selection in snapshot, got %d", len(snap.Selections))
	}

	snap.Selections[0].Text = "mutated"
	if sess.Selections()[0].Text != "content" {
		t.Error("mutating snapshot leaked into the session")
	}
}
