package extract

import (
	"errors"
	"testing"
)

func knownCats(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestStore_AddAssignsUniqueIDs(t *testing.T) {
	store := NewStore(seqID(), knownCats("character"))

	a, err := store.Add("fox", "character", "a1", "Animals", true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Add("wolf", "character", "a1", "Animals", false)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both were %q", a.ID)
	}
	if got := store.Len(); got != 2 {
		t.Errorf("expected 2 selections, got %d", got)
	}
}

func TestStore_AddEmptyTextFails(t *testing.T) {
	store := NewStore(seqID(), knownCats("character"))

	_, err := store.Add("", "character", "a1", "Animals", true)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store changed on failed add: %d selections", store.Len())
	}
}

func TestStore_AddUnknownCategoryFails(t *testing.T) {
	store := NewStore(seqID(), knownCats("character"))

	_, err := store.Add("fox", "vehicle", "a1", "Animals", true)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store changed on failed add: %d selections", store.Len())
	}
}

func TestStore_RemoveMissingIDIsNoOp(t *testing.T) {
	store := NewStore(seqID(), nil)
	if _, err := store.Add("fox", "character", "a1", "Animals", true); err != nil {
		t.Fatal(err)
	}

	store.Remove("no-such-id")

	if store.Len() != 1 {
		t.Errorf("remove of missing id altered the store: %d selections", store.Len())
	}
}

func TestStore_RemoveDeletesMatching(t *testing.T) {
	store := NewStore(seqID(), nil)
	a, _ := store.Add("fox", "character", "a1", "Animals", true)
	b, _ := store.Add("wolf", "character", "a1", "Animals", false)

	store.Remove(a.ID)

	list := store.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 selection, got %d", len(list))
	}
	if list[0].ID != b.ID {
		t.Errorf("expected remaining selection %q, got %q", b.ID, list[0].ID)
	}
}

func TestStore_ListPreservesInsertionOrder(t *testing.T) {
	store := NewStore(seqID(), nil)
	texts := []string{"one", "two", "three"}
	for _, txt := range texts {
		if _, err := store.Add(txt, "other", "b1", "Bank", false); err != nil {
			t.Fatal(err)
		}
	}

	list := store.List()
	for i, txt := range texts {
		if list[i].Text != txt {
			t.Errorf("position %d: expected %q, got %q", i, txt, list[i].Text)
		}
	}
}

func TestStore_ListReturnsCopy(t *testing.T) {
	store := NewStore(seqID(), nil)
	store.Add("fox", "character", "a1", "Animals", true)

	list := store.List()
	list[0].Text = "mutated"

	if store.List()[0].Text != "fox" {
		t.Error("mutating List() result leaked into the store")
	}
}

func TestStore_Reset(t *testing.T) {
	store := NewStore(seqID(), nil)
	store.Add("fox", "character", "a1", "Animals", true)
	store.Reset()

	if store.Len() != 0 {
		t.Errorf("expected empty store after reset, got %d", store.Len())
	}
}
