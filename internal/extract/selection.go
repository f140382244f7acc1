package extract

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidSelection is returned by Store.Add when the selection text is
// empty or the category is not recognized. The store is unchanged on failure.
var ErrInvalidSelection = errors.New("invalid selection")

// IDFunc generates a fresh unique selection id. Injectable so tests can use
// deterministic ids.
type IDFunc func() string

// Selection is a user's pending assignment of one extracted text span to a
// category and bank. It lives only inside a session's Store until compiled
// or discarded.
type Selection struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	CategoryID string `json:"category_id"`
	BankID     string `json:"bank_id"`
	BankName   string `json:"bank_name"`
	IsNewBank  bool   `json:"is_new_bank"`
}

// Store accumulates pending selections for one import session, in insertion
// order. Insertion order is semantically significant: it is the tie-break
// and "wins" axis for both dedup passes in Compile.
//
// A Store is not safe for concurrent use; callers serialize access per
// session.
type Store struct {
	gen           IDFunc
	knownCategory func(string) bool
	selections    []Selection
}

// NewStore creates an empty selection store. A nil gen defaults to random
// UUIDs; a nil knownCategory accepts every category id.
func NewStore(gen IDFunc, knownCategory func(string) bool) *Store {
	if gen == nil {
		gen = uuid.NewString
	}
	if knownCategory == nil {
		knownCategory = func(string) bool { return true }
	}
	return &Store{gen: gen, knownCategory: knownCategory}
}

// Add appends a new selection and returns it.
func (s *Store) Add(text, categoryID, bankID, bankName string, isNewBank bool) (Selection, error) {
	if text == "" {
		return Selection{}, fmt.Errorf("%w: text is empty", ErrInvalidSelection)
	}
	if !s.knownCategory(categoryID) {
		return Selection{}, fmt.Errorf("%w: unknown category %q", ErrInvalidSelection, categoryID)
	}
	sel := Selection{
		ID:         s.gen(),
		Text:       text,
		CategoryID: categoryID,
		BankID:     bankID,
		BankName:   bankName,
		IsNewBank:  isNewBank,
	}
	s.selections = append(s.selections, sel)
	return sel, nil
}

// Remove deletes the selection with the given id. Removing an unknown id is
// a no-op, not an error.
func (s *Store) Remove(id string) {
	for i, sel := range s.selections {
		if sel.ID == id {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
			return
		}
	}
}

// List returns a copy of all selections in insertion order.
func (s *Store) List() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Len returns the number of pending selections.
func (s *Store) Len() int {
	return len(s.selections)
}

// Reset clears all selections for a fresh session.
func (s *Store) Reset() {
	s.selections = nil
}
