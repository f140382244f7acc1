package extract

import "github.com/stencilworks/stencil/internal/bank"

// CategoryOther is the category assigned to banks with no category set.
const CategoryOther = "other"

// MergedBanks overlays banks proposed in the current session onto the
// persisted registry view, so callers can render which banks exist right now
// including ones not yet committed. Existing banks come first in registry
// order; synthesized new banks follow in selection insertion order, skipping
// ids already present. Options are never filled here — option population is
// Compile's job.
func MergedBanks(existing []bank.Bank, selections []Selection) []bank.Bank {
	merged := make([]bank.Bank, 0, len(existing))
	seen := make(map[string]bool, len(existing))
	for _, b := range existing {
		merged = append(merged, b)
		seen[b.ID] = true
	}
	for _, sel := range selections {
		if !sel.IsNewBank || sel.BankID == "" || seen[sel.BankID] {
			continue
		}
		merged = append(merged, bank.Bank{
			ID:         sel.BankID,
			Label:      sel.BankName,
			CategoryID: sel.CategoryID,
			Options:    []string{},
		})
		seen[sel.BankID] = true
	}
	return merged
}

// ByCategory filters banks to one category, preserving input order. A bank
// with no category counts as CategoryOther.
func ByCategory(banks []bank.Bank, categoryID string) []bank.Bank {
	var out []bank.Bank
	for _, b := range banks {
		cat := b.CategoryID
		if cat == "" {
			cat = CategoryOther
		}
		if cat == categoryID {
			out = append(out, b)
		}
	}
	return out
}
