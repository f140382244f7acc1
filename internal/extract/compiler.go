package extract

import (
	"sort"
	"strings"
)

// BankWrite instructs the persistence layer to add one option to one bank.
// The downstream merge can be a plain set-union: Compile guarantees no
// duplicate (BankID, OptionText) pairs.
type BankWrite struct {
	BankID     string `json:"bank_id"`
	BankName   string `json:"bank_name"`
	CategoryID string `json:"category_id"`
	OptionText string `json:"option_text"`
	IsNewBank  bool   `json:"is_new_bank"`
}

// Result is the output of compiling an import session: the templated text
// plus the deduplicated bank-write instructions.
type Result struct {
	FinalContent   string      `json:"final_content"`
	ProcessedBanks []BankWrite `json:"processed_banks"`
}

// Compile rewrites every occurrence of each selected string in raw into its
// bank placeholder {{bankID}} and reports the deduplicated bank writes. It
// is total: empty text, an empty selection list and selections whose text
// never occurs are all fine. Selections with empty text (which Add rejects,
// but could be injected directly) are skipped.
//
// Two dedup passes run independently. Bank writes keep the first selection
// seen per (bankID, text); substitution targets keep the last selection seen
// per text. So a string selected twice for different banks substitutes to
// the later bank's placeholder while the earlier bank still receives its
// option write. The asymmetry is intentional and must be preserved.
func Compile(raw string, selections []Selection) Result {
	writes := dedupBankWrites(selections)
	targets := dedupTargets(selections)

	// Longer strings substitute first so a shorter selection that is a
	// substring of a longer one cannot mangle its occurrences. Ties keep
	// first-appearance order.
	sort.SliceStable(targets, func(i, j int) bool {
		return len(targets[i].Text) > len(targets[j].Text)
	})

	content := raw
	for _, t := range targets {
		content = strings.ReplaceAll(content, t.Text, "{{"+t.BankID+"}}")
	}

	return Result{FinalContent: content, ProcessedBanks: writes}
}

// dedupBankWrites keeps the first selection per (bankID, text) key.
// Re-marking the same span for the same bank must not duplicate an option.
// Output order is insertion order of first occurrence.
func dedupBankWrites(selections []Selection) []BankWrite {
	writes := make([]BankWrite, 0, len(selections))
	seen := make(map[[2]string]bool, len(selections))
	for _, sel := range selections {
		if sel.Text == "" {
			continue
		}
		key := [2]string{sel.BankID, sel.Text}
		if seen[key] {
			continue
		}
		seen[key] = true
		writes = append(writes, BankWrite{
			BankID:     sel.BankID,
			BankName:   sel.BankName,
			CategoryID: sel.CategoryID,
			OptionText: sel.Text,
			IsNewBank:  sel.IsNewBank,
		})
	}
	return writes
}

// dedupTargets keeps the most recent selection per distinct text. A text's
// slot stays at its first-appearance position; only the retained selection
// changes when the text is seen again.
func dedupTargets(selections []Selection) []Selection {
	index := make(map[string]int, len(selections))
	var targets []Selection
	for _, sel := range selections {
		if sel.Text == "" {
			continue
		}
		if i, ok := index[sel.Text]; ok {
			targets[i] = sel
			continue
		}
		index[sel.Text] = len(targets)
		targets = append(targets, sel)
	}
	return targets
}
