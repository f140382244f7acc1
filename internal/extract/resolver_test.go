package extract

import (
	"testing"

	"github.com/stencilworks/stencil/internal/bank"
)

func TestMergedBanks_SynthesizesNewBanks(t *testing.T) {
	existing := []bank.Bank{
		{ID: "a1", Label: "Animals", CategoryID: "character", Options: []string{"fox"}},
	}
	sels := []Selection{
		{ID: "1", Text: "sword", CategoryID: "item", BankID: "w1", BankName: "Weapons", IsNewBank: true},
	}

	merged := MergedBanks(existing, sels)

	if len(merged) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(merged))
	}
	if merged[0].ID != "a1" {
		t.Errorf("existing bank should come first, got %q", merged[0].ID)
	}
	nb := merged[1]
	if nb.ID != "w1" || nb.Label != "Weapons" || nb.CategoryID != "item" {
		t.Errorf("unexpected synthesized bank: %+v", nb)
	}
	if len(nb.Options) != 0 {
		t.Errorf("resolver must not fill options, got %v", nb.Options)
	}
}

func TestMergedBanks_ExistingIDNotOverridden(t *testing.T) {
	existing := []bank.Bank{
		{ID: "a1", Label: "Animals", CategoryID: "character", Options: []string{"fox"}},
	}
	sels := []Selection{
		{ID: "1", Text: "wolf", CategoryID: "setting", BankID: "a1", BankName: "Renamed", IsNewBank: true},
	}

	merged := MergedBanks(existing, sels)

	if len(merged) != 1 {
		t.Fatalf("expected 1 bank, got %d", len(merged))
	}
	if merged[0].Label != "Animals" {
		t.Errorf("existing bank was overridden: %+v", merged[0])
	}
}

func TestMergedBanks_IgnoresExistingBankSelections(t *testing.T) {
	sels := []Selection{
		{ID: "1", Text: "fox", CategoryID: "character", BankID: "a1", BankName: "Animals", IsNewBank: false},
	}
	merged := MergedBanks(nil, sels)
	if len(merged) != 0 {
		t.Errorf("selection against an existing bank must not synthesize an entry: %+v", merged)
	}
}

func TestMergedBanks_DedupsRepeatedProposals(t *testing.T) {
	sels := []Selection{
		{ID: "1", Text: "fox", CategoryID: "character", BankID: "a1", BankName: "Animals", IsNewBank: true},
		{ID: "2", Text: "wolf", CategoryID: "character", BankID: "a1", BankName: "Animals", IsNewBank: true},
	}
	merged := MergedBanks(nil, sels)
	if len(merged) != 1 {
		t.Errorf("expected 1 synthesized bank, got %d", len(merged))
	}
}

func TestByCategory_FiltersAndDefaultsToOther(t *testing.T) {
	banks := []bank.Bank{
		{ID: "a1", CategoryID: "character"},
		{ID: "b1", CategoryID: ""},
		{ID: "c1", CategoryID: "item"},
		{ID: "d1", CategoryID: "other"},
	}

	chars := ByCategory(banks, "character")
	if len(chars) != 1 || chars[0].ID != "a1" {
		t.Errorf("unexpected character banks: %+v", chars)
	}

	other := ByCategory(banks, "other")
	if len(other) != 2 || other[0].ID != "b1" || other[1].ID != "d1" {
		t.Errorf("expected unset category to count as other, got %+v", other)
	}
}
