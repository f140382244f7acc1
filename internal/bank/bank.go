package bank

// Category is a taxonomy label grouping banks for filtering.
// Categories are supplied by the registry and never mutated by the
// extraction core.
type Category struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ColorTag string `json:"color_tag,omitempty"`
}

// Bank is a named, categorized pool of interchangeable text options that a
// template placeholder draws from.
type Bank struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	CategoryID string   `json:"category_id"`
	Options    []string `json:"options"`
}
