package pricing

import "strings"

// Item is one selected menu product. Variant carries the chosen preparation
// (coffee style, bread style); Supplements carry paid add-on names. Items are
// replaced wholesale on edit, never mutated in place.
type Item struct {
	Product     string   `json:"product"`
	Variant     string   `json:"variant,omitempty"`
	Supplements []string `json:"supplements,omitempty"`
}

// Valid reports whether the item carries a recognizable product identifier.
// Malformed entries are skipped during pricing so one bad record cannot zero
// out a whole group.
func (i Item) Valid() bool {
	return strings.TrimSpace(i.Product) != ""
}
