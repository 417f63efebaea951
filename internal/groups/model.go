package groups

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonOrder is one participant's slice of the shared group record. It is
// replaced wholesale on every edit; Total is a cached derivation of Items.
type PersonOrder struct {
	Name      string          `json:"name"`
	Items     ItemList        `json:"items"`
	Total     decimal.Decimal `json:"total"`
	JoinedAt  time.Time       `json:"joinedAt"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

// Group is the shared record all participants collaborate on. People is keyed
// by participant name; each participant writes only their own sub-record.
// Total is a cache the pricing engine can always regenerate from Items.
type Group struct {
	ID           string                 `json:"id"`
	CreatedAt    time.Time              `json:"createdAt"`
	LastActivity time.Time              `json:"lastActivity"`
	Paid         bool                   `json:"paid"`
	PaidAt       *time.Time             `json:"paidAt,omitempty"`
	People       map[string]PersonOrder `json:"people"`
	Total        decimal.Decimal        `json:"total"`
}

// Clone returns a deep copy so derived views never alias the original.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	out.People = make(map[string]PersonOrder, len(g.People))
	for name, person := range g.People {
		person.Items = append(ItemList(nil), person.Items...)
		out.People[name] = person
	}
	return &out
}
