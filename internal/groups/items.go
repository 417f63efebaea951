package groups

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
)

// ItemList normalizes the two shapes the shared store produces for item
// collections: a JSON array, or an index-keyed object ({"0":…,"1":…}) when
// the store flattens sparse arrays. Either way the result is an ordered
// sequence, which governs the greedy matcher's tie-break.
type ItemList []pricing.Item

func (l *ItemList) UnmarshalJSON(data []byte) error {
	var asList []pricing.Item
	if err := json.Unmarshal(data, &asList); err == nil {
		*l = asList
		return nil
	}

	var asMap map[string]pricing.Item
	if err := json.Unmarshal(data, &asMap); err != nil {
		return err
	}

	keys := make([]string, 0, len(asMap))
	for key := range asMap {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		if aErr == nil {
			return true
		}
		if bErr == nil {
			return false
		}
		return keys[i] < keys[j]
	})

	items := make([]pricing.Item, 0, len(keys))
	for _, key := range keys {
		items = append(items, asMap[key])
	}
	*l = items
	return nil
}

func (l ItemList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]pricing.Item(l))
}
