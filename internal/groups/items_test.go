package groups

import (
	"encoding/json"
	"testing"
)

func TestItemListDecodesArray(t *testing.T) {
	payload := `[{"product":"Café","variant":"Café solo"},{"product":"Croissant"}]`

	var list ItemList
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list))
	}
	if list[0].Product != "Café" || list[0].Variant != "Café solo" {
		t.Fatalf("unexpected first item: %+v", list[0])
	}
}

func TestItemListDecodesIndexKeyedObject(t *testing.T) {
	// Some writers store lists as objects with stringified indices. Order
	// must follow the numeric index, not the key's lexical order.
	payload := `{"10":{"product":"Croissant"},"2":{"product":"Café"},"0":{"product":"Zumo de naranja natural"}}`

	var list ItemList
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"Zumo de naranja natural", "Café", "Croissant"}
	if len(list) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(list))
	}
	for i, product := range want {
		if list[i].Product != product {
			t.Fatalf("position %d: expected %s, got %s", i, product, list[i].Product)
		}
	}
}

func TestItemListDecodesNull(t *testing.T) {
	var list ItemList
	if err := json.Unmarshal([]byte(`null`), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d items", len(list))
	}
}

func TestItemListEncodesAsArray(t *testing.T) {
	list := ItemList{{Product: "Café"}}

	raw, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if raw[0] != '[' {
		t.Fatalf("expected array encoding, got %s", raw)
	}

	var roundTrip ItemList
	if err := json.Unmarshal(raw, &roundTrip); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if len(roundTrip) != 1 || roundTrip[0].Product != "Café" {
		t.Fatalf("unexpected round trip: %+v", roundTrip)
	}
}
