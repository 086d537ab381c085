package menu

import "testing"

func TestNormalizeHeaderDriven(t *testing.T) {
	rows := [][]string{
		{"ID", "Name", "Description", "Price", "Category", "Image", "Rating", "has_offers", "is_veg"},
		{"1", "Veg Biryani", "Spicy veg biryani", "150", "Indian", "", "4.5", "yes", "true"},
		{"", "", "", "", "", "", "", "", ""},
		{"", "Chicken Biryani", "Non-veg biryani", "₹250", "", "", "", "no", "false"},
		{"4", "Mystery Dish", "", "abc", "Specials", "", "9.9", "maybe", "dunno"},
	}

	items := Normalize(rows)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (empty row skipped): %+v", len(items), items)
	}

	first := items[0]
	if first.ID != "1" || first.Price != 150 || !first.HasOffers {
		t.Errorf("first item wrong: %+v", first)
	}
	if first.Rating == nil || *first.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", first.Rating)
	}
	if first.IsVeg == nil || !*first.IsVeg {
		t.Errorf("isVeg should be true, got %v", first.IsVeg)
	}

	second := items[1]
	if second.ID != "item-3" {
		t.Errorf("missing id should default to item-3 (data row index), got %q", second.ID)
	}
	if second.Price != 250 {
		t.Errorf("currency-laden price = %v, want 250", second.Price)
	}
	if second.Category != "Other" {
		t.Errorf("empty category should default to Other, got %q", second.Category)
	}
	if second.IsVeg == nil || *second.IsVeg {
		t.Errorf("isVeg should be false, got %v", second.IsVeg)
	}

	third := items[2]
	if third.Price != 0 {
		t.Errorf("unparsable price should be 0, got %v", third.Price)
	}
	if third.Rating == nil || *third.Rating != 5 {
		t.Errorf("rating should clamp to 5, got %v", third.Rating)
	}
	if third.HasOffers {
		t.Errorf("unrecognized hasOffers token should be false")
	}
	if third.IsVeg != nil {
		t.Errorf("unrecognized isVeg token must stay unset, got %v", *third.IsVeg)
	}
}

func TestNormalizePositional(t *testing.T) {
	rows := [][]string{
		{"Item Code", "Item Name", "Details", "Cost", "Type", "Pic"},
		{"m1", "Paneer Tikka", "Grilled paneer", "200", "Starters", "http://img"},
		{"", "Egg Roll", "Spicy roll", "80", "", ""},
	}
	items := Normalize(rows)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (header row skipped): %+v", len(items), items)
	}
	if items[0].ID != "m1" || items[0].Image != "http://img" {
		t.Errorf("positional mapping wrong: %+v", items[0])
	}
	if items[1].ID != "item-2" || items[1].Category != "Other" {
		t.Errorf("defaults wrong: %+v", items[1])
	}
}

func TestNormalizeUnrecognizedHeaderNeverBecomesItem(t *testing.T) {
	rows := [][]string{
		{"Item Code", "Item Name", "Details", "Cost", "Type"},
		{"m1", "Samosa", "Crispy", "30", "Snacks"},
	}
	items := Normalize(rows)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}
	if items[0].Name != "Samosa" || items[0].Price != 30 {
		t.Errorf("data row mapped wrong: %+v", items[0])
	}
	for _, it := range items {
		if it.Name == "Item Name" {
			t.Errorf("header row leaked into the menu: %+v", it)
		}
	}
}

func TestNormalizeSkipsRowsWithoutIdentity(t *testing.T) {
	rows := [][]string{
		{"id", "name", "price"},
		{"", "", "100"},
		{"", "  ", "200"},
	}
	if items := Normalize(rows); len(items) != 0 {
		t.Fatalf("rows without id and name must be excluded, got %+v", items)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"150", 150},
		{"₹1,250.50", 1250.50},
		{"$ 99.99", 99.99},
		{"free", 0},
		{"", 0},
		{"-20", 0},
		{"Rs. 45", 45},
		{"Rs.45.50", 45.50},
		{"INR 1,299", 1299},
	}
	for _, tt := range tests {
		if got := ParsePrice(tt.in); got != tt.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractSheetIDAndGID(t *testing.T) {
	url := "https://docs.google.com/spreadsheets/d/1AbC-guess_42/edit#gid=1234"
	if id := ExtractSheetID(url); id != "1AbC-guess_42" {
		t.Errorf("ExtractSheetID = %q", id)
	}
	if gid := ExtractGID(url); gid != "1234" {
		t.Errorf("ExtractGID = %q", gid)
	}
	if gid := ExtractGID("https://docs.google.com/spreadsheets/d/xyz/edit"); gid != "0" {
		t.Errorf("missing gid should default to 0, got %q", gid)
	}
	if id := ExtractSheetID("not a url"); id != "" {
		t.Errorf("invalid url should yield empty id, got %q", id)
	}
}
