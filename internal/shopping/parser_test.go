package shopping

import (
	"testing"
)

func TestParseSections(t *testing.T) {
	t.Run("WellFormedResponse", func(t *testing.T) {
		response := "Produce:\n- Tomato (2 cups)\nDairy:\n- Milk (1L)"
		sections := ParseSections(response)

		if len(sections) != 2 {
			t.Fatalf("expected 2 entries, got %d: %v", len(sections), sections)
		}
		if sections["tomato"] != "Produce" {
			t.Errorf("expected tomato in Produce, got %q", sections["tomato"])
		}
		if sections["milk"] != "Dairy" {
			t.Errorf("expected milk in Dairy, got %q", sections["milk"])
		}
	})

	t.Run("BlankResponse", func(t *testing.T) {
		sections := ParseSections("   \n  ")
		if len(sections) != 0 {
			t.Errorf("expected empty map for blank response, got %v", sections)
		}
	})

	t.Run("NumberedBullets", func(t *testing.T) {
		sections := ParseSections("Pantry:\n1. Rice (500g)\n2. Olive Oil")
		if sections["rice"] != "Pantry" {
			t.Errorf("expected rice in Pantry, got %q", sections["rice"])
		}
		if sections["olive oil"] != "Pantry" {
			t.Errorf("expected olive oil in Pantry, got %q", sections["olive oil"])
		}
	})

	t.Run("ItemsBeforeFirstHeaderDefaultToOther", func(t *testing.T) {
		sections := ParseSections("- Mystery Sauce\nFrozen:\n- Peas")
		if sections["mystery sauce"] != SectionOther {
			t.Errorf("expected Other before first header, got %q", sections["mystery sauce"])
		}
		if sections["peas"] != "Frozen" {
			t.Errorf("expected peas in Frozen, got %q", sections["peas"])
		}
	})

	t.Run("QuantitySuffixStripped", func(t *testing.T) {
		sections := ParseSections("Meat:\n- Chicken Breast (2 lbs, boneless)")
		if _, ok := sections["chicken breast"]; !ok {
			t.Errorf("expected name trimmed before parenthesis, got %v", sections)
		}
	})

	t.Run("ProseWithEmbeddedDigitDotIsNotABullet", func(t *testing.T) {
		sections := ParseSections("Produce:\nYou will need about 2. bunches of kale in total\n- Kale")
		if len(sections) != 1 {
			t.Fatalf("expected only the bullet line parsed, got %v", sections)
		}
		if sections["kale"] != "Produce" {
			t.Errorf("expected kale in Produce, got %q", sections["kale"])
		}
	})

	t.Run("UnrelatedLinesIgnored", func(t *testing.T) {
		sections := ParseSections("Here is your organized list!\nProduce:\n- Kale\nHappy shopping!")
		if len(sections) != 1 || sections["kale"] != "Produce" {
			t.Errorf("expected only kale in Produce, got %v", sections)
		}
	})
}

func TestParseOptimizedItems(t *testing.T) {
	t.Run("WellFormedLines", func(t *testing.T) {
		response := "Here are the optimized items:\n" +
			"Item: Tomatoes | Quantity: 3 cups | Price: $4.50 | Section: Produce | Notes: buy ripe\n" +
			"Item: Milk | Quantity: 1L | Price: $2.00 | Section: Dairy | Notes: "
		items := ParseOptimizedItems(response)

		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		first := items[0]
		if first.IngredientName != "Tomatoes" || first.Quantity != "3 cups" || first.Section != "Produce" {
			t.Errorf("unexpected first item: %+v", first)
		}
		if first.EstimatedPrice == nil || *first.EstimatedPrice != 4.50 {
			t.Errorf("expected price 4.50, got %v", first.EstimatedPrice)
		}
		if first.Notes != "buy ripe" {
			t.Errorf("expected notes 'buy ripe', got %q", first.Notes)
		}
		if items[0].ID == "" || items[0].ID == items[1].ID {
			t.Error("expected distinct non-empty IDs")
		}
	})

	t.Run("MalformedLinesSkipped", func(t *testing.T) {
		response := "Item: incomplete line without pipes\n" +
			"Item: Too Few | Quantity: 1\n" +
			"Item: Good | Quantity: 2 | Price: $1.00 | Section: Pantry | Notes: ok"
		items := ParseOptimizedItems(response)
		if len(items) != 1 || items[0].IngredientName != "Good" {
			t.Fatalf("expected only the well-formed line, got %+v", items)
		}
	})

	t.Run("UnparsablePriceLeftAbsent", func(t *testing.T) {
		response := "Item: Bread | Quantity: 1 loaf | Price: $varies | Section: Bakery | Notes: sourdough"
		items := ParseOptimizedItems(response)
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].EstimatedPrice != nil {
			t.Errorf("expected absent price, got %v", *items[0].EstimatedPrice)
		}
	})

	t.Run("NoItemLines", func(t *testing.T) {
		items := ParseOptimizedItems("I could not optimize this list, sorry.")
		if len(items) != 0 {
			t.Errorf("expected no items, got %+v", items)
		}
	})
}

func TestParseAvailableNames(t *testing.T) {
	analysis := "tomato | 2 | fresh\nMilk | 1L | good\nnot a data line\n | 3 | stale"
	names := parseAvailableNames(analysis)

	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %v", names)
	}
	if names[0] != "tomato" || names[1] != "milk" {
		t.Errorf("expected lowercased trimmed names, got %v", names)
	}
}
