package entities

import "testing"

func TestSelectionToggleFlipsMembership(t *testing.T) {
	selection := NewSelection("store-1")

	selection = selection.Toggle("store-2")
	if !selection.Contains("store-2") || selection.Len() != 2 {
		t.Fatalf("expected store-2 selected, got %v", selection.IDs())
	}

	selection = selection.Toggle("store-2")
	if selection.Contains("store-2") || selection.Len() != 1 {
		t.Fatalf("expected store-2 deselected, got %v", selection.IDs())
	}
}

func TestSelectionToggleIgnoresBlankID(t *testing.T) {
	selection := NewSelection("store-1").Toggle("   ")
	if selection.Len() != 1 {
		t.Fatalf("expected blank toggle to be a no-op, got %v", selection.IDs())
	}
}

func TestSelectionDedupesOnConstruction(t *testing.T) {
	selection := NewSelection("store-1", "store-1", " store-2 ")
	if selection.Len() != 2 {
		t.Fatalf("expected duplicates collapsed, got %v", selection.IDs())
	}
	if !selection.Contains("store-2") {
		t.Fatalf("expected trimmed id to be selected, got %v", selection.IDs())
	}
}

func TestToggleAllPendingSelectsThenClears(t *testing.T) {
	pending := []string{"store-1", "store-2", "store-3"}

	selection := NewSelection("store-2").ToggleAllPending(pending)
	if selection.Len() != 3 {
		t.Fatalf("expected full pending set selected, got %v", selection.IDs())
	}

	selection = selection.ToggleAllPending(pending)
	if selection.Len() != 0 {
		t.Fatalf("expected selection cleared when already complete, got %v", selection.IDs())
	}
}

func TestSelectionEqualIgnoresOrder(t *testing.T) {
	left := NewSelection("store-1", "store-2")
	right := NewSelection("store-2", "store-1")
	if !left.Equal(right) {
		t.Fatalf("expected order-insensitive equality")
	}
	if left.Equal(NewSelection("store-1")) {
		t.Fatalf("expected inequality on different sets")
	}
}
