package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if !Valid(first) {
		t.Fatalf("generated id is not a uuid: %s", first)
	}
	if Valid("not-a-uuid") {
		t.Fatalf("expected invalid id to be rejected")
	}
}
