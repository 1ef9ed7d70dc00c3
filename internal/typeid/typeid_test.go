package typeid

import "testing"

func TestNewElementIDsAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewElementID()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(NewElementID(), PrefixElement); err != nil {
		t.Errorf("element id rejected: %v", err)
	}
	if err := Validate(NewSessionID(), PrefixElement); err == nil {
		t.Error("expected prefix mismatch error")
	}
	if err := Validate("not-an-id", PrefixElement); err == nil {
		t.Error("expected parse error")
	}
}
