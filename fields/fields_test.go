package fields

import "testing"

func TestExtract(t *testing.T) {
	f := Fields{
		"single": {"ULC"},
		"multi":  {"a", "b", "c"},
		"empty":  {},
		"blank":  {""},
	}
	tests := []struct {
		key  string
		want string
	}{
		{"single", "ULC"},
		{"multi", "a b c"},
		{"empty", ""},
		{"blank", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := Extract(f, tt.key); got != tt.want {
			t.Errorf("Extract(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestHasAndAdd(t *testing.T) {
	f := Fields{}
	if Has(f, "qty") {
		t.Fatal("empty Fields reports qty present")
	}
	f.Add("qty", "1")
	f.Add("qty", "2")
	if !Has(f, "qty") {
		t.Fatal("qty not present after Add")
	}
	if got := Extract(f, "qty"); got != "1 2" {
		t.Errorf("Extract after Add = %q", got)
	}
}
