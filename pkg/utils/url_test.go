package utils

import (
	"net/url"
	"testing"
)

func TestHashURL(t *testing.T) {
	a := HashURL("https://example.com/a")
	if len(a) != 64 {
		t.Fatalf("expected a hex sha256, got %q", a)
	}
	if a != HashURL("https://example.com/a") {
		t.Fatalf("hash is not stable")
	}
	if a == HashURL("https://example.com/b") {
		t.Fatalf("different URLs share a hash")
	}
	if got := HashURL("abc"); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("HashURL(abc) = %q", got)
	}
}

func TestToAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/brands/acme/")
	tests := []struct {
		rel, want string
	}{
		{"logo.png", "https://example.com/brands/acme/logo.png"},
		{"/files/catalog.pdf", "https://example.com/files/catalog.pdf"},
		{"//cdn.example/x.jpg", "https://cdn.example/x.jpg"},
		{"https://other.example/", "https://other.example/"},
	}
	for _, tt := range tests {
		got, err := ToAbsoluteURL(base, tt.rel)
		if err != nil {
			t.Fatalf("ToAbsoluteURL(%q): %v", tt.rel, err)
		}
		if got != tt.want {
			t.Errorf("ToAbsoluteURL(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestIsFetchable(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":   true,
		"/relative/path":        true,
		"mailto:info@acme.test": false,
		"tel:+1555":             false,
		"javascript:void(0)":    false,
		"#top":                  false,
		"":                      false,
	}
	for link, want := range tests {
		if got := IsFetchable(link); got != want {
			t.Errorf("IsFetchable(%q) = %v, want %v", link, got, want)
		}
	}
}
