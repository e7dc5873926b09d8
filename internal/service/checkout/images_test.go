package checkout

import (
	"testing"

	"grocery-storefront/internal/domain"
)

func TestImageResolver(t *testing.T) {
	r := NewImageResolver("https://cdn.sanity.io/images/proj/production/", "https://shop.example.com")
	cases := []struct {
		name string
		ref  domain.ImageRef
		want string
	}{
		{"none", domain.ImageRef{}, ""},
		{"absolute https", domain.DirectImage("https://img.example.com/a.jpg"), "https://img.example.com/a.jpg"},
		{"relative path", domain.DirectImage("/images/a.jpg"), "https://shop.example.com/images/a.jpg"},
		{"relative without slash", domain.DirectImage("images/a.jpg"), ""},
		{"non web scheme", domain.DirectImage("ftp://files.example.com/a.jpg"), ""},
		{"malformed", domain.DirectImage("http://[::1"), ""},
		{"asset jpg", domain.AssetImage("image-Tb9Ew8CX-2000x3000-jpg"), "https://cdn.sanity.io/images/proj/production/Tb9Ew8CX-2000x3000.jpg"},
		{"asset png", domain.AssetImage("image-abc-10x10-PNG"), "https://cdn.sanity.io/images/proj/production/abc-10x10.png"},
		{"asset webp", domain.AssetImage("image-abc-10x10-webp"), "https://cdn.sanity.io/images/proj/production/abc-10x10.webp"},
		{"asset unknown suffix", domain.AssetImage("image-abc-10x10-tiff"), ""},
		{"asset wrong prefix", domain.AssetImage("file-abc-pdf"), ""},
		{"asset without suffix", domain.AssetImage("image-abc-"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Resolve(tc.ref); got != tc.want {
				t.Fatalf("Resolve(%+v) = %q, want %q", tc.ref, got, tc.want)
			}
		})
	}
}

func TestImageResolverWithoutBases(t *testing.T) {
	r := NewImageResolver("", "")
	if got := r.Resolve(domain.DirectImage("/images/a.jpg")); got != "" {
		t.Fatalf("expected relative path to be dropped without a site url, got %q", got)
	}
	if got := r.Resolve(domain.AssetImage("image-abc-1x1-jpg")); got != "" {
		t.Fatalf("expected asset to be dropped without a cdn base, got %q", got)
	}
	if got := r.URLs(domain.DirectImage("https://a.example.com/x.jpg")); len(got) != 1 {
		t.Fatalf("expected absolute url to pass through, got %v", got)
	}
}
