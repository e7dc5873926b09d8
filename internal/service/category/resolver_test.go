package category

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

var known = []string{"Fresh Food", "Fruit wine", "Beauty & Personal Care", "Drinks", "Frozen Food"}

func TestResolve(t *testing.T) {
	r := NewResolver(nil, nil)
	cases := []struct {
		slug string
		want string
	}{
		{"", "all"},
		{"   ", "all"},
		{"Fruit wine", "Fruit wine"},
		{"fruit%20wine", "Fruit wine"},
		{"FRESH FOOD", "Fresh Food"},
		{"fresh-food", "Fresh Food"},
		{"beauty-and-personal-care", "Beauty & Personal Care"},
		{"Beauty%20%26%20Personal%20Care", "Beauty & Personal Care"},
		{"wine", "Fruit wine"},
		{"beauty", "Beauty & Personal Care"},
		{"all-products", "all"},
		{"drink", "Drinks"},
		{"frozen-food-deals", "Frozen Food"},
		{"personal", "Beauty & Personal Care"},
		{"completely-unknown-xyz", "all"},
		{"%zz", "all"},
	}
	for _, tc := range cases {
		if got := r.Resolve(tc.slug, known); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.slug, got, tc.want)
		}
	}
}

func TestResolve_ExactBeatsAlias(t *testing.T) {
	r := NewResolver(map[string]string{"drinks": "Fruit wine"}, nil)
	if got := r.Resolve("drinks", known); got != "Drinks" {
		t.Fatalf("expected exact match to win, got %q", got)
	}
}

func TestResolve_PartialIsFirstMatchInCatalogOrder(t *testing.T) {
	r := NewResolver(map[string]string{}, nil)
	if got := r.Resolve("food", known); got != "Fresh Food" {
		t.Fatalf("expected first containing category, got %q", got)
	}
	reordered := []string{"Frozen Food", "Fresh Food"}
	if got := r.Resolve("food", reordered); got != "Frozen Food" {
		t.Fatalf("expected order dependence, got %q", got)
	}
}

func TestResolve_LogsUnresolved(t *testing.T) {
	var buf bytes.Buffer
	r := NewResolver(nil, log.New(&buf, "", 0))
	if got := r.Resolve("nothing-here", known); got != "all" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if !strings.Contains(buf.String(), `unresolved slug="nothing-here"`) {
		t.Fatalf("expected unresolved log line, got %q", buf.String())
	}
}

func TestSlugifyAndDescribe(t *testing.T) {
	if got := Slugify("Beauty & Personal Care"); got != "beauty-and-personal-care" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := Slugify("  Snacks & Sweets!"); got != "snacks-and-sweets" {
		t.Fatalf("unexpected slug %q", got)
	}
	cats := Describe([]string{"Fruit wine"})
	if len(cats) != 1 || cats[0].Slug != "fruit-wine" || cats[0].Name != "Fruit wine" {
		t.Fatalf("unexpected describe output %+v", cats)
	}
}
