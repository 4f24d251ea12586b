package producturl

import (
	"testing"

	"storefront-wizard/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		kind    model.UrlKind
		pattern string
		id      string
	}{
		{"aliexpress item", "https://fr.aliexpress.com/item/1005009828380377.html?spm=a2g0o", model.KindAliExpress, PatternAliExpressItem, "1005009828380377"},
		{"aliexpress upper case", "HTTPS://WWW.ALIEXPRESS.US/ITEM/42.HTML", model.KindAliExpress, PatternAliExpressItem, "42"},
		{"aliexpress htm no scheme", "aliexpress.ru/item/77.htm", model.KindAliExpress, PatternAliExpressItem, "77"},
		{"aliexpress without extension", "aliexpress.com/item/77", model.KindUnknown, "", ""},
		{"amazon dp", "https://www.amazon.de/Some-Title/dp/B08N5WRWNW/ref=sr_1_1", model.KindAmazon, PatternAmazonDP, "B08N5WRWNW"},
		{"amazon gp product", "amazon.fr/gp/product/B08N5WRWNW?th=1", model.KindAmazon, PatternAmazonGPProduct, "B08N5WRWNW"},
		{"amazon tld chain", "https://smile.amazon.co.uk/dp/b0abcdefgh", model.KindAmazon, PatternAmazonDP, "b0abcdefgh"},
		{"amazon short", "amzn.eu/d/ABCDEFGHIJ", model.KindUnknown, "", ""},
		{"amazon short code", "https://amzn.to/3xYzAbCdEf", model.KindAmazon, PatternAmazonShort, "3xYzAbCdEf"},
		{"amazon no id", "https://www.amazon.com/s?k=mug", model.KindUnknown, "", ""},
		{"amazon lookalike host", "amazon.fr.evil.com/dp/B08N5WRWNW", model.KindUnknown, "", ""},
		{"shopify product", "mystore.com/products/cool-mug", model.KindShopify, PatternShopifyProduct, "cool-mug"},
		{"shopify collection product", "https://mystore.com/collections/all/products/cool-mug?variant=1", model.KindShopify, PatternShopifyCollection, "cool-mug"},
		{"amazon with products segment", "https://www.amazon.com/products/dp/B08N5WRWNW", model.KindAmazon, PatternAmazonDP, "B08N5WRWNW"},
		{"aliexpress with products segment", "aliexpress.com/item/5.html?from=/products/x", model.KindAliExpress, PatternAliExpressItem, "5"},
		{"bare domain", "example.com", model.KindUnknown, "", ""},
		{"empty", "   ", model.KindUnknown, "", ""},
		{"garbage", "%%%::not a url", model.KindUnknown, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.raw)
			if got.Kind != tc.kind {
				t.Fatalf("kind mismatch for %q: got %q want %q", tc.raw, got.Kind, tc.kind)
			}
			if tc.pattern != "" && got.MatchedPattern != tc.pattern {
				t.Fatalf("pattern mismatch for %q: got %q want %q", tc.raw, got.MatchedPattern, tc.pattern)
			}
			if tc.id != "" && got.CapturedID != tc.id {
				t.Fatalf("captured id mismatch for %q: got %q want %q", tc.raw, got.CapturedID, tc.id)
			}
		})
	}
}

func TestMatchesAliExpressPartial(t *testing.T) {
	if !MatchesAliExpressPartial("https://aliexpress.com/item/1005009828380377") {
		t.Fatalf("expected partial match without extension")
	}
	if MatchesAliExpressPartial("https://aliexpress.com/item/1005009828380377.html") {
		t.Fatalf("complete item link must not count as partial")
	}
	if MatchesAliExpressPartial("https://aliexpress.com/store/123") {
		t.Fatalf("non-item path must not count as partial")
	}
}

func TestIsBareDomain(t *testing.T) {
	cases := map[string]bool{
		"example.com":                  true,
		"https://shop.example.com/":    true,
		"example.com:8080":             true,
		"example.com/about":            false,
		"example.com?x=1":              false,
		"localhost":                    false,
		"":                             false,
		"https://example.com/products": false,
	}
	for raw, want := range cases {
		if got := IsBareDomain(raw); got != want {
			t.Fatalf("IsBareDomain(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestHostProbes(t *testing.T) {
	if !IsAliExpressHost("https://best.aliexpress.com/") {
		t.Fatalf("expected aliexpress host")
	}
	if !IsAmazonHost("https://www.amazon.com/s?k=mug") {
		t.Fatalf("expected amazon host")
	}
	if !HasCollectionPath("mystore.com/collections/summer") {
		t.Fatalf("expected collection path")
	}
	if HasCollectionPath("mystore.com/collections/summer/products/hat") {
		t.Fatalf("collection with product is not a bare collection")
	}
}
