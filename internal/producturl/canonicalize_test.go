package producturl

import (
	"strings"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://fr.aliexpress.com/item/1005009828380377.html?spm=a2g0o&gps-id=x", "https://fr.aliexpress.com/item/1005009828380377.html"},
		{"  https://fr.aliexpress.com/item/1005009828380377.html  ", "https://fr.aliexpress.com/item/1005009828380377.html"},
		{"aliexpress.com/item/12.htm?x=1", "aliexpress.com/item/12.htm"},
		{"amazon.fr/gp/product/B08N5WRWNW?th=1", "https://www.amazon.fr/dp/B08N5WRWNW"},
		{"https://www.amazon.co.uk/Kettle/dp/B0ABCDEFGH/ref=x?psc=1", "https://www.amazon.co.uk/dp/B0ABCDEFGH"},
		{"AMZN.to/3xYzAbCdEf?tag=x", "https://amzn.to/3xYzAbCdEf"},
		{"https://www.amazon.com/s?k=mug", "https://www.amazon.com/s?k=mug"},
		{"mystore.com/collections/all/products/cool-mug?variant=123#reviews", "https://mystore.com/collections/all/products/cool-mug"},
		{"http://mystore.com/products/cool-mug/", "http://mystore.com/products/cool-mug"},
		{"mystore.com/collections/summer/", "https://mystore.com/collections/summer"},
		{"mystore.com/products/mug//", "https://mystore.com/products/mug"},
		{"my store.com/products/mug///?y=1", "my store.com/products/mug"},
		{"amazon.fr/dp/B08N5WRWNW?tag=x.htm", "https://www.amazon.fr/dp/B08N5WRWNW"},
		{"shop.com/products/x?ref=a.html&b=1", "https://shop.com/products/x"},
		{"my store.com/products/x?y=1#z", "my store.com/products/x"},
		{"example.com", "example.com"},
		{"  hello  ", "hello"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Canonicalize(tc.raw); got != tc.want {
			t.Fatalf("Canonicalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCanonicalizeAliExpressAnyCaseUnchanged(t *testing.T) {
	for _, raw := range []string{
		"https://fr.aliexpress.com/item/1005009828380377.html",
		"HTTPS://FR.ALIEXPRESS.COM/ITEM/1005009828380377.HTML",
		"m.AliExpress.us/item/9.Html",
		"aliexpress.ru/item/77.html",
	} {
		if got := Canonicalize("\t" + raw + " "); got != raw {
			t.Fatalf("Canonicalize(%q) = %q, want unchanged", raw, got)
		}
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"https://fr.aliexpress.com/item/1005009828380377.html?spm=a2g0o&gps-id=x",
		"aliexpress.com/item/12.htm?x=1",
		"aliexpress.com/item/12",
		"amazon.fr/gp/product/B08N5WRWNW?th=1",
		"https://www.amazon.de/Some-Title/dp/B08N5WRWNW/ref=sr_1_1",
		"amzn.to/3xYzAbCdEf?tag=x",
		"mystore.com/collections/all/products/cool-mug?variant=123#reviews",
		"HTTPS://MyStore.com/Products/Cool-Mug/?a=b",
		"mystore.com/products/x#a.html?b",
		"shop.example.com/products/%2Ehtmlish?q=1",
		"my store.com/products/x?y=1#z",
		"mystore.com:abc/products/x?y",
		"//cdn.example.com/collections/x/",
		"example.com",
		"%%%::not a url",
		"foo.htmlstore.com/products/a?b",
		"site.com/page.HTM",
		"mystore.com/products/mug//",
		"my store.com/products/mug///?y=1",
		"amazon.fr/dp/B08N5WRWNW?tag=x.htm",
		"shop.com/products/x?ref=a.html&b=1",
		"",
	}
	for _, raw := range inputs {
		once := Canonicalize(raw)
		twice := Canonicalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: once=%q twice=%q", raw, once, twice)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a.com/x.html?y", "a.com/x.html", true},
		{"a.com/x.HTML#frag", "a.com/x.HTML", true},
		{"a.com/x.htm?y", "a.com/x.htm", true},
		{"a.com/x.html", "a.com/x.html", true},
		{"page.html.com", "page.html.com", false},
		{"a.com/x", "a.com/x", false},
		{"a.com/x?ref=a.html&b=1", "a.com/x?ref=a.html&b=1", false},
		{"a.com/x#top.htm", "a.com/x#top.htm", false},
	}
	for _, tc := range cases {
		got, ok := Truncate(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Truncate(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestHasTrailingAfterExtension(t *testing.T) {
	if !HasTrailingAfterExtension("aliexpress.com/item/1.html?spm=1") {
		t.Fatalf("expected trailing content after extension")
	}
	if HasTrailingAfterExtension("aliexpress.com/item/1.html  ") {
		t.Fatalf("surrounding whitespace is not trailing content")
	}
	if HasTrailingAfterExtension(strings.Repeat("x", 10)) {
		t.Fatalf("no extension means nothing to trim")
	}
}
