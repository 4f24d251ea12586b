package preview

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"storefront-wizard/internal/model"
)

const productPage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="  Ceramic   Mug ">
<meta property="og:description" content="Handmade stoneware mug, 350ml.">
<meta property="og:image" content="/cdn/mug.jpg">
<meta property="product:price:amount" content="24.00">
<meta property="product:price:currency" content="EUR">
<script>var tracking = "do-not-leak";</script>
</head><body>
<nav>Home | Shop</nav>
<h1>Ceramic Mug</h1>
<p>Glazed by hand in <strong>Porto</strong>.</p>
</body></html>`

func TestExtractReadsOpenGraphAndPrice(t *testing.T) {
	p, markdown, err := Extract("https://mystore.com/products/mug", []byte(productPage), nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := model.Preview{
		Success:     true,
		URL:         "https://mystore.com/products/mug",
		Title:       "Ceramic Mug",
		Description: "Handmade stoneware mug, 350ml.",
		Image:       "https://mystore.com/cdn/mug.jpg",
		Price:       "24.00",
		Currency:    "EUR",
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(markdown, "**Porto**") {
		t.Fatalf("markdown missing body content: %q", markdown)
	}
	if strings.Contains(markdown, "do-not-leak") || strings.Contains(markdown, "Home | Shop") {
		t.Fatalf("markdown kept page chrome: %q", markdown)
	}
}

func TestExtractFallsBackToTitleAndMicrodata(t *testing.T) {
	page := `<html><head><title> Desk Lamp - Shop </title></head><body>
<span itemprop="price">39.90</span><meta itemprop="priceCurrency" content="USD">
</body></html>`
	p, _, err := Extract("https://shop.example/products/lamp", []byte(page), nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if p.Title != "Desk Lamp - Shop" || p.Price != "39.90" || p.Currency != "USD" || !p.Success {
		t.Fatalf("unexpected preview: %+v", p)
	}
}

func TestExtractWithoutTitleIsNotSuccessful(t *testing.T) {
	p, _, err := Extract("https://example.com", []byte(`<html><body><p>nothing here</p></body></html>`), nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if p.Success {
		t.Fatalf("expected unsuccessful preview, got %+v", p)
	}
}

func TestRequestURL(t *testing.T) {
	cases := map[string]string{
		"":                                    "",
		"  aliexpress.com/item/1.html ":       "https://aliexpress.com/item/1.html",
		"//cdn.example.com/a":                 "https://cdn.example.com/a",
		"http://mystore.com/products/mug":     "http://mystore.com/products/mug",
		"HTTPS://www.amazon.fr/dp/B08N5WRWNW": "HTTPS://www.amazon.fr/dp/B08N5WRWNW",
	}
	for in, want := range cases {
		if got := RequestURL(in); got != want {
			t.Fatalf("RequestURL(%q) = %q, want %q", in, got, want)
		}
	}
}
