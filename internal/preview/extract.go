package preview

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"storefront-wizard/internal/model"
)

var (
	titleSelectors = []string{
		`meta[property="og:title"]`,
		`meta[name="twitter:title"]`,
	}
	descriptionSelectors = []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	}
	imageSelectors = []string{
		`meta[property="og:image:secure_url"]`,
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	}
	priceSelectors = []string{
		`meta[property="product:price:amount"]`,
		`meta[property="og:price:amount"]`,
		`[itemprop="price"]`,
	}
	currencySelectors = []string{
		`meta[property="product:price:currency"]`,
		`meta[property="og:price:currency"]`,
		`[itemprop="priceCurrency"]`,
	}
	noiseSelectors = "script, style, noscript, svg, iframe, nav, footer, header, form"
)

// Extract reads the product summary and body markdown out of an HTML page.
// conv may be nil, in which case a default converter is used.
func Extract(pageURL string, body []byte, conv *md.Converter) (model.Preview, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.Preview{}, "", fmt.Errorf("parse html: %w", err)
	}

	p := model.Preview{URL: pageURL}
	p.Title = firstContent(doc, titleSelectors)
	if p.Title == "" {
		p.Title = collapse(doc.Find("title").First().Text())
	}
	if p.Title == "" {
		p.Title = collapse(doc.Find("h1").First().Text())
	}
	p.Description = firstContent(doc, descriptionSelectors)
	p.Image = resolve(pageURL, firstContent(doc, imageSelectors))
	p.Price = firstContent(doc, priceSelectors)
	p.Currency = firstContent(doc, currencySelectors)
	p.Success = p.Title != ""

	if conv == nil {
		conv = md.NewConverter("", true, nil)
	}
	content := doc.Find("body")
	content.Find(noiseSelectors).Remove()
	markdown := strings.TrimSpace(conv.Convert(content))
	return p, markdown, nil
}

// firstContent returns the first non-empty value among selectors, taken from
// the content attribute or, for microdata elements, the text.
func firstContent(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, ok := s.Attr("content")
			if !ok {
				v = s.Text()
			}
			found = collapse(v)
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
