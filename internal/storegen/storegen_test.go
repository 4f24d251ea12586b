package storegen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/preview"
)

type fakePages struct {
	page preview.Page
	err  error
	got  string
}

func (f *fakePages) FetchPage(_ context.Context, url string) (preview.Page, error) {
	f.got = url
	return f.page, f.err
}

type fakeProvider struct {
	answer string
	err    error
	system string
	user   string
}

func (f *fakeProvider) Name() string { return "fake/model-1" }

func (f *fakeProvider) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.answer, f.err
}

const draftJSON = `{
  "title": "Ceramic Mug",
  "tagline": "Morning coffee, made slower.",
  "description": "Thrown by hand in **Porto**.\n\n<script>alert(1)</script>",
  "features": ["350 ml", "  ", "Dishwasher safe"],
  "seo_title": "Handmade Ceramic Mug",
  "seo_description": "A stoneware mug glazed by hand.",
  "price": "",
  "currency": ""
}`

func TestGenerate(t *testing.T) {
	pages := &fakePages{page: preview.Page{
		URL:      "https://mystore.com/products/mug",
		Preview:  model.Preview{Success: true, Title: "Mug", Price: "24.00", Currency: "EUR", Image: "https://mystore.com/mug.jpg"},
		Markdown: "Glazed stoneware.",
	}}
	provider := &fakeProvider{answer: draftJSON}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(pages, provider,
		WithClock(func() time.Time { return now }),
		WithProductIDs(func() string { return "01HX" }),
	)

	sf, err := svc.Generate(context.Background(), "mystore.com/products/mug?variant=1#reviews", "fr-CA")
	require.NoError(t, err)

	assert.Equal(t, "https://mystore.com/products/mug", pages.got)
	assert.Equal(t, "01HX", sf.ProductID)
	assert.Equal(t, model.KindShopify, sf.Kind)
	assert.Equal(t, "fr", sf.Language)
	assert.Equal(t, "Ceramic Mug", sf.Title)
	assert.Equal(t, []string{"350 ml", "Dishwasher safe"}, sf.Features)
	assert.Equal(t, "24.00", sf.Price)
	assert.Equal(t, "EUR", sf.Currency)
	assert.Equal(t, "https://mystore.com/mug.jpg", sf.ImageURL)
	assert.Equal(t, now, sf.GeneratedAt)
	assert.Equal(t, "fake/model-1", sf.Model)
	assert.Contains(t, sf.DescriptionHTML, "<strong>Porto</strong>")
	assert.NotContains(t, sf.DescriptionHTML, "<script>")

	assert.Contains(t, provider.system, "French")
	assert.Contains(t, provider.user, "Marketplace: Shopify")
	assert.Contains(t, provider.user, "Glazed stoneware.")
}

func TestGenerateWrapsFailures(t *testing.T) {
	fetchErr := &preview.HTTPError{StatusCode: 404, URL: "https://mystore.com/products/gone"}
	svc := NewService(&fakePages{err: fetchErr}, &fakeProvider{answer: draftJSON})
	_, err := svc.Generate(context.Background(), "https://mystore.com/products/gone", "en")
	var httpErr *preview.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Contains(t, err.Error(), "fetch product page")

	svc = NewService(&fakePages{}, &fakeProvider{err: errors.New("overloaded")})
	_, err = svc.Generate(context.Background(), "https://mystore.com/products/mug", "en")
	assert.EqualError(t, err, "generate copy: overloaded")

	svc = NewService(&fakePages{}, &fakeProvider{answer: `{"title": ""}`})
	_, err = svc.Generate(context.Background(), "https://mystore.com/products/mug", "en")
	assert.ErrorIs(t, err, ErrIncompleteDraft)

	_, err = svc.Generate(context.Background(), "https://mystore.com/products/mug", "zz-invalid-tag!")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseDraftToleratesFences(t *testing.T) {
	d, err := ParseDraft("```json\n" + draftJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Ceramic Mug", d.Title)

	d, err = ParseDraft("Here you go:\n" + draftJSON)
	require.NoError(t, err)
	assert.Equal(t, "Morning coffee, made slower.", d.Tagline)

	_, err = ParseDraft("not json")
	assert.Error(t, err)
}

func TestRenderSanitizes(t *testing.T) {
	html, err := Render("# Mug\n\n[click](javascript:alert(1)) <img src=x onerror=alert(1)>\n\n- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<li>one</li>")
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "onerror")
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":      "en",
		"en":    "en",
		"de-AT": "de",
		"ja":    "ja",
		"es-MX": "es",
	}
	for in, want := range cases {
		tag, err := NormalizeLanguage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, tag.String(), in)
	}
	_, err := NormalizeLanguage("sw")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestBuildPromptFillsEveryPlaceholder(t *testing.T) {
	system, user := BuildPrompt(PromptInput{
		URL:          "aliexpress.com/item/1.html",
		Kind:         model.KindAliExpress,
		LanguageName: "German",
	})
	assert.Contains(t, system, "German")
	assert.Contains(t, user, "Marketplace: AliExpress")
	for _, s := range []string{system, user} {
		assert.False(t, strings.Contains(s, "{{."), "unfilled placeholder in %q", s)
	}
}

func TestNewProviderValidatesConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{Name: "anthropic"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewProvider(context.Background(), ProviderConfig{Name: "mystery", APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	p, err := NewProvider(context.Background(), ProviderConfig{Name: "anthropic", Model: "claude-sonnet-4-20250514", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-sonnet-4-20250514", p.Name())
}
