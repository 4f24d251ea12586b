package model

import "time"

// UrlKind is the product-link dialect a string was recognized as.
type UrlKind string

const (
	KindAliExpress UrlKind = "aliexpress"
	KindAmazon     UrlKind = "amazon"
	KindShopify    UrlKind = "shopify"
	KindUnknown    UrlKind = "unknown"
)

func (k UrlKind) Known() bool {
	switch k {
	case KindAliExpress, KindAmazon, KindShopify:
		return true
	default:
		return false
	}
}

// Label is the human form used in validation messages and the wizard.
func (k UrlKind) Label() string {
	switch k {
	case KindAliExpress:
		return "AliExpress"
	case KindAmazon:
		return "Amazon"
	case KindShopify:
		return "Shopify"
	default:
		return "Unknown"
	}
}

type ClassificationResult struct {
	Kind           UrlKind `json:"kind"`
	MatchedPattern string  `json:"matched_pattern,omitempty"`
	CapturedID     string  `json:"captured_id,omitempty"`
	RawMatch       string  `json:"raw_match,omitempty"`
}

// Preview is the best-effort page summary returned by the fast preview call.
type Preview struct {
	Success     bool   `json:"success"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Price       string `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// Storefront is the content produced by the authoritative generate call.
type Storefront struct {
	ProductID       string    `json:"product_id"`
	SourceURL       string    `json:"source_url"`
	Kind            UrlKind   `json:"kind"`
	Language        string    `json:"language"`
	Title           string    `json:"title"`
	Tagline         string    `json:"tagline,omitempty"`
	Description     string    `json:"description_markdown"`
	DescriptionHTML string    `json:"description_html"`
	Features        []string  `json:"features,omitempty"`
	SEOTitle        string    `json:"seo_title,omitempty"`
	SEODescription  string    `json:"seo_description,omitempty"`
	Price           string    `json:"price,omitempty"`
	Currency        string    `json:"currency,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
	Model           string    `json:"model,omitempty"`
}
