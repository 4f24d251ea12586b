// Package producturl recognizes e-commerce product links and reduces them to a
// canonical form. Everything here is lexical: no network access, no errors.
package producturl

import (
	"regexp"
	"strings"

	"storefront-wizard/internal/model"
)

const (
	PatternAliExpressItem    = "aliexpress-item"
	PatternAmazonDP          = "amazon-dp"
	PatternAmazonGPProduct   = "amazon-gp-product"
	PatternAmazonShort       = "amazon-short"
	PatternShopifyProduct    = "shopify-product"
	PatternShopifyCollection = "shopify-collection-product"
)

var (
	reAliExpressItem    = regexp.MustCompile(`(?i)^(?:https?://)?(?:[a-z0-9-]+\.)*aliexpress\.[a-z]{2,3}/item/(\d+)\.html?`)
	reAliExpressPartial = regexp.MustCompile(`(?i)^(?:https?://)?(?:[a-z0-9-]+\.)*aliexpress\.[a-z]{2,3}/item/(\d+)`)
	reAliExpressHost    = regexp.MustCompile(`(?i)^(?:https?://)?(?:[a-z0-9-]+\.)*aliexpress\.[a-z]{2,3}(?:[:/?#]|$)`)

	// Group 1 is the dotted suffix after "amazon", group 2 the path.
	reAmazonURL = regexp.MustCompile(`^(?i:(?:https?://)?(?:[a-z0-9-]+\.)*amazon((?:\.[a-z]{2,3}){1,2}))(?::\d+)?(/[^?#\s]*)?(?:[?#]|$)`)
	reAmazonDP  = regexp.MustCompile(`(?i:/dp/)([A-Za-z0-9]{10})(?:/|$)`)
	reAmazonGP  = regexp.MustCompile(`(?i:/gp/product/)([A-Za-z0-9]{10})(?:/|$)`)
	// Group 1 is the dotted suffix after "amzn", group 2 the short code.
	reAmazonShort = regexp.MustCompile(`^(?i:(?:https?://)?(?:www\.)?amzn((?:\.[a-z]{2,3}){1,2}))/([A-Za-z0-9]{10})(?:[/?#]|$)`)

	reHostPath       = regexp.MustCompile(`(?i)^(?:[a-z][a-z0-9+.-]*://)?[^/?#\s]+(/[^?#\s]*)`)
	reShopifyProduct = regexp.MustCompile(`(?i)(?:/collections/([^/]+))?/products/([^/]+)`)
)

type matcher struct {
	kind  model.UrlKind
	match func(s string) (model.ClassificationResult, bool)
}

// Evaluated in order, first match wins. Shopify stays last: it only looks for
// a /products/ segment and would otherwise swallow the stricter dialects.
var matchers = []matcher{
	{kind: model.KindAliExpress, match: matchAliExpress},
	{kind: model.KindAmazon, match: matchAmazon},
	{kind: model.KindShopify, match: matchShopify},
}

// Classify reports which product-link dialect raw belongs to.
// Unrecognized input, including the empty string, yields KindUnknown.
func Classify(raw string) model.ClassificationResult {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.ClassificationResult{Kind: model.KindUnknown}
	}
	for _, m := range matchers {
		if res, ok := m.match(s); ok {
			res.Kind = m.kind
			return res
		}
	}
	return model.ClassificationResult{Kind: model.KindUnknown}
}

func matchAliExpress(s string) (model.ClassificationResult, bool) {
	m := reAliExpressItem.FindStringSubmatch(s)
	if m == nil {
		return model.ClassificationResult{}, false
	}
	return model.ClassificationResult{
		MatchedPattern: PatternAliExpressItem,
		CapturedID:     m[1],
		RawMatch:       m[0],
	}, true
}

func matchAmazon(s string) (model.ClassificationResult, bool) {
	ref, ok := amazonReference(s)
	if !ok {
		return model.ClassificationResult{}, false
	}
	return model.ClassificationResult{
		MatchedPattern: ref.pattern,
		CapturedID:     ref.id,
		RawMatch:       ref.raw,
	}, true
}

func matchShopify(s string) (model.ClassificationResult, bool) {
	hp := reHostPath.FindStringSubmatch(s)
	if hp == nil {
		return model.ClassificationResult{}, false
	}
	m := reShopifyProduct.FindStringSubmatch(hp[1])
	if m == nil {
		return model.ClassificationResult{}, false
	}
	pattern := PatternShopifyProduct
	if m[1] != "" {
		pattern = PatternShopifyCollection
	}
	return model.ClassificationResult{
		MatchedPattern: pattern,
		CapturedID:     m[2],
		RawMatch:       m[0],
	}, true
}

type amazonRef struct {
	pattern string
	suffix  string
	id      string
	raw     string
}

func amazonReference(s string) (amazonRef, bool) {
	if m := reAmazonURL.FindStringSubmatch(s); m != nil {
		path := m[2]
		if id := reAmazonDP.FindStringSubmatch(path); id != nil {
			return amazonRef{pattern: PatternAmazonDP, suffix: strings.ToLower(m[1]), id: id[1], raw: m[0]}, true
		}
		if id := reAmazonGP.FindStringSubmatch(path); id != nil {
			return amazonRef{pattern: PatternAmazonGPProduct, suffix: strings.ToLower(m[1]), id: id[1], raw: m[0]}, true
		}
	}
	if m := reAmazonShort.FindStringSubmatch(s); m != nil {
		return amazonRef{pattern: PatternAmazonShort, suffix: strings.ToLower(m[1]), id: m[2], raw: m[0]}, true
	}
	return amazonRef{}, false
}

// MatchesAliExpressPartial reports an AliExpress item link that is missing
// its .html extension: right host and /item/<digits>, nothing else.
func MatchesAliExpressPartial(raw string) bool {
	s := strings.TrimSpace(raw)
	return reAliExpressPartial.MatchString(s) && !reAliExpressItem.MatchString(s)
}

func IsAliExpressHost(raw string) bool {
	return reAliExpressHost.MatchString(strings.TrimSpace(raw))
}

func IsAmazonHost(raw string) bool {
	s := strings.TrimSpace(raw)
	return reAmazonURL.MatchString(s) || strings.Contains(strings.ToLower(hostOf(s)), "amzn.")
}

// HasCollectionPath reports a storefront collection link with no product in it.
func HasCollectionPath(raw string) bool {
	p := strings.ToLower(pathOf(strings.TrimSpace(raw)))
	return strings.Contains(p, "/collections/") && !strings.Contains(p, "/products/")
}

var reBareHost = regexp.MustCompile(`(?i)^[a-z0-9-]+(?:\.[a-z0-9-]+)+(?::\d+)?$`)

// IsBareDomain reports input that names a site but no page on it,
// such as "example.com" or "https://shop.example.com/".
func IsBareDomain(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	u, ok := parseLoose(s)
	if !ok {
		return false
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	if u.Path != "" && u.Path != "/" {
		return false
	}
	return reBareHost.MatchString(u.Host)
}
