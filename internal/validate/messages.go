package validate

import "storefront-wizard/internal/model"

const (
	MsgChecking                   = "Checking link..."
	MsgAliExpressMissingExtension = "Almost there: AliExpress item links end in .html"
	MsgAliExpressFormat           = "AliExpress links look like aliexpress.com/item/<id>.html"
	MsgAmazonMissingID            = "Amazon links need a product id (/dp/<ASIN>)"
	MsgStoreMissingProduct        = "Store links must point to a product page (/products/<name>)"
	MsgHomepage                   = "This looks like a homepage, not a product page"
	MsgUnsupported                = "Unsupported link: paste an AliExpress, Amazon or Shopify product URL"
)

func validMessage(kind model.UrlKind) string {
	return kind.Label() + " product link"
}
