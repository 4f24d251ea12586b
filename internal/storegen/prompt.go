package storegen

import (
	_ "embed"
	"strings"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/preview"
)

//go:embed prompts/system.md
var systemPromptTemplate string

//go:embed prompts/user.md
var userPromptTemplate string

//go:embed prompts/draft-schema.json
var draftSchema string

type PromptInput struct {
	URL          string
	Kind         model.UrlKind
	LanguageName string
	Page         preview.Page
}

// BuildPrompt fills the embedded system and user templates.
func BuildPrompt(in PromptInput) (system, user string) {
	system = strings.ReplaceAll(systemPromptTemplate, "{{.language}}", in.LanguageName)

	marketplace := in.Kind.Label()
	if !in.Kind.Known() {
		marketplace = "independent store"
	}
	p := in.Page.Preview
	user = strings.NewReplacer(
		"{{.url}}", in.URL,
		"{{.marketplace}}", marketplace,
		"{{.title}}", orDash(p.Title),
		"{{.description}}", orDash(p.Description),
		"{{.price}}", orDash(p.Price),
		"{{.currency}}", p.Currency,
		"{{.source_content}}", orDash(in.Page.Markdown),
	).Replace(userPromptTemplate)
	return system, user
}

// DraftSchema is the JSON schema the providers are asked to answer with.
func DraftSchema() string { return draftSchema }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
