// Package storegen produces storefront copy for a product link: it reads the
// product page, prompts a language model and renders the answer.
package storegen

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/preview"
	"storefront-wizard/internal/producturl"
)

// PageFetcher is satisfied by *preview.Client.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (preview.Page, error)
}

type Service struct {
	pages    PageFetcher
	provider Provider
	now      func() time.Time
	newID    func() string
	log      *zap.Logger
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithProductIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newID = next
		}
	}
}

func NewService(pages PageFetcher, provider Provider, opts ...Option) *Service {
	s := &Service{
		pages:    pages,
		provider: provider,
		now:      time.Now,
		newID:    func() string { return ulid.Make().String() },
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate is the authoritative call of a generation run. Any error fails
// the run and is shown to the user as is.
func (s *Service) Generate(ctx context.Context, rawURL, lang string) (model.Storefront, error) {
	tag, err := NormalizeLanguage(lang)
	if err != nil {
		return model.Storefront{}, err
	}
	canonical := producturl.Canonicalize(rawURL)
	kind := producturl.Classify(canonical).Kind

	page, err := s.pages.FetchPage(ctx, canonical)
	if err != nil {
		return model.Storefront{}, fmt.Errorf("fetch product page: %w", err)
	}

	system, user := BuildPrompt(PromptInput{
		URL:          canonical,
		Kind:         kind,
		LanguageName: LanguageName(tag),
		Page:         page,
	})
	started := s.now()
	text, err := s.provider.Complete(ctx, system, user)
	if err != nil {
		return model.Storefront{}, fmt.Errorf("generate copy: %w", err)
	}
	draft, err := ParseDraft(text)
	if err != nil {
		return model.Storefront{}, err
	}
	html, err := Render(draft.Description)
	if err != nil {
		return model.Storefront{}, err
	}

	sf := model.Storefront{
		ProductID:       s.newID(),
		SourceURL:       canonical,
		Kind:            kind,
		Language:        tag.String(),
		Title:           draft.Title,
		Tagline:         draft.Tagline,
		Description:     draft.Description,
		DescriptionHTML: html,
		Features:        draft.Features,
		SEOTitle:        draft.SEOTitle,
		SEODescription:  draft.SEODescription,
		Price:           firstNonEmpty(draft.Price, page.Preview.Price),
		Currency:        firstNonEmpty(draft.Currency, page.Preview.Currency),
		ImageURL:        page.Preview.Image,
		GeneratedAt:     s.now().UTC(),
		Model:           s.provider.Name(),
	}
	s.log.Info("storefront generated",
		zap.String("product_id", sf.ProductID),
		zap.String("kind", string(kind)),
		zap.String("language", sf.Language),
		zap.String("model", sf.Model),
		zap.Duration("completion", s.now().Sub(started)),
	)
	return sf, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
