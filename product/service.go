// Package product runs the extraction pipeline for one product URL:
// validate, fetch, locate, map. The first failing stage ends the run.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/use-agent/pdpscrape/extract"
	"github.com/use-agent/pdpscrape/fetcher"
	"github.com/use-agent/pdpscrape/models"
)

// TargetDomain is the only site product URLs may point at.
const TargetDomain = "myntra.com"

// PageFetcher retrieves the raw markup of a product page.
type PageFetcher interface {
	Fetch(ctx context.Context, targetURL string) (*fetcher.Page, error)
}

// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	fetcher PageFetcher
}

// NewService creates a Service backed by f.
func NewService(f PageFetcher) *Service {
	return &Service{fetcher: f}
}

// Lookup extracts the product record for rawURL. Errors are
// *models.ExtractError values identifying the failing stage.
func (s *Service) Lookup(ctx context.Context, rawURL string) (*models.ProductRecord, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	slog.Debug("product page received",
		"url", rawURL,
		"final_url", page.FinalURL,
		"status", page.StatusCode,
	)

	blob, err := extract.Locate(page.Body)
	if err != nil {
		return nil, err
	}

	return extract.Map(blob)
}

// ValidateURL checks that rawURL parses as an http(s) URL and that its host
// contains TargetDomain.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.NewExtractError(models.ErrCodeUnsupportedDomain,
			"validate: only "+TargetDomain+" product URLs are supported", err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return models.NewExtractError(models.ErrCodeUnsupportedDomain,
			fmt.Sprintf("validate: unsupported URL scheme %q, only http(s) "+TargetDomain+" URLs are supported", u.Scheme), nil)
	}
	if !strings.Contains(strings.ToLower(u.Host), TargetDomain) {
		return models.NewExtractError(models.ErrCodeUnsupportedDomain,
			"validate: only "+TargetDomain+" product URLs are supported", nil)
	}
	return nil
}
