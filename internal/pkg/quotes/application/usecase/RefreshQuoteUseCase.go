package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	cport "github.com/RajeebLochan/QuickPost/internal/infrastructure/cache/port"
	quotes "github.com/RajeebLochan/QuickPost/internal/pkg/quotes/domain"
)

const (
	// CacheKey is where the current quote lives in the cache.
	CacheKey = "quote:daily"

	// cacheTTL outlives the refresh interval so a failed refresh serves the
	// previous quote instead of nothing.
	cacheTTL = 48 * time.Hour

	defaultSourceURL = "https://zenquotes.io/api/today"
)

// ErrQuoteUnavailable is returned when neither the cache nor the upstream
// source can produce a quote.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// zenQuoteEntry matches the upstream response: an array of quote objects.
type zenQuoteEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// RefreshQuoteUseCase fetches the quote of the day from the upstream source
// and stores it in the cache.
type RefreshQuoteUseCase struct {
	Cache     cport.Cache
	Client    *http.Client
	SourceURL string
}

func NewRefreshQuoteUseCase(cache cport.Cache) *RefreshQuoteUseCase {
	url := os.Getenv("QUOTE_SOURCE_URL")
	if url == "" {
		url = defaultSourceURL
	}
	return &RefreshQuoteUseCase{
		Cache:     cache,
		Client:    &http.Client{Timeout: 10 * time.Second},
		SourceURL: url,
	}
}

func (uc *RefreshQuoteUseCase) Execute(ctx context.Context) (quotes.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uc.SourceURL, nil)
	if err != nil {
		return quotes.Quote{}, fmt.Errorf("quote refresh: build request: %w", err)
	}
	resp, err := uc.Client.Do(req)
	if err != nil {
		return quotes.Quote{}, fmt.Errorf("quote refresh: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return quotes.Quote{}, fmt.Errorf("quote refresh: upstream status %d", resp.StatusCode)
	}

	var entries []zenQuoteEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return quotes.Quote{}, fmt.Errorf("quote refresh: decode: %w", err)
	}
	if len(entries) == 0 || entries[0].Q == "" {
		return quotes.Quote{}, fmt.Errorf("quote refresh: empty upstream response")
	}

	q := quotes.Quote{
		Text:      entries[0].Q,
		Author:    entries[0].A,
		FetchedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(q)
	if err != nil {
		return quotes.Quote{}, fmt.Errorf("quote refresh: encode: %w", err)
	}
	if err := uc.Cache.Set(ctx, CacheKey, string(encoded), cacheTTL); err != nil {
		return quotes.Quote{}, fmt.Errorf("quote refresh: cache set: %w", err)
	}
	return q, nil
}
