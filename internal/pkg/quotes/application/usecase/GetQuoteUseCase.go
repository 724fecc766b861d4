package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	cport "github.com/RajeebLochan/QuickPost/internal/infrastructure/cache/port"
	quotes "github.com/RajeebLochan/QuickPost/internal/pkg/quotes/domain"
)

// GetQuoteUseCase serves the cached quote of the day, refreshing inline on a
// cold cache.
type GetQuoteUseCase struct {
	Cache   cport.Cache
	Refresh *RefreshQuoteUseCase
}

func NewGetQuoteUseCase(cache cport.Cache, refresh *RefreshQuoteUseCase) *GetQuoteUseCase {
	return &GetQuoteUseCase{Cache: cache, Refresh: refresh}
}

func (uc *GetQuoteUseCase) Execute(ctx context.Context) (quotes.Quote, error) {
	raw, err := uc.Cache.Get(ctx, CacheKey)
	if err == nil {
		var q quotes.Quote
		if err := json.Unmarshal([]byte(raw), &q); err == nil {
			return q, nil
		}
		// Poisoned cache entry: drop it and fall through to a refresh.
		_, _ = uc.Cache.Del(ctx, CacheKey)
	} else if !errors.Is(err, cport.ErrMiss) {
		return quotes.Quote{}, fmt.Errorf("quote get: cache: %w", err)
	}

	q, err := uc.Refresh.Execute(ctx)
	if err != nil {
		return quotes.Quote{}, ErrQuoteUnavailable
	}
	return q, nil
}
