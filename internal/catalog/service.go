package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

const maxFetchAttempts = 3

// Gateway is the slice of the commerce gateway the catalog reads from.
type Gateway interface {
	ProductByHandle(ctx context.Context, handle string) (*shopify.ProductPayload, error)
	CollectionByHandle(ctx context.Context, handle string) (*shopify.CollectionPayload, error)
}

// FetchError is surfaced after all fetch attempts are exhausted.
type FetchError struct {
	Kind     string // "product" or "collection"
	Handle   string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog: fetch %s %q failed after %d attempts: %v", e.Kind, e.Handle, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Service fetches and normalizes catalog data.
type Service struct {
	gw    Gateway
	cache ProductCache // optional, nil disables caching
	sfg   singleflight.Group
}

func NewService(gw Gateway, cache ProductCache) *Service {
	return &Service{gw: gw, cache: cache}
}

// Product returns the normalized product for a handle. Concurrent requests
// for the same handle are collapsed into a single fetch.
func (s *Service) Product(ctx context.Context, handle string) (*Product, error) {
	v, err, _ := s.sfg.Do("product:"+handle, func() (interface{}, error) {
		if s.cache != nil {
			p, err := s.cache.Get(ctx, handle)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("catalog cache get error: %v", err)
			}
		}

		var payload *shopify.ProductPayload
		err := s.retry(ctx, "product", handle, func() error {
			var errFetch error
			payload, errFetch = s.gw.ProductByHandle(ctx, handle)
			return errFetch
		})
		if err != nil {
			return nil, err
		}

		p, err := normalizeProduct(payload)
		if err != nil {
			return nil, &FetchError{Kind: "product", Handle: handle, Attempts: 1, Err: err}
		}

		if s.cache != nil {
			go func() {
				if errSet := s.cache.Set(context.Background(), handle, p); errSet != nil {
					log.Printf("catalog cache set error: %v", errSet)
				}
			}()
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

// Collection returns the normalized collection for a handle.
func (s *Service) Collection(ctx context.Context, handle string) (*Collection, error) {
	v, err, _ := s.sfg.Do("collection:"+handle, func() (interface{}, error) {
		var payload *shopify.CollectionPayload
		err := s.retry(ctx, "collection", handle, func() error {
			var errFetch error
			payload, errFetch = s.gw.CollectionByHandle(ctx, handle)
			return errFetch
		})
		if err != nil {
			return nil, err
		}

		c, err := normalizeCollection(payload)
		if err != nil {
			return nil, &FetchError{Kind: "collection", Handle: handle, Attempts: 1, Err: err}
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Collection), nil
}

// retry runs op up to maxFetchAttempts times with doubling, capped delays.
// Missing handles are not worth retrying.
func (s *Service) retry(ctx context.Context, kind, handle string, op func() error) error {
	attempts := 0
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.Multiplier = 2
	bo.MaxInterval = 2 * time.Second
	bo.RandomizationFactor = 0

	err := backoff.Retry(func() error {
		attempts++
		errOp := op()
		if errors.Is(errOp, shopify.ErrNotFound) {
			return backoff.Permanent(errOp)
		}
		return errOp
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxFetchAttempts-1), ctx))

	if err != nil {
		return &FetchError{Kind: kind, Handle: handle, Attempts: attempts, Err: err}
	}
	return nil
}
