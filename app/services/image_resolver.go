// Package services holds the orchestration layer between HTTP handlers and
// the store: image enrichment, product lifecycle and login.
package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/shoplist/assets"
	"github.com/shashiranjanraj/shoplist/pkg/http"
	"github.com/shashiranjanraj/shoplist/pkg/logger"
	"github.com/shashiranjanraj/shoplist/pkg/metrics"
)

// Searcher finds a photo URL for a free-text query. Satisfied by
// *pexels.Client; tests substitute fakes.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// ImageResolver turns a product name into image bytes. It never fails:
// remote lookup and download errors are logged and absorbed, and the
// bundled fallback chain guarantees a result.
type ImageResolver struct {
	searcher Searcher

	// lookup resolves a logical asset key to bytes. Defaults to the
	// compiled-in assets; tests override it to exercise the chain.
	lookup func(key string) ([]byte, bool)
	chain  []string

	downloadTimeout time.Duration
}

// NewImageResolver builds a resolver over the given photo searcher.
func NewImageResolver(searcher Searcher) *ImageResolver {
	return &ImageResolver{
		searcher:        searcher,
		lookup:          assets.Get,
		chain:           assets.FallbackChain,
		downloadTimeout: 30 * time.Second,
	}
}

// Resolve returns image bytes for name: the best remote photo when the
// search and download both succeed, otherwise the first available bundled
// fallback image. The two outgoing calls here are the only I/O suspension
// points of the add-product flow.
func (r *ImageResolver) Resolve(ctx context.Context, name string) []byte {
	log := logger.WithCtx(ctx)

	url, err := r.searcher.Search(ctx, name)
	switch {
	case err != nil:
		metrics.ImageLookups.WithLabelValues("error").Inc()
		log.Warn("image: photo lookup failed, using fallback", "name", name, "error", err)
	case url == "":
		metrics.ImageLookups.WithLabelValues("empty").Inc()
		log.Info("image: no photo found, using fallback", "name", name)
	default:
		metrics.ImageLookups.WithLabelValues("photo").Inc()
		if data, err := r.download(ctx, url); err != nil {
			log.Warn("image: download failed, using fallback", "url", url, "error", err)
		} else {
			return data
		}
	}

	return r.fallback(name)
}

func (r *ImageResolver) download(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	resp, err := http.Get(url).
		Timeout(r.downloadTimeout).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}

	metrics.ImageDownloadDuration.Observe(time.Since(start).Seconds())
	return resp.Raw, nil
}

// fallback walks the ordered chain of bundled images and returns the first
// one present. The chain is compiled in, so this only comes up empty if the
// binary itself is broken — and even then it returns rather than panics.
func (r *ImageResolver) fallback(name string) []byte {
	for _, key := range r.chain {
		if data, ok := r.lookup(key); ok {
			return data
		}
	}
	logger.Error("image: no fallback asset available", "name", name)
	return nil
}
