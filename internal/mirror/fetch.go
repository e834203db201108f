// Package mirror populates the local mirror from the remote index: a
// bounded worker pool downloads documents in two waves, the second
// derived from amendment records found in the first.
package mirror

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/PLOS/allofplos-sub000/internal/article"
	"github.com/PLOS/allofplos-sub000/internal/corpus"
	"github.com/PLOS/allofplos-sub000/internal/doi"
)

const (
	// DefaultMaxInFlight caps simultaneous requests per remote host.
	DefaultMaxInFlight = 5

	// DefaultMinDelay is the minimum delay between successive request
	// dispatches.
	DefaultMinDelay = 100 * time.Millisecond
)

// Downloader fetches one document's XML by identifier.
type Downloader interface {
	FetchArticle(ctx context.Context, d string) ([]byte, error)
}

// Fetcher downloads documents into a corpus directory.
type Fetcher struct {
	client      Downloader
	corpus      *corpus.Corpus
	maxInFlight int
	dispatch    *rate.Limiter
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxInFlight sets the in-flight request cap.
func WithMaxInFlight(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxInFlight = n
		}
	}
}

// WithMinDelay sets the minimum delay between request dispatches.
func WithMinDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.dispatch = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// NewFetcher creates a Fetcher writing into the given corpus.
func NewFetcher(client Downloader, c *corpus.Corpus, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		corpus:      c,
		maxInFlight: DefaultMaxInFlight,
		dispatch:    rate.NewLimiter(rate.Every(DefaultMinDelay), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result reports the outcome of a batch fetch. A single identifier's
// failure lands in Failed without aborting the rest.
type Result struct {
	Fetched []string
	Failed  map[string]error
}

// Run downloads the given identifiers and then, after the whole first
// wave has finished, runs a second wave for the documents related to
// any amendment records the first wave brought in. The barrier between
// the waves is explicit: wave 2 identifiers cannot be derived until
// every wave-1 download has settled.
func (f *Fetcher) Run(ctx context.Context, dois []string) (*Result, error) {
	result := &Result{Failed: map[string]error{}}

	if err := f.fetchWave(ctx, dois, result); err != nil {
		return result, err
	}

	related, err := f.relatedDOIs(result.Fetched)
	if err != nil {
		return result, err
	}
	if err := f.fetchWave(ctx, related, result); err != nil {
		return result, err
	}

	return result, nil
}

// fetchWave downloads one wave with the in-flight cap and dispatch
// delay, recording per-identifier outcomes.
func (f *Fetcher) fetchWave(ctx context.Context, dois []string, result *Result) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sem  = make(chan struct{}, f.maxInFlight)
		errs = make(map[string]error)
		done []string
	)

	var waveErr error
	for _, d := range dois {
		if err := f.dispatch.Wait(ctx); err != nil {
			// Stop dispatching but drain the in-flight workers below so
			// their outcomes still reach the result.
			waveErr = fmt.Errorf("dispatch delay: %w", err)
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(d string) {
			defer wg.Done()
			defer func() { <-sem }()

			err := f.fetchOne(ctx, d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[d] = err
			} else {
				done = append(done, d)
			}
		}(d)
	}
	wg.Wait()

	result.Fetched = append(result.Fetched, done...)
	for d, err := range errs {
		result.Failed[d] = err
	}
	return waveErr
}

// fetchOne downloads and atomically persists a single document.
func (f *Fetcher) fetchOne(ctx context.Context, d string) error {
	data, err := f.client.FetchArticle(ctx, d)
	if err != nil {
		return err
	}
	return f.corpus.WriteDocument(d, data)
}

// relatedDOIs derives the wave-2 queue: documents referenced by the
// amendment records fetched in wave 1, minus anything already mirrored.
func (f *Fetcher) relatedDOIs(fetched []string) ([]string, error) {
	seen := map[string]bool{}
	var related []string
	for _, d := range fetched {
		if !doi.IsAmendment(d) {
			continue
		}
		a, err := article.New(d, f.corpus.Dir())
		if err != nil {
			return nil, err
		}
		for _, rel := range a.RelatedDOIs() {
			if seen[rel] || f.corpus.Contains(rel) {
				continue
			}
			if doi.Validate(rel) != nil {
				continue
			}
			seen[rel] = true
			related = append(related, rel)
		}
	}
	return related, nil
}
