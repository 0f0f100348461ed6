// Package feed simulates a paged backend for the demo list.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-drift/listadapter/pkg/adapter"
)

// ErrUnavailable is returned for an injected page failure.
var ErrUnavailable = errors.New("feed: page unavailable")

// namespace seeds the stable entry ids.
var namespace = uuid.MustParse("6f1c5a8e-2d43-4b8e-9a57-3c0f2b7d9e10")

// ViewTypeGroup tags group rows.
const ViewTypeGroup adapter.ViewType = 1

// Entry is one feed item.
type Entry struct {
	adapter.ItemBase
	ID    uuid.UUID
	Title string
	Page  int
}

func (e *Entry) String() string { return e.Title }

// Group is a titled row followed by its entries.
type Group struct {
	ID      uuid.UUID
	Title   string
	Entries []*Entry
}

func (g *Group) ViewType() adapter.ViewType { return ViewTypeGroup }

func (g *Group) NestedItems() []adapter.Item {
	out := make([]adapter.Item, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e
	}
	return out
}

func (g *Group) String() string { return g.Title }

// Options shapes a Feed.
type Options struct {
	// FirstPage is the number of entries on page 0.
	FirstPage int
	// PageSize is the number of entries on every later page.
	PageSize int
	// Pages is the number of pages after the first. Loading past them
	// returns no entries.
	Pages int
	// GroupEvery groups page 0 into groups of this many entries. Zero
	// disables grouping.
	GroupEvery int
	// Latency delays every load.
	Latency time.Duration
	// FailureRate is the probability that an attempt fails.
	FailureRate float64
	// Seed makes failures reproducible.
	Seed uint64
}

// Feed serves pages of entries.
type Feed struct {
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	attempts map[int]int
}

// New returns a feed. A nil logger discards events.
func New(opts Options, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		opts:     opts,
		log:      logger.Named("feed"),
		attempts: make(map[int]int),
	}
}

// Load returns the entries of page. It honors ctx while waiting out the
// configured latency.
func (f *Feed) Load(ctx context.Context, page int) ([]adapter.Item, error) {
	if page < 0 {
		return nil, fmt.Errorf("feed: invalid page %d", page)
	}

	f.mu.Lock()
	attempt := f.attempts[page]
	f.attempts[page]++
	f.mu.Unlock()

	log := f.log.With(zap.Int("page", page), zap.Int("attempt", attempt))
	if f.opts.Latency > 0 {
		timer := time.NewTimer(f.opts.Latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug("load canceled", zap.Error(ctx.Err()))
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if f.fails(page, attempt) {
		log.Info("injected failure")
		return nil, fmt.Errorf("%w: page %d", ErrUnavailable, page)
	}

	items := f.page(page)
	log.Debug("page served", zap.Int("items", len(items)))
	return items, nil
}

// Attempts returns how often page was requested.
func (f *Feed) Attempts(page int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[page]
}

// fails decides an attempt from the seed alone, so a run can be replayed.
func (f *Feed) fails(page, attempt int) bool {
	if f.opts.FailureRate <= 0 {
		return false
	}
	r := rand.New(rand.NewPCG(f.opts.Seed, uint64(page)<<32|uint64(attempt)))
	return r.Float64() < f.opts.FailureRate
}

func (f *Feed) page(page int) []adapter.Item {
	if page == 0 {
		entries := f.entries(0, 0, f.opts.FirstPage)
		if f.opts.GroupEvery > 0 {
			return group(entries, f.opts.GroupEvery)
		}
		return asItems(entries)
	}
	if page > f.opts.Pages {
		return nil
	}
	first := f.opts.FirstPage + (page-1)*f.opts.PageSize
	return asItems(f.entries(page, first, f.opts.PageSize))
}

func (f *Feed) entries(page, first, n int) []*Entry {
	out := make([]*Entry, n)
	for i := range out {
		num := first + i
		out[i] = &Entry{
			ID:    uuid.NewSHA1(namespace, fmt.Appendf(nil, "entry/%d", num)),
			Title: fmt.Sprintf("entry %d", num),
			Page:  page,
		}
	}
	return out
}

func group(entries []*Entry, every int) []adapter.Item {
	var out []adapter.Item
	for start := 0; start < len(entries); start += every {
		end := min(start+every, len(entries))
		n := len(out)
		out = append(out, &Group{
			ID:      uuid.NewSHA1(namespace, fmt.Appendf(nil, "group/%d", n)),
			Title:   fmt.Sprintf("entries %d-%d", start, end-1),
			Entries: entries[start:end],
		})
	}
	return out
}

func asItems(entries []*Entry) []adapter.Item {
	out := make([]adapter.Item, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}
