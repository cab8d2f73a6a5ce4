package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nomadcxx/seriesrenamer/internal/catalog"
	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

// ErrWorkerDisconnected is reported when a worker terminates without
// delivering its result. It is distinct from a normal failed fetch.
var ErrWorkerDisconnected = errors.New("fetch worker terminated without a result")

// errWorkerPanic marks a recovered panic inside one of the worker's tasks
var errWorkerPanic = errors.New("fetch task panicked")

// Catalog looks up the episode list for one season of a show
type Catalog interface {
	FetchEpisodes(ctx context.Context, link string, season int) ([]media.Episode, error)
}

// ScanFunc enumerates local files under root
type ScanFunc func(root string) []media.LocalFile

// Request describes one fetch attempt
type Request struct {
	Link   string
	Root   string
	Season int
}

// Result is the single terminal message of a fetch attempt.
// Err == nil means the fetch succeeded.
type Result struct {
	Generation uint64
	Episodes   []media.Episode
	Files      []media.LocalFile
	Err        error
	Elapsed    time.Duration
}

// Handle is the consumer side of one fetch attempt
type Handle struct {
	generation uint64
	ch         <-chan Result
	done       bool
}

// Generation returns the generation the attempt was started under
func (h *Handle) Generation() uint64 {
	return h.generation
}

// Done reports whether the result has already been delivered
func (h *Handle) Done() bool {
	return h.done
}

// Poll returns the result once available. It never blocks and may be
// called every tick; after delivery it keeps returning false.
func (h *Handle) Poll() (Result, bool) {
	if h == nil || h.done {
		return Result{}, false
	}

	select {
	case r, ok := <-h.ch:
		h.done = true
		if !ok {
			return Result{Generation: h.generation, Err: ErrWorkerDisconnected}, true
		}
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the result arrives or ctx ends. Used by non-interactive callers.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case r, ok := <-h.ch:
		h.done = true
		if !ok {
			return Result{Generation: h.generation, Err: ErrWorkerDisconnected}, nil
		}
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Coordinator runs the directory scan and catalog lookup off the
// interactive loop. Single-flight gating is the caller's job; the
// generation counter lets the caller discard stale results.
type Coordinator struct {
	catalog    Catalog
	scan       ScanFunc
	log        *slog.Logger
	generation atomic.Uint64
}

// New creates a coordinator
func New(c Catalog, scan ScanFunc, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		catalog: c,
		scan:    scan,
		log:     log.With("component", "fetch"),
	}
}

// Generation returns the generation of the most recently started attempt
func (c *Coordinator) Generation() uint64 {
	return c.generation.Load()
}

// IsCurrent reports whether r belongs to the most recently started attempt
func (c *Coordinator) IsCurrent(r Result) bool {
	return r.Generation == c.Generation()
}

// Start spawns one worker for req. A link without a catalog identifier
// fails here, before any goroutine or network work.
func (c *Coordinator) Start(ctx context.Context, req Request) (*Handle, error) {
	if _, err := catalog.ExtractIdentifier(req.Link); err != nil {
		return nil, err
	}

	gen := c.generation.Add(1)
	// Capacity 1: the worker never blocks on send, so a discarded handle leaks nothing
	ch := make(chan Result, 1)

	c.log.Info("fetch started", "generation", gen, "root", req.Root, "season", req.Season)

	go c.run(ctx, gen, req, ch)

	return &Handle{generation: gen, ch: ch}, nil
}

func (c *Coordinator) run(ctx context.Context, gen uint64, req Request, ch chan<- Result) {
	defer close(ch)
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("fetch worker panicked", "generation", gen, "panic", fmt.Sprint(r))
		}
	}()

	start := time.Now()
	result := Result{Generation: gen}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(c.guard(gen, func() error {
		result.Files = c.scan(req.Root)
		return nil
	}))
	g.Go(c.guard(gen, func() error {
		episodes, err := c.catalog.FetchEpisodes(gctx, req.Link, req.Season)
		if err != nil {
			return err
		}
		result.Episodes = episodes
		return nil
	}))

	err := g.Wait()
	if errors.Is(err, errWorkerPanic) {
		// Close without sending; the handle reports ErrWorkerDisconnected
		return
	}
	if err != nil {
		// No partial results on failure
		result = Result{Generation: gen, Err: err}
		c.log.Warn("fetch failed", "generation", gen, "error", err)
	} else {
		c.log.Info("fetch complete", "generation", gen,
			"episodes", len(result.Episodes), "files", len(result.Files))
	}
	result.Elapsed = time.Since(start)

	ch <- result
}

// guard converts a panic in fn into errWorkerPanic
func (c *Coordinator) guard(gen uint64, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				c.log.Error("fetch task panicked", "generation", gen, "panic", fmt.Sprint(r))
				err = errWorkerPanic
			}
		}()
		return fn()
	}
}
