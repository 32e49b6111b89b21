package parser

import (
	"errors"
	"log/slog"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// DefaultCapacity is the number of idle parsers a pool keeps by default.
const DefaultCapacity = 4

// Resolver supplies the engine Language for a language name.
type Resolver interface {
	Get(l lang.Language) (*tree_sitter.Language, error)
}

// Options configures a Pool.
type Options struct {
	// Capacity bounds the idle parsers retained between uses.
	Capacity int
	// MaxInFlight bounds concurrently leased parsers. Zero means unbounded:
	// a miss always allocates.
	MaxInFlight int
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Idle      int    `json:"idle"`
	InFlight  int    `json:"in_flight"`
	Created   uint64 `json:"created"`
	Reused    uint64 `json:"reused"`
	Rebound   uint64 `json:"rebound"`
	Discarded uint64 `json:"discarded"`
}

// Pool is a bounded cache of ready parsers shared across languages. A pool
// hit prefers an idle parser already bound to the requested language and
// rebinds another one otherwise.
type Pool struct {
	resolver    Resolver
	capacity    int
	maxInFlight int

	mu     sync.Mutex
	idle   []*Handle
	closed bool
	stats  Stats
}

// NewPool creates a pool that resolves languages through r.
func NewPool(r Resolver, opts Options) *Pool {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	return &Pool{
		resolver:    r,
		capacity:    opts.Capacity,
		maxInFlight: opts.MaxInFlight,
		idle:        make([]*Handle, 0, opts.Capacity),
	}
}

// Capacity returns the configured idle bound.
func (p *Pool) Capacity() int { return p.capacity }

// Acquire leases a parser bound to l.
func (p *Pool) Acquire(l lang.Language) (*Lease, error) {
	ts, err := p.resolver.Get(l)
	if err != nil {
		if errors.Is(err, syntaxerr.ErrConfiguration) {
			return nil, err
		}
		return nil, syntaxerr.Configurationf("resolve %s: %v", l, err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, syntaxerr.Resourcef("pool is closed")
	}
	if p.maxInFlight > 0 && p.stats.InFlight >= p.maxInFlight {
		n := p.stats.InFlight
		p.mu.Unlock()
		return nil, syntaxerr.Resourcef("%d parsers in flight, limit %d", n, p.maxInFlight)
	}
	h := p.takeIdle(l)
	if h != nil {
		p.stats.Reused++
		if h.lang != l {
			p.stats.Rebound++
		}
	} else {
		p.stats.Created++
	}
	p.stats.InFlight++
	p.mu.Unlock()

	if h == nil {
		h = newHandle()
	}
	if err := h.bind(l, ts); err != nil {
		p.mu.Lock()
		p.stats.InFlight--
		p.stats.Discarded++
		p.mu.Unlock()
		h.close()
		return nil, err
	}
	slog.Debug("pool.acquire", "lang", l)
	return &Lease{pool: p, h: h}, nil
}

// takeIdle pops the most recently idled parser bound to l, or failing that
// the most recently idled parser of any language. Callers hold p.mu.
func (p *Pool) takeIdle(l lang.Language) *Handle {
	n := len(p.idle)
	if n == 0 {
		return nil
	}
	pick := n - 1
	for i := n - 1; i >= 0; i-- {
		if p.idle[i].lang == l {
			pick = i
			break
		}
	}
	h := p.idle[pick]
	p.idle = append(p.idle[:pick], p.idle[pick+1:]...)
	return h
}

func (p *Pool) release(h *Handle) {
	h.reset()
	p.mu.Lock()
	p.stats.InFlight--
	if !p.closed && len(p.idle) < p.capacity {
		p.idle = append(p.idle, h)
		p.mu.Unlock()
		return
	}
	p.stats.Discarded++
	p.mu.Unlock()
	slog.Debug("pool.discard", "lang", h.lang)
	h.close()
}

// Do runs fn with a parser bound to l and releases it afterwards.
func (p *Pool) Do(l lang.Language, fn func(*Lease) error) error {
	lease, err := p.Acquire(l)
	if err != nil {
		return err
	}
	defer lease.Release()
	return fn(lease)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Idle = len(p.idle)
	return s
}

// Close destroys idle parsers. Leases still out are destroyed on release.
func (p *Pool) Close() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.mu.Unlock()
	for _, h := range idle {
		h.close()
	}
}
