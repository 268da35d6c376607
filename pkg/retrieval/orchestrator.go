package retrieval

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"b2b-catalog-be/pkg/store"
)

// ErrAllBackendsFailed means neither branch produced an answer; the caller
// must keep the session state untouched and apologize.
var ErrAllBackendsFailed = errors.New("retrieval: all backends failed")

// StructuredBackend is the exact branch: SQL filters over the catalog.
type StructuredBackend interface {
	Search(ctx context.Context, q Query, limit int) ([]store.Product, error)
}

// SemanticBackend is the vector branch: embedding similarity over product
// documents.
type SemanticBackend interface {
	Search(ctx context.Context, text string, limit int) ([]store.Product, error)
}

// Config encapsulates fusion parameters
type Config struct {
	TopK            int
	BackendTimeout  time.Duration
	ExactMatchBonus float64
	StockThreshold  float64
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		TopK:            10,
		BackendTimeout:  2500 * time.Millisecond,
		ExactMatchBonus: 0.15,
		StockThreshold:  0.1,
	}
}

// Orchestrator fans a query out to both branches concurrently and fuses
// the result lists.
type Orchestrator struct {
	structured StructuredBackend
	semantic   SemanticBackend
	logger     *log.Logger
	config     Config
}

func NewOrchestrator(structured StructuredBackend, semantic SemanticBackend, logger *log.Logger, config Config) *Orchestrator {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	if config.BackendTimeout <= 0 {
		config.BackendTimeout = DefaultConfig().BackendTimeout
	}
	return &Orchestrator{
		structured: structured,
		semantic:   semantic,
		logger:     logger,
		config:     config,
	}
}

// Result carries the fused candidates plus which branches contributed, so
// the caller can phrase degraded answers honestly.
type Result struct {
	Products           []store.Product
	StructuredDegraded bool
	SemanticDegraded   bool
	Relaxed            bool
}

type branchResult struct {
	products []store.Product
	relaxed  bool
	err      error
}

// Execute runs both branches in parallel with a per-branch timeout. A
// single failed branch degrades; both failing is an error. An empty
// structured result retries with progressively relaxed constraints before
// giving up.
func (o *Orchestrator) Execute(ctx context.Context, q Query) (*Result, error) {
	structuredCh := make(chan branchResult, 1)
	semanticCh := make(chan branchResult, 1)

	go func() {
		bctx, cancel := context.WithTimeout(ctx, o.config.BackendTimeout)
		defer cancel()
		products, relaxed, err := o.structuredWithRelaxation(bctx, q)
		structuredCh <- branchResult{products: products, relaxed: relaxed, err: err}
	}()

	go func() {
		bctx, cancel := context.WithTimeout(ctx, o.config.BackendTimeout)
		defer cancel()
		if q.Semantic == "" {
			semanticCh <- branchResult{}
			return
		}
		products, err := o.semantic.Search(bctx, q.Semantic, o.config.TopK)
		semanticCh <- branchResult{products: products, err: err}
	}()

	structuredRes := <-structuredCh
	semanticRes := <-semanticCh

	if structuredRes.err != nil {
		o.logger.Printf("[RETRIEVAL] Structured branch failed: %v", structuredRes.err)
	}
	if semanticRes.err != nil {
		o.logger.Printf("[RETRIEVAL] Semantic branch failed: %v", semanticRes.err)
	}
	if structuredRes.err != nil && semanticRes.err != nil {
		return nil, ErrAllBackendsFailed
	}

	result := &Result{
		StructuredDegraded: structuredRes.err != nil,
		SemanticDegraded:   semanticRes.err != nil,
		Relaxed:            structuredRes.relaxed,
	}
	result.Products = o.fuse(structuredRes.products, semanticRes.products)

	o.logger.Printf("[RETRIEVAL] Fused %d structured + %d semantic into %d candidates",
		len(structuredRes.products), len(semanticRes.products), len(result.Products))

	return result, nil
}

// structuredWithRelaxation reruns the exact branch with softer constraints
// until something matches or nothing is left to relax.
func (o *Orchestrator) structuredWithRelaxation(ctx context.Context, q Query) ([]store.Product, bool, error) {
	if !q.HasStructuredSignal() {
		return nil, false, nil
	}

	products, err := o.structured.Search(ctx, q, o.config.TopK)
	if err != nil || len(products) > 0 {
		return products, false, err
	}

	relaxed := q
	for relaxed.Relax() {
		o.logger.Printf("[RETRIEVAL] Structured branch empty, retrying relaxed")
		products, err = o.structured.Search(ctx, relaxed, o.config.TopK)
		if err != nil {
			return nil, true, err
		}
		if len(products) > 0 {
			return products, true, nil
		}
	}
	return nil, true, nil
}

// fuse deduplicates by product id. Exact hits rank by list position,
// semantic hits by similarity; products both branches agree on get the
// bonus and the "both" match kind.
func (o *Orchestrator) fuse(structured, semantic []store.Product) []store.Product {
	merged := make(map[string]*store.Product)
	order := make([]string, 0, len(structured)+len(semantic))

	for i := range structured {
		p := structured[i]
		p.MatchKind = store.MatchExact
		if p.Score == 0 {
			// Position-based: first exact hit scores highest.
			p.Score = 1.0 - float64(i)*0.01
		}
		merged[p.ID] = &p
		order = append(order, p.ID)
	}

	for i := range semantic {
		p := semantic[i]
		if existing, ok := merged[p.ID]; ok {
			existing.MatchKind = store.MatchBoth
			existing.Score += o.config.ExactMatchBonus
			if p.Score > existing.Score {
				existing.Score = p.Score + o.config.ExactMatchBonus
			}
			continue
		}
		p.MatchKind = store.MatchSemantic
		merged[p.ID] = &p
		order = append(order, p.ID)
	}

	products := make([]store.Product, 0, len(merged))
	for _, id := range order {
		p := merged[id]
		if p.Stock < o.config.StockThreshold {
			continue
		}
		products = append(products, *p)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Score != products[j].Score {
			return products[i].Score > products[j].Score
		}
		// Equal relevance: the better-stocked product is the safer offer.
		return products[i].Stock > products[j].Stock
	})

	if len(products) > o.config.TopK {
		products = products[:o.config.TopK]
	}
	return products
}
