package service

import (
	"context"
	"fmt"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/pkg/embedding"
	"b2b-catalog-be/pkg/retrieval"
	"b2b-catalog-be/pkg/store"

	"github.com/google/uuid"
)

// structuredSearchBackend is the exact retrieval branch: slot filters
// compiled to catalog specifications.
type structuredSearchBackend struct {
	uowFactory     unitofwork.RepositoryFactory
	stockThreshold float64
}

func NewStructuredSearchBackend(uowFactory unitofwork.RepositoryFactory, stockThreshold float64) retrieval.StructuredBackend {
	return &structuredSearchBackend{
		uowFactory:     uowFactory,
		stockThreshold: stockThreshold,
	}
}

func (b *structuredSearchBackend) Search(ctx context.Context, q retrieval.Query, limit int) ([]store.Product, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProductRepository()

	// A product code beats everything else: it names one row.
	if q.ProductCode != "" {
		product, err := repo.FindOne(ctx, specification.ByCode{Code: q.ProductCode})
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, nil
		}
		return []store.Product{toStoreProduct(product, 0)}, nil
	}

	specs := []specification.Specification{
		specification.InStock{Threshold: b.stockThreshold},
		specification.Pagination{Limit: limit},
	}
	if q.DiameterMm != nil {
		specs = append(specs, specification.ByDiameter{Mm: *q.DiameterMm})
	}
	if q.StrokeMm != nil {
		specs = append(specs, specification.ByStroke{Mm: *q.StrokeMm})
	}
	if q.Brand != "" {
		specs = append(specs, specification.ByBrandName{Name: q.Brand})
	}
	if q.Category != "" {
		specs = append(specs, specification.ByCategory{Category: q.Category})
	}
	for _, tag := range q.Features {
		specs = append(specs, specification.HasFeature{Tag: tag})
	}

	products, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]store.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toStoreProduct(p, 0))
	}
	return out, nil
}

// semanticSearchBackend embeds the query text and ranks product documents
// by vector similarity, then hydrates full catalog rows.
type semanticSearchBackend struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	similarityCutoff  float64
	stockThreshold    float64
}

func NewSemanticSearchBackend(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	similarityCutoff float64,
	stockThreshold float64,
) retrieval.SemanticBackend {
	return &semanticSearchBackend{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		similarityCutoff:  similarityCutoff,
		stockThreshold:    stockThreshold,
	}
}

func (b *semanticSearchBackend) Search(ctx context.Context, text string, limit int) ([]store.Product, error) {
	if b.embeddingProvider == nil {
		return nil, fmt.Errorf("semantic search: no embedding provider configured")
	}

	res, err := b.embeddingProvider.Generate(text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("semantic search: embed query: %w", err)
	}

	uow := b.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.ProductEmbeddingRepository().SearchSimilarWithScore(
		ctx, res.Embedding.Values, limit, b.similarityCutoff, b.stockThreshold,
	)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(scored))
	similarity := make(map[uuid.UUID]float64, len(scored))
	for _, s := range scored {
		ids = append(ids, s.Embedding.ProductId)
		similarity[s.Embedding.ProductId] = s.Similarity
	}

	products, err := uow.ProductRepository().FindAll(ctx, specification.ByProductIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.Product, len(products))
	for _, p := range products {
		byId[p.Id] = p
	}

	// Preserve similarity order, not row order.
	out := make([]store.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byId[id]
		if !ok {
			continue
		}
		out = append(out, toStoreProduct(p, similarity[id]))
	}
	return out, nil
}

func toStoreProduct(p *entity.Product, score float64) store.Product {
	sp := store.Product{
		ID:        p.Id.String(),
		Code:      p.Code,
		Name:      p.Name,
		Brand:     p.BrandName,
		Category:  p.Category,
		Features:  append([]string(nil), p.Features...),
		Stock:     p.Stock,
		UnitPrice: p.UnitPrice,
		Score:     score,
	}
	if p.DiameterMm != nil {
		sp.Diameter = *p.DiameterMm
	}
	if p.StrokeMm != nil {
		sp.Stroke = *p.StrokeMm
	}
	return sp
}
