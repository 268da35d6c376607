package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/pkg/events"
	pkgNats "b2b-catalog-be/pkg/nats"

	"github.com/google/uuid"
)

type IProductService interface {
	Upsert(ctx context.Context, req *dto.UpsertProductRequest) (*dto.UpsertProductResponse, error)
	IngestCatalog(ctx context.Context, req *dto.IngestCatalogRequest) (*dto.IngestCatalogResponse, error)
	ShowByCode(ctx context.Context, code string) (*dto.ShowProductResponse, error)
	AvailableOptions(ctx context.Context, category string, diameterMm *float64) (*dto.AvailableOptionsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
}

func NewProductService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
) IProductService {
	return &productService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *productService) Upsert(ctx context.Context, req *dto.UpsertProductRequest) (*dto.UpsertProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := s.upsertOne(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	if err := s.publishEmbed(ctx, product.Id); err != nil {
		return nil, err
	}

	return &dto.UpsertProductResponse{
		Id:   product.Id,
		Code: product.Code,
	}, nil
}

func (s *productService) IngestCatalog(ctx context.Context, req *dto.IngestCatalogRequest) (*dto.IngestCatalogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ingested := 0
	for i := range req.Products {
		product, err := s.upsertOne(ctx, uow, &req.Products[i])
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", req.Products[i].Code, err)
		}
		if err := s.publishEmbed(ctx, product.Id); err != nil {
			return nil, err
		}
		ingested++
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeCatalogIngested,
			Data: map[string]interface{}{
				"count": ingested,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CATALOG_INGESTED event: %v\n", err)
		}
	}

	return &dto.IngestCatalogResponse{Ingested: ingested}, nil
}

// upsertOne resolves the brand, normalizes the code and writes the catalog
// row keyed by code.
func (s *productService) upsertOne(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.UpsertProductRequest) (*entity.Product, error) {
	product := entity.Product{
		Id:          uuid.New(),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		DiameterMm:  req.DiameterMm,
		StrokeMm:    req.StrokeMm,
		Features:    req.Features,
		Stock:       req.Stock,
		UnitPrice:   req.UnitPrice,
		CreatedAt:   time.Now(),
	}

	if req.Brand != "" {
		brand, err := uow.BrandRepository().FirstOrCreateByName(ctx, req.Brand)
		if err != nil {
			return nil, err
		}
		product.BrandId = brand.Id
		product.BrandName = brand.Name
	}

	if err := uow.ProductRepository().UpsertByCode(ctx, &product); err != nil {
		return nil, err
	}

	// A conflicting insert keeps the existing row id, so re-read the row the
	// code actually points at before queueing the embed job.
	stored, err := uow.ProductRepository().FindOne(ctx, specification.ByCode{Code: product.Code})
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}
	return &product, nil
}

func (s *productService) publishEmbed(ctx context.Context, productId uuid.UUID) error {
	msgPayload := dto.PublishEmbedProductMessage{
		ProductId: productId,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, msgJson)
}

func (s *productService) ShowByCode(ctx context.Context, code string) (*dto.ShowProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByCode{Code: code})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	return &dto.ShowProductResponse{
		Id:          product.Id,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.BrandName,
		Category:    product.Category,
		DiameterMm:  product.DiameterMm,
		StrokeMm:    product.StrokeMm,
		Features:    product.Features,
		Stock:       product.Stock,
		UnitPrice:   product.UnitPrice,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}, nil
}

// AvailableOptions lists the in-stock values a user can still pick from.
// With a diameter given, strokes are narrowed to that diameter; otherwise
// the full diameter list is offered.
func (s *productService) AvailableOptions(ctx context.Context, category string, diameterMm *float64) (*dto.AvailableOptionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProductRepository()

	baseSpecs := []specification.Specification{specification.InStock{Threshold: 0}}
	if category != "" {
		baseSpecs = append(baseSpecs, specification.ByCategory{Category: category})
	}

	resp := &dto.AvailableOptionsResponse{}

	var err error
	if diameterMm != nil {
		strokeSpecs := append([]specification.Specification{}, baseSpecs...)
		strokeSpecs = append(strokeSpecs, specification.ByDiameter{Mm: *diameterMm})
		resp.Strokes, err = repo.DistinctNumeric(ctx, "stroke_mm", strokeSpecs...)
		if err != nil {
			return nil, err
		}
	} else {
		resp.Diameters, err = repo.DistinctNumeric(ctx, "diameter_mm", baseSpecs...)
		if err != nil {
			return nil, err
		}
	}

	brands, err := uow.BrandRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range brands {
		resp.Brands = append(resp.Brands, b.Name)
	}

	return resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ProductEmbeddingRepository().DeleteByProductId(ctx, id); err != nil {
		return err
	}
	if err := uow.ProductRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}
