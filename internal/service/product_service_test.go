package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/specification"
	"b2b-catalog-be/pkg/slots"
)

type fakeBrandRepo struct {
	created []*entity.Brand
}

func (r *fakeBrandRepo) Create(ctx context.Context, brand *entity.Brand) error {
	r.created = append(r.created, brand)
	return nil
}

func (r *fakeBrandRepo) FirstOrCreateByName(ctx context.Context, name string) (*entity.Brand, error) {
	brand := &entity.Brand{Id: uuid.New(), Name: name, CreatedAt: time.Now()}
	r.created = append(r.created, brand)
	return brand, nil
}

func (r *fakeBrandRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brand, error) {
	return nil, nil
}

func (r *fakeBrandRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brand, error) {
	var out []*entity.Brand
	return append(out, r.created...), nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestProductUpsertQueuesEmbedding(t *testing.T) {
	uow := newFakeUoW()
	storedId := uuid.New()
	uow.products.findOneResult = &entity.Product{
		Id:   storedId,
		Code: "DSNU-25-100",
	}
	publisher := &fakePublisher{}
	svc := NewProductService(&fakeRepoFactory{uow: uow}, publisher, nil)

	dia := 25.0
	res, err := svc.Upsert(context.Background(), &dto.UpsertProductRequest{
		Code:       "dsnu-25-100",
		Name:       "Yuvarlak Silindir",
		Brand:      "FESTO",
		Category:   "cylinder",
		DiameterMm: &dia,
		Stock:      40,
		UnitPrice:  85.5,
	})
	require.NoError(t, err)

	// Codes are normalized to upper case before the write.
	require.Len(t, uow.products.upserted, 1)
	assert.Equal(t, "DSNU-25-100", uow.products.upserted[0].Code)

	// The embed message names the stored row, not the candidate insert.
	assert.Equal(t, storedId, res.Id)
	require.Len(t, publisher.payloads, 1)
	var msg dto.PublishEmbedProductMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, storedId, msg.ProductId)

	// The brand was resolved through the brand repository.
	require.Len(t, uow.brands.created, 1)
	assert.Equal(t, "FESTO", uow.brands.created[0].Name)
}

func TestIngestCatalogPublishesPerProduct(t *testing.T) {
	uow := newFakeUoW()
	publisher := &fakePublisher{}
	svc := NewProductService(&fakeRepoFactory{uow: uow}, publisher, nil)

	res, err := svc.IngestCatalog(context.Background(), &dto.IngestCatalogRequest{
		Products: []dto.UpsertProductRequest{
			{Code: "A-1", Name: "Ürün A", Category: "valve"},
			{Code: "B-2", Name: "Ürün B", Category: "hose"},
			{Code: "C-3", Name: "Ürün C", Category: "fitting"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Ingested)
	assert.Len(t, uow.products.upserted, 3)
	assert.Len(t, publisher.payloads, 3)
}

func TestBuildProductDocument(t *testing.T) {
	dia, stroke := 100.0, 200.0
	product := &entity.Product{
		Code:        "MAG-100-200-M",
		Name:        "Profil Silindir",
		Description: "ISO 15552 profil gövdeli silindir.",
		BrandName:   "MAG",
		Category:    "cylinder",
		DiameterMm:  &dia,
		StrokeMm:    &stroke,
		Features:    []string{slots.FeatureMagnetic, slots.FeatureDoubleActing},
	}

	doc := BuildProductDocument(product)

	assert.Contains(t, doc, "MAG-100-200-M Profil Silindir")
	assert.Contains(t, doc, "Marka: MAG")
	assert.Contains(t, doc, "Çap: 100 mm")
	assert.Contains(t, doc, "Strok: 200 mm")
	// Feature tags render as customer-facing surface forms.
	assert.Contains(t, doc, "manyetik sensörlü")
	assert.Contains(t, doc, "çift etkili")
	assert.Contains(t, doc, "ISO 15552 profil gövdeli silindir.")
}

func TestBuildProductDocumentSparseProduct(t *testing.T) {
	product := &entity.Product{
		Code:     "PARKER-RK-14",
		Name:     "Hızlı Rakor",
		Category: "fitting",
	}

	doc := BuildProductDocument(product)

	assert.Contains(t, doc, "PARKER-RK-14 Hızlı Rakor")
	assert.Contains(t, doc, "Kategori: fitting")
	assert.NotContains(t, doc, "Çap")
	assert.NotContains(t, doc, "Özellikler")
}
