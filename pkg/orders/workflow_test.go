package orders

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/contract"
	"b2b-catalog-be/internal/repository/specification"
	"b2b-catalog-be/pkg/store"
)

// fakeUnitOfWork records transaction lifecycle and delegates to in-memory
// repositories.

type fakeUnitOfWork struct {
	began      bool
	committed  bool
	rolledBack bool
	orders     *fakeOrderRepo
	products   *fakeProductRepo
}

func newFakeUoW() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		orders:   &fakeOrderRepo{},
		products: &fakeProductRepo{stock: map[uuid.UUID]float64{}},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolledBack = true; return nil }

func (u *fakeUnitOfWork) BrandRepository() contract.BrandRepository     { return nil }
func (u *fakeUnitOfWork) ProductRepository() contract.ProductRepository { return u.products }
func (u *fakeUnitOfWork) ProductEmbeddingRepository() contract.ProductEmbeddingRepository {
	return nil
}
func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository { return u.orders }

type fakeOrderRepo struct {
	created   []*entity.Order
	links     []*entity.ConversationOrder
	createErr error
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	order.Id = uuid.New()
	r.created = append(r.created, order)
	return nil
}

func (r *fakeOrderRepo) CreateConversationLink(ctx context.Context, link *entity.ConversationOrder) error {
	r.links = append(r.links, link)
	return nil
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeProductRepo struct {
	stock        map[uuid.UUID]float64
	decrementErr error
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty float64) error {
	if r.decrementErr != nil {
		return r.decrementErr
	}
	r.stock[id] -= qty
	return nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error       { return nil }
func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error       { return nil }
func (r *fakeProductRepo) UpsertByCode(ctx context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (r *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeProductRepo) DistinctNumeric(ctx context.Context, column string, specs ...specification.Specification) ([]float64, error) {
	return nil, nil
}
func (r *fakeProductRepo) DistinctStrings(ctx context.Context, column string, specs ...specification.Specification) ([]string, error) {
	return nil, nil
}

func testWorkflow() *Workflow {
	return NewWorkflow(log.New(io.Discard, "", 0))
}

func TestBuildDraft(t *testing.T) {
	w := testWorkflow()
	p := store.Product{ID: uuid.NewString(), Code: "MAG-100-200", Name: "MAG Silindir", Stock: 25, UnitPrice: 140}

	draft, err := w.BuildDraft(p, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, draft.Quantity)
	assert.Equal(t, 140.0, draft.UnitPrice)
	assert.Equal(t, 560.0, draft.TotalPrice)
	assert.True(t, draft.ConfirmationPending)
}

func TestBuildDraftInsufficientStock(t *testing.T) {
	w := testWorkflow()
	p := store.Product{ID: uuid.NewString(), Code: "MAG-100-200", Stock: 2, UnitPrice: 140}

	_, err := w.BuildDraft(p, 4)
	var stockErr ErrInsufficientStock
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 2.0, stockErr.Available)
}

func TestBuildDraftRejectsNonPositiveQuantity(t *testing.T) {
	w := testWorkflow()
	_, err := w.BuildDraft(store.Product{Stock: 10}, 0)
	assert.Error(t, err)
}

func TestConfirmPersistsOrderAtomically(t *testing.T) {
	w := testWorkflow()
	uow := newFakeUoW()
	productId := uuid.New()
	uow.products.stock[productId] = 25

	session := store.NewConversationSession("s1", "c1")
	session.Draft = &store.OrderDraft{
		ProductID:   productId.String(),
		ProductCode: "MAG-100-200",
		ProductName: "MAG Silindir",
		Quantity:    4,
		UnitPrice:   140,
		TotalPrice:  560,
	}

	order, err := w.Confirm(context.Background(), uow, session)
	require.NoError(t, err)

	assert.True(t, uow.began)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)

	require.Len(t, uow.orders.created, 1)
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)
	assert.Equal(t, 560.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 4, order.Items[0].Quantity)

	assert.Equal(t, 21.0, uow.products.stock[productId])

	require.Len(t, uow.orders.links, 1)
	assert.Equal(t, "s1", uow.orders.links[0].SessionId)
	assert.Equal(t, order.Id, uow.orders.links[0].OrderId)
}

func TestConfirmRollsBackOnFailure(t *testing.T) {
	w := testWorkflow()
	uow := newFakeUoW()
	productId := uuid.New()
	uow.products.decrementErr = errors.New("stock row locked")

	session := store.NewConversationSession("s1", "c1")
	session.Draft = &store.OrderDraft{
		ProductID:  productId.String(),
		Quantity:   4,
		UnitPrice:  140,
		TotalPrice: 560,
	}

	_, err := w.Confirm(context.Background(), uow, session)
	require.Error(t, err)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)

	// The draft stays so the customer can retry.
	assert.NotNil(t, session.Draft)
}

func TestConfirmWithoutDraft(t *testing.T) {
	w := testWorkflow()
	session := store.NewConversationSession("s1", "c1")

	_, err := w.Confirm(context.Background(), newFakeUoW(), session)
	assert.Error(t, err)
}

func TestGenerateOrderNumber(t *testing.T) {
	re := regexp.MustCompile(`^AI-\d{8}-[0-9A-F]{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, re, n)
		assert.False(t, seen[n], "order numbers must not repeat")
		seen[n] = true
	}
}
