package service

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

	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/contract"
	"b2b-catalog-be/internal/repository/specification"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/pkg/dialog"
	"b2b-catalog-be/pkg/inquiry"
	"b2b-catalog-be/pkg/orders"
	"b2b-catalog-be/pkg/response"
	"b2b-catalog-be/pkg/retrieval"
	"b2b-catalog-be/pkg/slots"
	"b2b-catalog-be/pkg/store"
)

// --- fakes ---

type fakeSessionStore struct {
	sessions map[string]*store.ConversationSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*store.ConversationSession{}}
}

func (s *fakeSessionStore) Get(id string) (*store.ConversationSession, bool) {
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *fakeSessionStore) Save(sess *store.ConversationSession) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *fakeSessionStore) Delete(id string) { delete(s.sessions, id) }

type fakeStructuredBackend struct {
	products []store.Product
	err      error
}

func (b *fakeStructuredBackend) Search(ctx context.Context, q retrieval.Query, limit int) ([]store.Product, error) {
	return b.products, b.err
}

type fakeSemanticBackend struct {
	products []store.Product
	err      error
}

func (b *fakeSemanticBackend) Search(ctx context.Context, text string, limit int) ([]store.Product, error) {
	return b.products, b.err
}

type fakeUnitOfWork struct {
	began      bool
	committed  bool
	rolledBack bool
	orderRepo  *fakeOrderRepo
	products   *fakeProductRepo
	brands     *fakeBrandRepo
}

func newFakeUoW() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		orderRepo: &fakeOrderRepo{},
		products:  &fakeProductRepo{stock: map[uuid.UUID]float64{}},
		brands:    &fakeBrandRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolledBack = true; return nil }

func (u *fakeUnitOfWork) BrandRepository() contract.BrandRepository     { return u.brands }
func (u *fakeUnitOfWork) ProductRepository() contract.ProductRepository { return u.products }
func (u *fakeUnitOfWork) ProductEmbeddingRepository() contract.ProductEmbeddingRepository {
	return nil
}
func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository { return u.orderRepo }

type fakeRepoFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepoFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeOrderRepo struct {
	created []*entity.Order
	links   []*entity.ConversationOrder
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
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
	stock         map[uuid.UUID]float64
	upserted      []*entity.Product
	findOneResult *entity.Product
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty float64) error {
	if r.stock[id] < qty {
		return errors.New("insufficient stock")
	}
	r.stock[id] -= qty
	return nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error       { return nil }
func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error       { return nil }
func (r *fakeProductRepo) UpsertByCode(ctx context.Context, p *entity.Product) error {
	r.upserted = append(r.upserted, p)
	return nil
}
func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	return r.findOneResult, nil
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

type fakeProductService struct {
	options dto.AvailableOptionsResponse
}

func (s *fakeProductService) Upsert(ctx context.Context, req *dto.UpsertProductRequest) (*dto.UpsertProductResponse, error) {
	return nil, nil
}
func (s *fakeProductService) IngestCatalog(ctx context.Context, req *dto.IngestCatalogRequest) (*dto.IngestCatalogResponse, error) {
	return nil, nil
}
func (s *fakeProductService) ShowByCode(ctx context.Context, code string) (*dto.ShowProductResponse, error) {
	return nil, nil
}
func (s *fakeProductService) AvailableOptions(ctx context.Context, category string, diameterMm *float64) (*dto.AvailableOptionsResponse, error) {
	return &s.options, nil
}
func (s *fakeProductService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// --- harness ---

type testHarness struct {
	svc        IConversationService
	store      *fakeSessionStore
	uow        *fakeUnitOfWork
	structured *fakeStructuredBackend
	semantic   *fakeSemanticBackend
}

func newTestHarness() *testHarness {
	logger := log.New(io.Discard, "", 0)
	policy := inquiry.NewPolicy(2, logger)
	machine := dialog.NewMachine(policy, logger)
	extractor := slots.NewExtractor()
	workflow := orders.NewWorkflow(logger)
	responder := response.NewGenerator(nil, logger)

	structured := &fakeStructuredBackend{}
	semantic := &fakeSemanticBackend{}
	orchestrator := retrieval.NewOrchestrator(structured, semantic, logger, retrieval.DefaultConfig())

	sessionStore := newFakeSessionStore()
	uow := newFakeUoW()

	svc := NewConversationService(
		&fakeRepoFactory{uow: uow},
		sessionStore,
		extractor,
		machine,
		orchestrator,
		workflow,
		responder,
		&fakeProductService{},
		nil,
		logger,
	)

	return &testHarness{
		svc:        svc,
		store:      sessionStore,
		uow:        uow,
		structured: structured,
		semantic:   semantic,
	}
}

func (h *testHarness) turn(t *testing.T, sessionId, utterance string) *dto.ConversationTurnResponse {
	t.Helper()
	resp, err := h.svc.HandleTurn(context.Background(), &dto.ConversationTurnRequest{
		SessionId:  sessionId,
		CustomerId: "cust-1",
		Utterance:  utterance,
	})
	require.NoError(t, err)
	return resp
}

func cylinderProduct(id uuid.UUID) store.Product {
	return store.Product{
		ID:        id.String(),
		Code:      "MAG-100-200-M",
		Name:      "Profil Silindir MAG 100x200",
		Brand:     "MAG",
		Category:  "cylinder",
		Diameter:  100,
		Stroke:    200,
		Features:  []string{slots.FeatureMagnetic},
		Stock:     25,
		UnitPrice: 140,
	}
}

// --- tests ---

func TestHandleTurnGreeting(t *testing.T) {
	h := newTestHarness()

	resp := h.turn(t, "s1", "merhaba")

	assert.Equal(t, store.StateGreeting, resp.State)
	assert.Contains(t, resp.Reply, "Merhaba")
}

func TestHandleTurnSingleDimensionSearchesImmediately(t *testing.T) {
	h := newTestHarness()
	id := uuid.New()
	h.structured.products = []store.Product{cylinderProduct(id)}

	// One strong signal is enough; no stroke interrogation first.
	resp := h.turn(t, "s1", "100mm çap")

	assert.Equal(t, store.StatePresenting, resp.State)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "MAG-100-200-M", resp.Candidates[0].Code)
}

func TestHandleTurnSearchPresentsCandidates(t *testing.T) {
	h := newTestHarness()
	id1, id2 := uuid.New(), uuid.New()
	p1, p2 := cylinderProduct(id1), cylinderProduct(id2)
	p2.Code = "MAG-100-300-M"
	h.structured.products = []store.Product{p1, p2}

	resp := h.turn(t, "s1", "100 çap 200 strok silindir")

	assert.Equal(t, store.StatePresenting, resp.State)
	assert.Len(t, resp.Candidates, 2)
	assert.Contains(t, resp.Reply, "Şu ürünleri buldum")
	require.NotNil(t, resp.Slots.DiameterMm)
	assert.Equal(t, 100.0, *resp.Slots.DiameterMm)
}

func TestHandleTurnFullPurchaseFlow(t *testing.T) {
	h := newTestHarness()
	productId := uuid.New()
	h.structured.products = []store.Product{cylinderProduct(productId)}
	h.uow.products.stock[productId] = 25

	// 1. Constraints land, the single hit is auto-focused.
	resp := h.turn(t, "s1", "100 çaplı 200 stroklu manyetik silindir")
	assert.Equal(t, store.StatePresenting, resp.State)
	assert.Contains(t, resp.Reply, "devam edelim mi")

	// 2. Quantity arrives, the draft is built and confirmation asked.
	resp = h.turn(t, "s1", "4 tane istiyorum")
	assert.Equal(t, store.StateConfirmingOrder, resp.State)
	require.NotNil(t, resp.Draft)
	assert.Equal(t, 4, resp.Draft.Quantity)
	assert.Equal(t, 560.0, resp.Draft.TotalPrice)
	assert.Contains(t, resp.Reply, "560.00 TL")
	assert.Contains(t, resp.Reply, "(evet/hayır)")

	// 3. Yes places the order atomically.
	resp = h.turn(t, "s1", "evet")
	assert.Regexp(t, regexp.MustCompile(`^AI-\d{8}-[0-9A-F]{6}$`), resp.OrderNumber)
	assert.Contains(t, resp.Reply, resp.OrderNumber)

	require.Len(t, h.uow.orderRepo.created, 1)
	order := h.uow.orderRepo.created[0]
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)
	assert.Equal(t, 560.0, order.TotalAmount)
	assert.Equal(t, 21.0, h.uow.products.stock[productId])
	assert.True(t, h.uow.committed)

	require.Len(t, h.uow.orderRepo.links, 1)
	assert.Equal(t, "s1", h.uow.orderRepo.links[0].SessionId)

	// The session resets for a follow-up purchase.
	assert.Equal(t, store.StateGreeting, resp.State)
	assert.Nil(t, resp.Draft)
	assert.Nil(t, resp.Slots.DiameterMm)
}

func TestHandleTurnConfirmationDeclined(t *testing.T) {
	h := newTestHarness()
	productId := uuid.New()
	h.structured.products = []store.Product{cylinderProduct(productId)}

	h.turn(t, "s1", "100 çap 200 strok silindir")
	resp := h.turn(t, "s1", "4 adet")
	require.Equal(t, store.StateConfirmingOrder, resp.State)

	resp = h.turn(t, "s1", "hayır")

	assert.Equal(t, store.StatePresenting, resp.State)
	assert.Nil(t, resp.Draft)
	assert.Contains(t, resp.Reply, "iptal edildi")
	assert.Empty(t, h.uow.orderRepo.created)

	// Constraints survive the declined order.
	require.NotNil(t, resp.Slots.DiameterMm)
	assert.Equal(t, 100.0, *resp.Slots.DiameterMm)
	assert.Zero(t, resp.Slots.Quantity)
}

func TestHandleTurnAllBackendsFailRetainsState(t *testing.T) {
	h := newTestHarness()
	h.structured.err = errors.New("db down")
	h.semantic.err = errors.New("embedder down")

	resp := h.turn(t, "s1", "100 çap 200 strok silindir")

	assert.Contains(t, resp.Reply, "teknik bir sorun")
	assert.Equal(t, store.StateGreeting, resp.State)
	assert.Empty(t, resp.Candidates)

	// The extracted slots are kept so the customer only has to repeat the
	// request, not the whole specification.
	sess, ok := h.store.Get("s1")
	require.True(t, ok)
	require.NotNil(t, sess.Slots.DiameterMm)
	assert.Equal(t, 100.0, *sess.Slots.DiameterMm)
}

func TestHandleTurnNoResultsOffersOptions(t *testing.T) {
	h := newTestHarness()

	resp := h.turn(t, "s1", "100 çap 999 strok silindir")

	assert.Equal(t, store.StateEliciting, resp.State)
	assert.Contains(t, resp.Reply, "ürün bulamadım")
}

func TestHandleTurnFarewellClosesSession(t *testing.T) {
	h := newTestHarness()

	h.turn(t, "s1", "merhaba")
	resp := h.turn(t, "s1", "görüşürüz")

	assert.Equal(t, store.StateClosed, resp.State)
	assert.Contains(t, resp.Reply, "iyi günler")

	// The next turn reopens a fresh conversation under the same id.
	resp = h.turn(t, "s1", "merhaba")
	assert.Equal(t, store.StateGreeting, resp.State)
}

func TestShowSession(t *testing.T) {
	h := newTestHarness()

	h.turn(t, "s1", "merhaba")
	h.turn(t, "s1", "100 çap")

	res, err := h.svc.ShowSession(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "s1", res.SessionId)
	assert.Len(t, res.Turns, 2)

	missing, err := h.svc.ShowSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEndSession(t *testing.T) {
	h := newTestHarness()

	h.turn(t, "s1", "merhaba")
	require.NoError(t, h.svc.EndSession(context.Background(), "s1"))

	_, ok := h.store.Get("s1")
	assert.False(t, ok)

	assert.Error(t, h.svc.EndSession(context.Background(), "s1"))
}
