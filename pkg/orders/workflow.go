package orders

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"b2b-catalog-be/internal/entity"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/pkg/store"

	"github.com/google/uuid"
)

// ErrInsufficientStock carries what is actually available so the reply can
// offer it.
type ErrInsufficientStock struct {
	Requested int
	Available float64
}

func (e ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %.0f", e.Requested, e.Available)
}

// Workflow builds order drafts and turns confirmed drafts into persisted
// orders. Prices are captured into the draft so what the customer confirmed
// is what gets invoiced.
type Workflow struct {
	logger *log.Logger
}

func NewWorkflow(logger *log.Logger) *Workflow {
	return &Workflow{logger: logger}
}

// BuildDraft validates quantity against live stock and freezes the price.
func (w *Workflow) BuildDraft(product store.Product, quantity int) (*store.OrderDraft, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if product.Stock < float64(quantity) {
		return nil, ErrInsufficientStock{Requested: quantity, Available: product.Stock}
	}

	return &store.OrderDraft{
		ProductID:           product.ID,
		ProductCode:         product.Code,
		ProductName:         product.Name,
		Quantity:            quantity,
		UnitPrice:           product.UnitPrice,
		TotalPrice:          product.UnitPrice * float64(quantity),
		ConfirmationPending: true,
	}, nil
}

// Confirm persists the draft inside one transaction: order with items,
// stock decrement, and the conversation snapshot. Any failure rolls the
// whole thing back and leaves the draft on the session for a retry.
func (w *Workflow) Confirm(ctx context.Context, uow unitofwork.UnitOfWork, session *store.ConversationSession) (*entity.Order, error) {
	draft := session.Draft
	if draft == nil {
		return nil, fmt.Errorf("no draft to confirm for session %s", session.ID)
	}

	productId, err := uuid.Parse(draft.ProductID)
	if err != nil {
		return nil, fmt.Errorf("draft product id %q: %w", draft.ProductID, err)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	order := &entity.Order{
		OrderNumber: GenerateOrderNumber(),
		SessionId:   session.ID,
		CustomerId:  session.CustomerID,
		Status:      entity.OrderStatusConfirmed,
		TotalAmount: draft.TotalPrice,
		Items: []*entity.OrderItem{
			{
				ProductId:   productId,
				ProductCode: draft.ProductCode,
				ProductName: draft.ProductName,
				Quantity:    draft.Quantity,
				UnitPrice:   draft.UnitPrice,
				TotalPrice:  draft.TotalPrice,
			},
		},
	}

	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := uow.ProductRepository().DecrementStock(ctx, productId, float64(draft.Quantity)); err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	link := &entity.ConversationOrder{
		OrderId:   order.Id,
		SessionId: session.ID,
		Context:   snapshotContext(session),
	}
	if err := uow.OrderRepository().CreateConversationLink(ctx, link); err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("link conversation: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	w.logger.Printf("[ORDER] Placed %s: %s x%d, total %.2f",
		order.OrderNumber, draft.ProductCode, draft.Quantity, draft.TotalPrice)
	return order, nil
}

// snapshotContext captures how the dialog arrived at this order.
func snapshotContext(session *store.ConversationSession) map[string]interface{} {
	candidateCodes := make([]string, 0, len(session.Candidates))
	for _, c := range session.Candidates {
		candidateCodes = append(candidateCodes, c.Code)
	}

	return map[string]interface{}{
		"slots":           session.Slots,
		"candidate_codes": candidateCodes,
		"turn_count":      len(session.Turns),
		"state":           session.State,
	}
}

// GenerateOrderNumber builds AI-YYYYMMDD-XXXXXX, unique via a uuid suffix.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("AI-%s-%s", time.Now().Format("20060102"), suffix)
}
