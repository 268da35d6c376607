package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/pkg/dialog"
	"b2b-catalog-be/pkg/events"
	"b2b-catalog-be/pkg/inquiry"
	pkgNats "b2b-catalog-be/pkg/nats"
	"b2b-catalog-be/pkg/orders"
	"b2b-catalog-be/pkg/response"
	"b2b-catalog-be/pkg/retrieval"
	"b2b-catalog-be/pkg/slots"
	"b2b-catalog-be/pkg/store"
)

type IConversationService interface {
	HandleTurn(ctx context.Context, req *dto.ConversationTurnRequest) (*dto.ConversationTurnResponse, error)
	ShowSession(ctx context.Context, sessionId string) (*dto.ShowSessionResponse, error)
	EndSession(ctx context.Context, sessionId string) error
}

type conversationService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionStore   store.SessionStore
	extractor      *slots.Extractor
	machine        *dialog.Machine
	orchestrator   *retrieval.Orchestrator
	workflow       *orders.Workflow
	responder      *response.Generator
	productService IProductService
	eventPublisher *pkgNats.Publisher
	logger         *log.Logger

	// Per-session locks serialize concurrent turns on the same session;
	// different sessions proceed in parallel.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	sessionStore store.SessionStore,
	extractor *slots.Extractor,
	machine *dialog.Machine,
	orchestrator *retrieval.Orchestrator,
	workflow *orders.Workflow,
	responder *response.Generator,
	productService IProductService,
	eventPublisher *pkgNats.Publisher,
	logger *log.Logger,
) IConversationService {
	return &conversationService{
		uowFactory:     uowFactory,
		sessionStore:   sessionStore,
		extractor:      extractor,
		machine:        machine,
		orchestrator:   orchestrator,
		workflow:       workflow,
		responder:      responder,
		productService: productService,
		eventPublisher: eventPublisher,
		logger:         logger,
		locks:          make(map[string]*sync.Mutex),
	}
}

func (s *conversationService) sessionLock(sessionId string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionId]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionId] = l
	}
	return l
}

func (s *conversationService) HandleTurn(ctx context.Context, req *dto.ConversationTurnRequest) (*dto.ConversationTurnResponse, error) {
	lock := s.sessionLock(req.SessionId)
	lock.Lock()
	defer lock.Unlock()

	session, ok := s.sessionStore.Get(req.SessionId)
	if !ok {
		session = store.NewConversationSession(req.SessionId, req.CustomerId)
		s.logger.Printf("[SESSION] Created session %s", req.SessionId)
	}
	if session.State == store.StateClosed {
		// A turn on a closed session starts a fresh conversation under the
		// same id.
		session = store.NewConversationSession(req.SessionId, session.CustomerID)
		s.logger.Printf("[SESSION] Reopened closed session %s", req.SessionId)
	}

	delta := s.extractor.Extract(req.Utterance, session.Slots, session.FocusProduct != nil)
	progressed := slots.Merge(&session.Slots, delta)

	action := s.machine.Decide(session, delta, progressed)
	s.logger.Printf("[DIALOG] Session %s: action %s in state %s", session.ID, action.Kind, session.State)

	reply, orderNumber, err := s.act(ctx, session, action, delta)
	if err != nil {
		return nil, err
	}

	reply = s.responder.Polish(ctx, reply)
	session.AppendTurn(req.Utterance, reply)

	if err := s.sessionStore.Save(session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", session.ID, err)
	}

	resp := &dto.ConversationTurnResponse{
		SessionId:   session.ID,
		Reply:       reply,
		State:       session.State,
		Slots:       toSlotsResponse(session.Slots),
		Candidates:  toCandidateResponses(session.Candidates),
		OrderNumber: orderNumber,
	}
	if session.Draft != nil {
		resp.Draft = &dto.OrderDraftResponse{
			ProductCode: session.Draft.ProductCode,
			ProductName: session.Draft.ProductName,
			Quantity:    session.Draft.Quantity,
			UnitPrice:   session.Draft.UnitPrice,
			TotalPrice:  session.Draft.TotalPrice,
		}
	}
	return resp, nil
}

// act executes the decided action and returns the raw reply text plus the
// order number when one was placed.
func (s *conversationService) act(ctx context.Context, session *store.ConversationSession, action dialog.Action, delta slots.Delta) (string, string, error) {
	switch action.Kind {
	case dialog.ActionGreet:
		return s.responder.Greeting(), "", nil

	case dialog.ActionAsk:
		s.machine.TransitionToEliciting(session, action.Question)
		var opts response.AvailableOptions
		if action.Question == inquiry.QuestionDiameter || action.Question == inquiry.QuestionStroke {
			opts = s.availableOptions(ctx, session)
		}
		return s.responder.AskQuestion(action.Question, session.Slots, opts), "", nil

	case dialog.ActionClarifyNumber:
		return s.responder.ClarifyNumber(*delta.PendingNumber), "", nil

	case dialog.ActionAskQuantity:
		return s.responder.QuantityPrompt(*session.FocusProduct), "", nil

	case dialog.ActionSearch:
		return s.search(ctx, session), "", nil

	case dialog.ActionConfirmOrder:
		return s.confirmPrompt(session), "", nil

	case dialog.ActionPlaceOrder:
		return s.placeOrder(ctx, session)

	case dialog.ActionDiscardDraft:
		s.machine.DiscardDraft(session)
		return s.responder.OrderDiscarded(), "", nil

	case dialog.ActionClose:
		s.machine.TransitionToClosed(session)
		s.publishEvent(ctx, events.BaseEvent{
			Type: events.TypeSessionClosed,
			Data: map[string]interface{}{
				"session_id": session.ID,
				"turn_count": len(session.Turns),
			},
			OccurredAt: time.Now(),
		})
		return s.responder.Goodbye(), "", nil

	default:
		return "", "", fmt.Errorf("unhandled dialog action %q", action.Kind)
	}
}

// search runs hybrid retrieval. Both branches failing keeps the dialog
// state untouched so the customer can simply repeat the request.
func (s *conversationService) search(ctx context.Context, session *store.ConversationSession) string {
	q := retrieval.BuildQuery(session.Slots)
	result, err := s.orchestrator.Execute(ctx, q)
	if err != nil {
		if errors.Is(err, retrieval.ErrAllBackendsFailed) {
			s.logger.Printf("[RETRIEVAL] Session %s: all backends failed, state retained", session.ID)
			return s.responder.TechnicalIssue()
		}
		s.logger.Printf("[RETRIEVAL] Session %s: %v", session.ID, err)
		return s.responder.TechnicalIssue()
	}

	if len(result.Products) == 0 {
		// A miss with a half-specified dimension pair elicits the other
		// half; anything else reopens the generic spec question.
		q := inquiry.QuestionSpecs
		switch {
		case session.Slots.DiameterMm != nil && session.Slots.StrokeMm == nil:
			q = inquiry.QuestionStroke
		case session.Slots.StrokeMm != nil && session.Slots.DiameterMm == nil:
			q = inquiry.QuestionDiameter
		}
		s.machine.TransitionToEliciting(session, q)
		return s.responder.NoResults(session.Slots, s.availableOptions(ctx, session))
	}

	s.machine.TransitionToPresenting(session, result.Products)
	degraded := result.StructuredDegraded || result.SemanticDegraded
	return s.responder.Candidates(result.Products, degraded, result.Relaxed)
}

// confirmPrompt builds the draft on first entry and re-asks on later
// turns until the customer answers yes or no.
func (s *conversationService) confirmPrompt(session *store.ConversationSession) string {
	if session.Draft != nil {
		return s.responder.ConfirmPrompt(session.Draft)
	}

	product := *session.FocusProduct
	draft, err := s.workflow.BuildDraft(product, session.Slots.Quantity)
	if err != nil {
		var stockErr orders.ErrInsufficientStock
		if errors.As(err, &stockErr) {
			// The requested amount cannot be served; drop it and let the
			// customer pick a feasible one.
			session.Slots.Quantity = 0
			return s.responder.InsufficientStock(stockErr.Requested, stockErr.Available, product)
		}
		s.logger.Printf("[ORDER] Session %s: draft failed: %v", session.ID, err)
		session.Slots.Quantity = 0
		return s.responder.TechnicalIssue()
	}

	s.machine.TransitionToConfirming(session, draft)
	return s.responder.ConfirmPrompt(draft)
}

func (s *conversationService) placeOrder(ctx context.Context, session *store.ConversationSession) (string, string, error) {
	draft := session.Draft

	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := s.workflow.Confirm(ctx, uow, session)
	if err != nil {
		// Draft stays on the session; the customer can confirm again.
		s.logger.Printf("[ORDER] Session %s: confirm failed: %v", session.ID, err)
		return s.responder.TechnicalIssue(), "", nil
	}

	s.publishEvent(ctx, events.NewOrderConfirmed(order.OrderNumber, session.ID, draft.TotalPrice))

	reply := s.responder.OrderPlaced(order.OrderNumber, draft)
	s.machine.ResetAfterOrder(session)
	return reply, order.OrderNumber, nil
}

func (s *conversationService) availableOptions(ctx context.Context, session *store.ConversationSession) response.AvailableOptions {
	opts, err := s.productService.AvailableOptions(ctx, session.Slots.Category, session.Slots.DiameterMm)
	if err != nil {
		s.logger.Printf("[RETRIEVAL] Session %s: options lookup failed: %v", session.ID, err)
		return response.AvailableOptions{}
	}
	return response.AvailableOptions{
		Diameters: opts.Diameters,
		Strokes:   opts.Strokes,
		Brands:    opts.Brands,
	}
}

func (s *conversationService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Printf("[EVENTS] Failed to publish %s: %v", evt.EventType(), err)
	}
}

func (s *conversationService) ShowSession(ctx context.Context, sessionId string) (*dto.ShowSessionResponse, error) {
	session, ok := s.sessionStore.Get(sessionId)
	if !ok {
		return nil, nil
	}

	turns := make([]dto.TurnHistoryItem, 0, len(session.Turns))
	for _, t := range session.Turns {
		turns = append(turns, dto.TurnHistoryItem{
			Utterance: t.Utterance,
			Reply:     t.Reply,
			State:     t.State,
			At:        t.At,
		})
	}

	return &dto.ShowSessionResponse{
		SessionId:  session.ID,
		CustomerId: session.CustomerID,
		State:      session.State,
		Slots:      toSlotsResponse(session.Slots),
		Turns:      turns,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}, nil
}

func (s *conversationService) EndSession(ctx context.Context, sessionId string) error {
	lock := s.sessionLock(sessionId)
	lock.Lock()
	defer lock.Unlock()

	if _, ok := s.sessionStore.Get(sessionId); !ok {
		return fmt.Errorf("session %s not found", sessionId)
	}
	s.sessionStore.Delete(sessionId)

	s.mu.Lock()
	delete(s.locks, sessionId)
	s.mu.Unlock()

	return nil
}

func toSlotsResponse(s store.SlotSet) dto.SlotsResponse {
	return dto.SlotsResponse{
		DiameterMm:  s.DiameterMm,
		StrokeMm:    s.StrokeMm,
		FeatureTags: s.FeatureTags,
		Brand:       s.Brand,
		Category:    s.Category,
		Quantity:    s.Quantity,
		ProductCode: s.ProductCode,
	}
}

func toCandidateResponses(products []store.Product) []dto.CandidateResponse {
	if len(products) == 0 {
		return nil
	}
	out := make([]dto.CandidateResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.CandidateResponse{
			Id:        p.ID,
			Code:      p.Code,
			Name:      p.Name,
			Brand:     p.Brand,
			Category:  p.Category,
			Diameter:  p.Diameter,
			Stroke:    p.Stroke,
			Features:  p.Features,
			Stock:     p.Stock,
			UnitPrice: p.UnitPrice,
			Score:     p.Score,
			MatchKind: p.MatchKind,
		})
	}
	return out
}
