package dialog

import (
	"log"

	"b2b-catalog-be/pkg/inquiry"
	"b2b-catalog-be/pkg/slots"
	"b2b-catalog-be/pkg/store"
)

// ActionKind is what the conversation service must do for this turn.
type ActionKind string

const (
	ActionGreet         ActionKind = "GREET"
	ActionAsk           ActionKind = "ASK"            // pose the inquiry question
	ActionSearch        ActionKind = "SEARCH"         // run hybrid retrieval
	ActionClarifyNumber ActionKind = "CLARIFY_NUMBER" // bare number could not be bound
	ActionAskQuantity   ActionKind = "ASK_QUANTITY"   // product focused, amount missing
	ActionConfirmOrder  ActionKind = "CONFIRM_ORDER"  // draft built, awaiting yes/no
	ActionPlaceOrder    ActionKind = "PLACE_ORDER"    // customer said yes
	ActionDiscardDraft  ActionKind = "DISCARD_DRAFT"  // customer said no
	ActionClose         ActionKind = "CLOSE"
)

type Action struct {
	Kind     ActionKind
	Question inquiry.Question
}

// Machine owns state transitions and per-turn action selection. It mutates
// only the session's state fields; retrieval and persistence stay with the
// service layer.
type Machine struct {
	policy *inquiry.Policy
	logger *log.Logger
}

func NewMachine(policy *inquiry.Policy, logger *log.Logger) *Machine {
	return &Machine{
		policy: policy,
		logger: logger,
	}
}

// Decide maps (state, delta) to the action for this turn. progressed is
// whether the delta moved the slot set forward; the unanswered-inquiry
// counter is maintained here because degradation is a dialog concern.
func (m *Machine) Decide(session *store.ConversationSession, delta slots.Delta, progressed bool) Action {
	if delta.Farewell && !delta.HasSlotInfo() {
		return Action{Kind: ActionClose}
	}

	// Confirmation is a closed question: yes places the order, no discards,
	// and fresh constraints reopen the search with the draft thrown away.
	// Without a draft (a failed re-search can leave the state behind) a
	// yes/no is stray chatter and falls through to the normal flow.
	if session.State == store.StateConfirmingOrder && session.Draft != nil {
		switch {
		case delta.HasSlotInfo():
			m.logger.Printf("[DIALOG] New constraints during confirmation, discarding draft")
			session.Draft = nil
			session.FocusProduct = nil
			return Action{Kind: ActionSearch}
		case delta.Affirmative:
			return Action{Kind: ActionPlaceOrder}
		case delta.Negative:
			return Action{Kind: ActionDiscardDraft}
		default:
			return Action{Kind: ActionConfirmOrder}
		}
	}

	if delta.PendingNumber != nil && !progressed {
		return Action{Kind: ActionClarifyNumber}
	}

	if delta.Greeting && !delta.HasSlotInfo() && session.State == store.StateGreeting {
		return Action{Kind: ActionGreet}
	}

	// A focused product plus a quantity means the draft can be built.
	if session.FocusProduct != nil && session.Slots.Quantity > 0 {
		return Action{Kind: ActionConfirmOrder}
	}

	// An affirmative on a single presented candidate focuses it.
	if session.State == store.StatePresenting && delta.Affirmative && len(session.Candidates) == 1 {
		m.TransitionToFocused(session, session.Candidates[0])
		if m.policy.ShouldOfferQuantity(session.Slots, true) {
			return Action{Kind: ActionAskQuantity}
		}
		return Action{Kind: ActionConfirmOrder}
	}

	if session.FocusProduct != nil && m.policy.ShouldOfferQuantity(session.Slots, true) {
		if progressed {
			// New constraints while focused reopen the search.
			session.FocusProduct = nil
			return Action{Kind: ActionSearch}
		}
		return Action{Kind: ActionAskQuantity}
	}

	if !progressed && session.State == store.StateEliciting {
		session.UnansweredInquiryCount++
		m.logger.Printf("[DIALOG] No progress, unanswered inquiries now %d", session.UnansweredInquiryCount)
	}
	if progressed {
		session.UnansweredInquiryCount = 0
	}

	if q := m.policy.Next(session.Slots, session.UnansweredInquiryCount); q != inquiry.QuestionNone {
		return Action{Kind: ActionAsk, Question: q}
	}
	return Action{Kind: ActionSearch}
}

// TransitionToEliciting records that a question is now pending.
func (m *Machine) TransitionToEliciting(session *store.ConversationSession, question inquiry.Question) {
	session.State = store.StateEliciting
	m.logger.Printf("[STATE] Transitioned to ELICITING: asking %s", question)
}

// TransitionToPresenting stores the fused candidates; a single hit is
// auto-focused.
func (m *Machine) TransitionToPresenting(session *store.ConversationSession, candidates []store.Product) {
	session.Candidates = candidates
	session.State = store.StatePresenting
	if len(candidates) == 1 {
		p := candidates[0]
		session.FocusProduct = &p
		m.logger.Printf("[STATE] Transitioned to PRESENTING with auto-focus: %s", p.Code)
		return
	}
	session.FocusProduct = nil
	m.logger.Printf("[STATE] Transitioned to PRESENTING: %d candidates", len(candidates))
}

// TransitionToFocused narrows the conversation to one product.
func (m *Machine) TransitionToFocused(session *store.ConversationSession, product store.Product) {
	p := product
	session.FocusProduct = &p
	m.logger.Printf("[STATE] Focused product %s", p.Code)
}

// TransitionToConfirming parks the draft and waits for yes/no.
func (m *Machine) TransitionToConfirming(session *store.ConversationSession, draft *store.OrderDraft) {
	session.Draft = draft
	session.State = store.StateConfirmingOrder
	m.logger.Printf("[STATE] Transitioned to CONFIRMING_ORDER: %s x%d", draft.ProductCode, draft.Quantity)
}

// ResetAfterOrder clears everything order-related but keeps the session
// alive for a follow-up purchase.
func (m *Machine) ResetAfterOrder(session *store.ConversationSession) {
	session.Draft = nil
	session.FocusProduct = nil
	session.Candidates = nil
	session.Slots = store.SlotSet{}
	session.UnansweredInquiryCount = 0
	session.State = store.StateGreeting
	m.logger.Printf("[STATE] Session reset after order")
}

// DiscardDraft abandons the pending order but keeps slots so the customer
// can refine instead of restarting.
func (m *Machine) DiscardDraft(session *store.ConversationSession) {
	session.Draft = nil
	session.Slots.Quantity = 0
	session.State = store.StatePresenting
	m.logger.Printf("[STATE] Draft discarded, back to PRESENTING")
}

// TransitionToClosed ends the conversation.
func (m *Machine) TransitionToClosed(session *store.ConversationSession) {
	session.State = store.StateClosed
	m.logger.Printf("[STATE] Transitioned to CLOSED")
}
