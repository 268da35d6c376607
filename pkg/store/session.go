package store

import "time"

// Dialog states for a conversation session.
const (
	StateGreeting        = "GREETING"
	StateEliciting       = "ELICITING"
	StateSearching       = "SEARCHING"
	StatePresenting      = "PRESENTING"
	StateConfirmingOrder = "CONFIRMING_ORDER"
	StateClosed          = "CLOSED"
)

// SlotSet holds the structured search intent accumulated over a session.
// FeatureTags accumulates (set union); every other field holds at most one
// current value and is overwritten by newer information.
type SlotSet struct {
	DiameterMm  *float64 `json:"diameter_mm,omitempty"`
	StrokeMm    *float64 `json:"stroke_mm,omitempty"`
	FeatureTags []string `json:"feature_tags,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Quantity    int      `json:"quantity,omitempty"`
	ProductCode string   `json:"product_code,omitempty"`

	// Residual text feeds the semantic branch only. It is replaced each
	// turn: stale residual terms would pollute later searches.
	FreeTextResidual string `json:"free_text_residual,omitempty"`
}

// HasSignal reports whether the set carries at least one strong search
// signal (a dimension, a feature tag or a brand).
func (s *SlotSet) HasSignal() bool {
	return s.DiameterMm != nil || s.StrokeMm != nil || len(s.FeatureTags) > 0 || s.Brand != ""
}

// HasFeature reports whether tag is already present.
func (s *SlotSet) HasFeature(tag string) bool {
	for _, t := range s.FeatureTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddFeature unions tag into FeatureTags.
func (s *SlotSet) AddFeature(tag string) bool {
	if s.HasFeature(tag) {
		return false
	}
	s.FeatureTags = append(s.FeatureTags, tag)
	return true
}

// RemoveFeature retracts tag from FeatureTags.
func (s *SlotSet) RemoveFeature(tag string) bool {
	for i, t := range s.FeatureTags {
		if t == tag {
			s.FeatureTags = append(s.FeatureTags[:i], s.FeatureTags[i+1:]...)
			return true
		}
	}
	return false
}

// How a candidate earned its place in the result list.
const (
	MatchExact    = "exact"
	MatchSemantic = "semantic"
	MatchBoth     = "both"
)

// Product is the session-local view of a catalog product, hydrated from
// retrieval results and kept as the focus product or a candidate.
type Product struct {
	ID        string   `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand"`
	Category  string   `json:"category"`
	Diameter  float64  `json:"diameter_mm"`
	Stroke    float64  `json:"stroke_mm"`
	Features  []string `json:"features"`
	Stock     float64  `json:"stock"`
	UnitPrice float64  `json:"unit_price"`
	Score     float64  `json:"score"`
	MatchKind string   `json:"match_kind"` // "exact" | "semantic" | "both"
}

// HasFeature reports whether the product carries the given canonical tag.
func (p *Product) HasFeature(tag string) bool {
	for _, f := range p.Features {
		if f == tag {
			return true
		}
	}
	return false
}

// OrderDraft is a pending, unpersisted order awaiting explicit confirmation.
// UnitPrice is captured at draft-creation time so the price is stable across
// the confirmation round-trip.
type OrderDraft struct {
	ProductID           string  `json:"product_id"`
	ProductCode         string  `json:"product_code"`
	ProductName         string  `json:"product_name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	ConfirmationPending bool    `json:"confirmation_pending"`
}

// Turn is one user/assistant exchange, kept append-only for context.
type Turn struct {
	Utterance string    `json:"utterance"`
	Reply     string    `json:"reply"`
	State     string    `json:"state"`
	At        time.Time `json:"at"`
}

// ConversationSession is the per-conversation state mutated on every turn.
type ConversationSession struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	State      string `json:"state"`

	Slots SlotSet `json:"slots"`

	// Candidates are the last presented retrieval results; FocusProduct is
	// the single product currently under discussion.
	Candidates   []Product `json:"candidates"`
	FocusProduct *Product  `json:"focus_product"`

	Draft *OrderDraft `json:"draft"`

	// UnansweredInquiryCount increments on inquiry turns that bring no new
	// slot information and resets on any slot update.
	UnansweredInquiryCount int `json:"unanswered_inquiry_count"`

	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversationSession creates a fresh session in the greeting state.
func NewConversationSession(id, customerID string) *ConversationSession {
	now := time.Now()
	return &ConversationSession{
		ID:         id,
		CustomerID: customerID,
		State:      StateGreeting,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AppendTurn records an exchange on the audit trail.
func (s *ConversationSession) AppendTurn(utterance, reply string) {
	now := time.Now()
	s.Turns = append(s.Turns, Turn{
		Utterance: utterance,
		Reply:     reply,
		State:     s.State,
		At:        now,
	})
	s.UpdatedAt = now
}

// SessionStore abstracts session persistence so the backend (in-memory,
// Redis) is swappable without touching engine logic.
type SessionStore interface {
	Get(sessionID string) (*ConversationSession, bool)
	Save(session *ConversationSession) error
	Delete(sessionID string)
}
