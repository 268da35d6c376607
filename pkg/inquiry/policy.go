package inquiry

import (
	"log"

	"b2b-catalog-be/pkg/store"
)

// Question identifies what the engine should ask for next.
type Question string

const (
	QuestionNone     Question = ""
	QuestionSpecs    Question = "SPECS"    // nothing usable yet, ask for any spec
	QuestionDiameter Question = "DIAMETER" // a search missed with only the stroke known
	QuestionStroke   Question = "STROKE"   // a search missed with only the diameter known
	QuestionQuantity Question = "QUANTITY" // product focused, amount missing
)

// Policy decides whether to keep asking or to search with what we have.
// After DegradationThreshold turns of asking without progress it stops
// inquiring and searches degraded.
type Policy struct {
	DegradationThreshold int
	logger               *log.Logger
}

func NewPolicy(degradationThreshold int, logger *log.Logger) *Policy {
	if degradationThreshold <= 0 {
		degradationThreshold = 2
	}
	return &Policy{
		DegradationThreshold: degradationThreshold,
		logger:               logger,
	}
}

// Next walks the inquiry ladder: product code short-circuits everything,
// and any single strong signal (a dimension, a feature tag, a brand) or a
// free-text residual is enough to search on. Showing results beats
// interrogating the customer.
func (p *Policy) Next(slots store.SlotSet, unanswered int) Question {
	if slots.ProductCode != "" {
		return QuestionNone
	}

	// Degradation fires only once the unanswered count exceeds the
	// threshold, and only when there is anything at all to search with.
	if unanswered > p.DegradationThreshold {
		if slots.HasSignal() || slots.Category != "" || slots.FreeTextResidual != "" {
			p.logger.Printf("[INQUIRY] Degraded after %d unanswered turns, proceeding with partial slots", unanswered)
			return QuestionNone
		}
	}

	if !slots.HasSignal() && slots.FreeTextResidual == "" {
		return QuestionSpecs
	}

	return QuestionNone
}

// ShouldOfferQuantity reports whether a focused product still needs an
// amount before a draft can be built.
func (p *Policy) ShouldOfferQuantity(slots store.SlotSet, hasFocus bool) bool {
	return hasFocus && slots.Quantity <= 0
}
