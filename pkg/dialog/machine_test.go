package dialog

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"b2b-catalog-be/pkg/inquiry"
	"b2b-catalog-be/pkg/slots"
	"b2b-catalog-be/pkg/store"
)

func testMachine() *Machine {
	l := log.New(io.Discard, "", 0)
	return NewMachine(inquiry.NewPolicy(2, l), l)
}

func fptr(v float64) *float64 { return &v }

func sampleProduct(code string) store.Product {
	return store.Product{Code: code, Name: "Test " + code, Stock: 10, UnitPrice: 100}
}

func TestDecideGreeting(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")

	a := m.Decide(s, slots.Delta{Greeting: true}, false)
	assert.Equal(t, ActionGreet, a.Kind)
}

func TestDecideAskThenSearch(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")

	// Nothing usable yet: ask for any spec.
	a := m.Decide(s, slots.Delta{}, false)
	assert.Equal(t, ActionAsk, a.Kind)
	assert.Equal(t, inquiry.QuestionSpecs, a.Question)

	// A lone diameter is already a strong enough signal to search.
	s.Slots.DiameterMm = fptr(100)
	a = m.Decide(s, slots.Delta{DiameterMm: fptr(100)}, true)
	assert.Equal(t, ActionSearch, a.Kind)
}

func TestDecideSingleSignalSearches(t *testing.T) {
	m := testMachine()

	for name, slotSet := range map[string]store.SlotSet{
		"diameter": {DiameterMm: fptr(100)},
		"stroke":   {StrokeMm: fptr(200)},
		"feature":  {FeatureTags: []string{"magnetic-sensor"}},
		"brand":    {Brand: "FESTO"},
	} {
		t.Run(name, func(t *testing.T) {
			s := store.NewConversationSession("s1", "c1")
			s.Slots = slotSet
			a := m.Decide(s, slots.Delta{}, true)
			assert.Equal(t, ActionSearch, a.Kind)
		})
	}
}

func TestDecideDegradation(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	s.Slots.Category = "silindir"
	m.TransitionToEliciting(s, inquiry.QuestionSpecs)

	// The inquiry budget only runs out once the unanswered count exceeds
	// the threshold, so with threshold 2 the forced broad search is the
	// third no-progress turn.
	a := m.Decide(s, slots.Delta{}, false)
	assert.Equal(t, ActionAsk, a.Kind)
	assert.Equal(t, 1, s.UnansweredInquiryCount)

	a = m.Decide(s, slots.Delta{}, false)
	assert.Equal(t, ActionAsk, a.Kind)
	assert.Equal(t, 2, s.UnansweredInquiryCount)

	a = m.Decide(s, slots.Delta{}, false)
	assert.Equal(t, ActionSearch, a.Kind)
	assert.Equal(t, 3, s.UnansweredInquiryCount)
}

func TestProgressResetsUnansweredCount(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	s.UnansweredInquiryCount = 1
	s.Slots.DiameterMm = fptr(100)
	s.Slots.StrokeMm = fptr(200)

	a := m.Decide(s, slots.Delta{StrokeMm: fptr(200)}, true)
	assert.Equal(t, ActionSearch, a.Kind)
	assert.Equal(t, 0, s.UnansweredInquiryCount)
}

func TestDecideClarifyNumber(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")

	a := m.Decide(s, slots.Delta{PendingNumber: fptr(5)}, false)
	assert.Equal(t, ActionClarifyNumber, a.Kind)
}

func TestConfirmationFlow(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	p := sampleProduct("MAG-100-200")
	m.TransitionToFocused(s, p)
	m.TransitionToConfirming(s, &store.OrderDraft{
		ProductCode: p.Code, ProductName: p.Name, Quantity: 4, UnitPrice: 140, TotalPrice: 560,
	})

	t.Run("yes places the order", func(t *testing.T) {
		a := m.Decide(s, slots.Delta{Affirmative: true}, false)
		assert.Equal(t, ActionPlaceOrder, a.Kind)
	})

	t.Run("no discards the draft", func(t *testing.T) {
		a := m.Decide(s, slots.Delta{Negative: true}, false)
		assert.Equal(t, ActionDiscardDraft, a.Kind)
	})

	t.Run("new constraints reopen the search", func(t *testing.T) {
		a := m.Decide(s, slots.Delta{DiameterMm: fptr(63)}, true)
		assert.Equal(t, ActionSearch, a.Kind)
		assert.Nil(t, s.Draft)
		assert.Nil(t, s.FocusProduct)
	})
}

func TestConfirmationWithoutDraftNeverPlacesOrder(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	s.Slots.DiameterMm = fptr(100)
	// A failed re-search can leave the state behind after the draft was
	// already discarded; a stray "evet" must not place anything.
	s.State = store.StateConfirmingOrder

	a := m.Decide(s, slots.Delta{Affirmative: true}, false)
	assert.Equal(t, ActionSearch, a.Kind)
}

func TestSingleCandidateAffirmativeFocuses(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	m.TransitionToPresenting(s, []store.Product{sampleProduct("SMC-63-125")})

	// Auto-focus already happened on presentation.
	assert.NotNil(t, s.FocusProduct)

	a := m.Decide(s, slots.Delta{Affirmative: true}, false)
	assert.Equal(t, ActionAskQuantity, a.Kind)
}

func TestFocusedWithQuantityConfirms(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	m.TransitionToFocused(s, sampleProduct("SMC-63-125"))
	s.Slots.Quantity = 3

	a := m.Decide(s, slots.Delta{Quantity: 3}, true)
	assert.Equal(t, ActionConfirmOrder, a.Kind)
}

func TestResetAfterOrder(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	m.TransitionToPresenting(s, []store.Product{sampleProduct("A1"), sampleProduct("A2")})
	s.Slots.DiameterMm = fptr(100)
	s.Slots.Quantity = 5

	m.ResetAfterOrder(s)

	assert.Equal(t, store.StateGreeting, s.State)
	assert.Nil(t, s.FocusProduct)
	assert.Nil(t, s.Candidates)
	assert.Equal(t, store.SlotSet{}, s.Slots)
}

func TestDiscardDraftKeepsSlots(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")
	s.Slots.DiameterMm = fptr(100)
	s.Slots.Quantity = 5
	m.TransitionToConfirming(s, &store.OrderDraft{ProductCode: "A1", Quantity: 5})

	m.DiscardDraft(s)

	assert.Nil(t, s.Draft)
	assert.Equal(t, 0, s.Slots.Quantity)
	assert.Equal(t, fptr(100), s.Slots.DiameterMm)
	assert.Equal(t, store.StatePresenting, s.State)
}

func TestFarewellCloses(t *testing.T) {
	m := testMachine()
	s := store.NewConversationSession("s1", "c1")

	a := m.Decide(s, slots.Delta{Farewell: true}, false)
	assert.Equal(t, ActionClose, a.Kind)
}
