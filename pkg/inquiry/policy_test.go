package inquiry

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"b2b-catalog-be/pkg/store"
)

func testPolicy() *Policy {
	return NewPolicy(2, log.New(io.Discard, "", 0))
}

func fptr(v float64) *float64 { return &v }

func TestPolicyLadder(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name       string
		slots      store.SlotSet
		unanswered int
		want       Question
	}{
		{
			name: "empty slots ask for specs",
			want: QuestionSpecs,
		},
		{
			name:  "diameter alone is enough to search",
			slots: store.SlotSet{DiameterMm: fptr(100)},
			want:  QuestionNone,
		},
		{
			name:  "stroke alone is enough to search",
			slots: store.SlotSet{StrokeMm: fptr(200)},
			want:  QuestionNone,
		},
		{
			name:  "both dimensions proceed",
			slots: store.SlotSet{DiameterMm: fptr(100), StrokeMm: fptr(200)},
			want:  QuestionNone,
		},
		{
			name:  "feature alone is enough to search",
			slots: store.SlotSet{FeatureTags: []string{"magnetic-sensor"}},
			want:  QuestionNone,
		},
		{
			name:  "brand alone is enough to search",
			slots: store.SlotSet{Brand: "FESTO"},
			want:  QuestionNone,
		},
		{
			name:  "product code short-circuits",
			slots: store.SlotSet{ProductCode: "DSNU-25-100"},
			want:  QuestionNone,
		},
		{
			name:  "free text alone proceeds to semantic search",
			slots: store.SlotSet{FreeTextResidual: "yıkamaya dayanıklı"},
			want:  QuestionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Next(tt.slots, tt.unanswered))
		})
	}
}

func TestPolicyDegradation(t *testing.T) {
	p := testPolicy()

	// A category alone is not a strong signal, so the policy keeps asking
	// for specs until the unanswered count exceeds the threshold.
	slots := store.SlotSet{Category: "silindir"}

	assert.Equal(t, QuestionSpecs, p.Next(slots, 1))

	// At exactly the threshold it still asks; the forced broad search
	// happens on the turn after.
	assert.Equal(t, QuestionSpecs, p.Next(slots, 2))
	assert.Equal(t, QuestionNone, p.Next(slots, 3))

	// With nothing at all it keeps asking regardless.
	assert.Equal(t, QuestionSpecs, p.Next(store.SlotSet{}, 5))
}

func TestShouldOfferQuantity(t *testing.T) {
	p := testPolicy()

	assert.True(t, p.ShouldOfferQuantity(store.SlotSet{}, true))
	assert.False(t, p.ShouldOfferQuantity(store.SlotSet{Quantity: 5}, true))
	assert.False(t, p.ShouldOfferQuantity(store.SlotSet{}, false))
}
