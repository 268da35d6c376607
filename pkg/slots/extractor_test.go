package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"b2b-catalog-be/pkg/store"
)

func fptr(v float64) *float64 { return &v }

func TestExtractDimensions(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name      string
		utterance string
		diameter  *float64
		stroke    *float64
	}{
		{"pair with x", "100x200 silindir arıyorum", fptr(100), fptr(200)},
		{"pair with star", "63*125 lazım", fptr(63), fptr(125)},
		{"prefixed", "çap 100 strok 200", fptr(100), fptr(200)},
		{"suffixed with mm", "100 mm çaplı 150 mm stroklu", fptr(100), fptr(150)},
		{"colloquial luk", "50lük silindir", fptr(50), nil},
		{"symbol", "ø32 silindir var mı", fptr(32), nil},
		{"decimal", "12,5 çap", fptr(12.5), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Extract(tt.utterance, store.SlotSet{}, false)
			assert.Equal(t, tt.diameter, d.DiameterMm, "diameter")
			assert.Equal(t, tt.stroke, d.StrokeMm, "stroke")
		})
	}
}

func TestExtractQuantityAndCode(t *testing.T) {
	e := NewExtractor()

	d := e.Extract("DSNU-25-100 koddan 5 adet istiyorum", store.SlotSet{}, false)
	assert.Equal(t, "DSNU-25-100", d.ProductCode)
	assert.Equal(t, 5, d.Quantity)
	assert.Nil(t, d.DiameterMm, "code digits must not leak into dimensions")

	d = e.Extract("3 tane lazım", store.SlotSet{}, false)
	assert.Equal(t, 3, d.Quantity)
}

func TestExtractFeaturesAndBrand(t *testing.T) {
	e := NewExtractor()

	d := e.Extract("manyetik amortisörlü FESTO silindir", store.SlotSet{}, false)
	assert.ElementsMatch(t, []string{FeatureMagnetic, FeatureCushioned}, d.Features)
	assert.Equal(t, "FESTO", d.Brand)
	assert.Equal(t, "cylinder", d.Category)

	d = e.Extract("çift etkili paslanmaz olsun", store.SlotSet{}, false)
	assert.ElementsMatch(t, []string{FeatureDoubleActing, FeatureStainless}, d.Features)
}

func TestExtractFeatureRetraction(t *testing.T) {
	e := NewExtractor()

	d := e.Extract("manyetik olmasın", store.SlotSet{}, false)
	assert.Empty(t, d.Features)
	assert.Equal(t, []string{FeatureMagnetic}, d.RetractedFeatures)

	// The retraction only reaches its own clause.
	d = e.Extract("magnetli olmasın ama amortisörlü olsun", store.SlotSet{}, false)
	assert.Equal(t, []string{FeatureMagnetic}, d.RetractedFeatures)
	assert.Equal(t, []string{FeatureCushioned}, d.Features)

	d = e.Extract("amortisörlü olsun, manyetik istemiyorum", store.SlotSet{}, false)
	assert.Equal(t, []string{FeatureCushioned}, d.Features)
	assert.Equal(t, []string{FeatureMagnetic}, d.RetractedFeatures)
}

func TestLoneNumberBinding(t *testing.T) {
	e := NewExtractor()

	t.Run("quantity when a product is in focus", func(t *testing.T) {
		d := e.Extract("3", store.SlotSet{}, true)
		assert.Equal(t, 3, d.Quantity)
	})

	t.Run("diameter first with category context", func(t *testing.T) {
		cur := store.SlotSet{Category: "cylinder"}
		d := e.Extract("100", cur, false)
		assert.Equal(t, fptr(100), d.DiameterMm)
	})

	t.Run("stroke when diameter already known", func(t *testing.T) {
		cur := store.SlotSet{DiameterMm: fptr(100), Category: "cylinder"}
		d := e.Extract("200", cur, false)
		assert.Nil(t, d.DiameterMm)
		assert.Equal(t, fptr(200), d.StrokeMm)
	})

	t.Run("two bare numbers fill both dimensions in order", func(t *testing.T) {
		cur := store.SlotSet{Category: "cylinder"}
		d := e.Extract("100 200", cur, false)
		assert.Equal(t, fptr(100), d.DiameterMm)
		assert.Equal(t, fptr(200), d.StrokeMm)
	})

	t.Run("no context parks the number for clarification", func(t *testing.T) {
		d := e.Extract("5", store.SlotSet{}, false)
		assert.Equal(t, 0, d.Quantity)
		assert.Nil(t, d.DiameterMm)
		assert.Equal(t, fptr(5), d.PendingNumber)
	})
}

func TestExtractSignals(t *testing.T) {
	e := NewExtractor()

	d := e.Extract("evet", store.SlotSet{}, false)
	assert.True(t, d.Affirmative)
	assert.False(t, d.HasSlotInfo())

	d = e.Extract("merhaba!", store.SlotSet{}, false)
	assert.True(t, d.Greeting)

	d = e.Extract("hayır iptal", store.SlotSet{}, false)
	assert.True(t, d.Negative)
}

func TestResidualKeepsUnknownTerms(t *testing.T) {
	e := NewExtractor()

	d := e.Extract("gıda sektörü için yıkamaya dayanıklı silindir arıyorum", store.SlotSet{}, false)
	assert.Equal(t, "cylinder", d.Category)
	assert.Contains(t, d.Residual, "yıkamaya")
	assert.Contains(t, d.Residual, "dayanıklı")
	assert.NotContains(t, d.Residual, "arıyorum")
}

func TestMerge(t *testing.T) {
	s := store.SlotSet{}

	changed := Merge(&s, Delta{DiameterMm: fptr(100), Features: []string{FeatureMagnetic}})
	assert.True(t, changed)
	assert.Equal(t, fptr(100), s.DiameterMm)
	assert.True(t, s.HasFeature(FeatureMagnetic))

	// Same information again is not progress.
	changed = Merge(&s, Delta{DiameterMm: fptr(100)})
	assert.False(t, changed)

	// Later mention overwrites, retraction removes.
	changed = Merge(&s, Delta{DiameterMm: fptr(125), RetractedFeatures: []string{FeatureMagnetic}})
	assert.True(t, changed)
	assert.Equal(t, fptr(125), s.DiameterMm)
	assert.False(t, s.HasFeature(FeatureMagnetic))
}

func TestMergeResidualReplacedEachTurn(t *testing.T) {
	s := store.SlotSet{FreeTextResidual: "gıda sektörü"}

	// A fully-consumed utterance clears the stale residual so old terms
	// stop feeding later semantic queries; the dimensions are the
	// progress here, not the clearing.
	changed := Merge(&s, Delta{DiameterMm: fptr(100), StrokeMm: fptr(200)})
	assert.True(t, changed)
	assert.Empty(t, s.FreeTextResidual)

	changed = Merge(&s, Delta{})
	assert.False(t, changed)

	changed = Merge(&s, Delta{Residual: "yıkamaya dayanıklı"})
	assert.True(t, changed)
	assert.Equal(t, "yıkamaya dayanıklı", s.FreeTextResidual)
}
