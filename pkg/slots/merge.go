package slots

import "b2b-catalog-be/pkg/store"

// Merge folds a turn delta into the session's accumulated slots. Later
// mentions overwrite earlier ones; retractions remove tags added on any
// prior turn. Returns true when the slot set actually changed, which is
// what resets the unanswered-inquiry counter.
func Merge(s *store.SlotSet, d Delta) bool {
	changed := false
	if d.DiameterMm != nil && (s.DiameterMm == nil || *s.DiameterMm != *d.DiameterMm) {
		s.DiameterMm = d.DiameterMm
		changed = true
	}
	if d.StrokeMm != nil && (s.StrokeMm == nil || *s.StrokeMm != *d.StrokeMm) {
		s.StrokeMm = d.StrokeMm
		changed = true
	}
	for _, f := range d.Features {
		if !s.HasFeature(f) {
			s.AddFeature(f)
			changed = true
		}
	}
	for _, f := range d.RetractedFeatures {
		if s.HasFeature(f) {
			s.RemoveFeature(f)
			changed = true
		}
	}
	if d.Brand != "" && s.Brand != d.Brand {
		s.Brand = d.Brand
		changed = true
	}
	if d.Category != "" && s.Category != d.Category {
		s.Category = d.Category
		changed = true
	}
	if d.Quantity > 0 && s.Quantity != d.Quantity {
		s.Quantity = d.Quantity
		changed = true
	}
	if d.ProductCode != "" && s.ProductCode != d.ProductCode {
		s.ProductCode = d.ProductCode
		changed = true
	}
	// The residual always reflects the latest turn; a stale one would keep
	// feeding old terms into the semantic branch. Clearing it is not
	// progress, only a new phrase is.
	if d.Residual != s.FreeTextResidual {
		s.FreeTextResidual = d.Residual
		if d.Residual != "" {
			changed = true
		}
	}
	return changed
}
