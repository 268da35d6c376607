package retrieval

import (
	"fmt"
	"strings"

	"b2b-catalog-be/pkg/slots"
	"b2b-catalog-be/pkg/store"
)

// Query is the retrieval view of the accumulated slots: hard filters for
// the structured branch and a rendered phrase for the semantic branch.
type Query struct {
	DiameterMm  *float64
	StrokeMm    *float64
	Brand       string
	Category    string
	Features    []string
	ProductCode string
	Semantic    string
}

// BuildQuery projects the slot set into both branch inputs. The semantic
// phrase is rendered in the catalog's own vocabulary (surface forms of the
// canonical tags) so it embeds close to the product documents.
func BuildQuery(s store.SlotSet) Query {
	q := Query{
		DiameterMm:  s.DiameterMm,
		StrokeMm:    s.StrokeMm,
		Brand:       s.Brand,
		Category:    s.Category,
		Features:    append([]string(nil), s.FeatureTags...),
		ProductCode: s.ProductCode,
	}

	var parts []string
	if s.DiameterMm != nil {
		parts = append(parts, fmt.Sprintf("%s çap", trimFloat(*s.DiameterMm)))
	}
	if s.StrokeMm != nil {
		parts = append(parts, fmt.Sprintf("%s strok", trimFloat(*s.StrokeMm)))
	}
	for _, tag := range s.FeatureTags {
		parts = append(parts, slots.FeatureSurface(tag))
	}
	if s.Brand != "" {
		parts = append(parts, s.Brand)
	}
	if s.Category != "" {
		parts = append(parts, s.Category)
	}
	if s.FreeTextResidual != "" {
		parts = append(parts, s.FreeTextResidual)
	}
	q.Semantic = strings.Join(parts, " ")

	return q
}

// HasStructuredSignal reports whether the structured branch has anything to
// filter on at all.
func (q Query) HasStructuredSignal() bool {
	return q.DiameterMm != nil || q.StrokeMm != nil || q.Brand != "" ||
		q.Category != "" || len(q.Features) > 0 || q.ProductCode != ""
}

// Relax drops the softest remaining constraint and reports whether anything
// was left to drop. Order: brand, features, stroke. Diameter and category
// are never relaxed; they define what the customer is actually buying.
func (q *Query) Relax() bool {
	switch {
	case q.Brand != "":
		q.Brand = ""
	case len(q.Features) > 0:
		q.Features = nil
	case q.StrokeMm != nil:
		q.StrokeMm = nil
	default:
		return false
	}
	return true
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
