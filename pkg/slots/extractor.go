package slots

import (
	"regexp"
	"strings"

	"b2b-catalog-be/pkg/store"
)

// Delta is the structured reading of one customer utterance. Nil pointers
// and empty strings mean "not mentioned this turn"; merging into the
// session's accumulated SlotSet is the dialog layer's job.
type Delta struct {
	DiameterMm        *float64
	StrokeMm          *float64
	Features          []string
	RetractedFeatures []string
	Brand             string
	Category          string
	Quantity          int
	ProductCode       string
	Residual          string

	// PendingNumber carries a bare number that could not be bound to any
	// slot; the dialog layer answers it with a clarification question.
	PendingNumber *float64

	Affirmative bool
	Negative    bool
	Greeting    bool
	Farewell    bool
}

// HasSlotInfo reports whether the delta carries any product-narrowing
// information, as opposed to pure conversational signals.
func (d Delta) HasSlotInfo() bool {
	return d.DiameterMm != nil || d.StrokeMm != nil || len(d.Features) > 0 ||
		len(d.RetractedFeatures) > 0 || d.Brand != "" || d.Category != "" ||
		d.Quantity > 0 || d.ProductCode != ""
}

// Extractor turns free-form Turkish/English utterances into slot deltas.
// It is stateless; the current SlotSet and focus flag are passed per call
// because lone-number binding depends on what the conversation already
// knows.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs the ordered rule set over the utterance. Matched spans are
// blanked from a working copy so each number is consumed exactly once; what
// survives vocabulary filtering becomes the free-text residual for the
// semantic branch.
func (e *Extractor) Extract(utterance string, current store.SlotSet, hasFocus bool) Delta {
	var d Delta
	working := strings.ToLower(strings.TrimSpace(utterance))
	if working == "" {
		return d
	}

	if code, raw := extractProductCode(utterance); code != "" {
		d.ProductCode = code
		working = strings.Replace(working, strings.ToLower(raw), " ", 1)
	}

	for _, r := range extractionRules {
		for {
			loc := r.re.FindStringSubmatchIndex(working)
			if loc == nil {
				break
			}
			groups := make([]string, 0, len(loc)/2)
			for i := 0; i < len(loc); i += 2 {
				if loc[i] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, working[loc[i]:loc[i+1]])
			}
			r.apply(groups, &d)
			working = working[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + working[loc[1]:]
		}
	}

	working = e.extractFeatures(working, &d)
	d.Brand, working = e.extractBrand(working)
	d.Category, working = e.extractCategory(working)
	working = e.bindLoneNumbers(working, &d, current, hasFocus)
	e.extractSignals(working, &d)
	d.Residual = e.residual(working)
	return d
}

// clauseSepRe cuts an utterance at punctuation and conjunctions so a
// retraction marker only reaches the features in its own clause.
var clauseSepRe = regexp.MustCompile(`[,;.]|\b(?:ama|fakat|ancak|ve)\b`)

// clauseSpans returns the byte ranges between clause separators.
func clauseSpans(s string) [][2]int {
	seps := clauseSepRe.FindAllStringIndex(s, -1)
	spans := make([][2]int, 0, len(seps)+1)
	start := 0
	for _, sep := range seps {
		spans = append(spans, [2]int{start, sep[0]})
		start = sep[1]
	}
	return append(spans, [2]int{start, len(s)})
}

// extractFeatures resolves feature synonyms per clause, honoring
// retraction markers: "magnetli olmasın ama amortisörlü olsun" retracts
// the magnet and still adds the cushioning.
func (e *Extractor) extractFeatures(working string, d *Delta) string {
	out := []byte(working)
	for _, span := range clauseSpans(working) {
		seg := working[span[0]:span[1]]
		retracting := false
		for _, marker := range retractionMarkers {
			if strings.Contains(seg, marker) {
				retracting = true
				break
			}
		}
		for {
			tag, stem := matchFeature(seg)
			if tag == "" {
				break
			}
			if retracting {
				d.RetractedFeatures = appendUnique(d.RetractedFeatures, tag)
			} else {
				d.Features = appendUnique(d.Features, tag)
			}
			seg = blankMatch(seg, stem)
		}
		copy(out[span[0]:span[1]], seg)
	}
	return string(out)
}

// blankMatch erases the matched stem expanded to whole-token boundaries,
// so suffixed forms ("amortisörlü", "çift etkili") leave nothing behind.
func blankMatch(working, stem string) string {
	i := strings.Index(working, stem)
	if i < 0 {
		return working
	}
	start := i
	for start > 0 && working[start-1] != ' ' {
		start--
	}
	end := i + len(stem)
	for end < len(working) && working[end] != ' ' {
		end++
	}
	return working[:start] + strings.Repeat(" ", end-start) + working[end:]
}

func (e *Extractor) extractBrand(working string) (string, string) {
	for _, tok := range strings.Fields(working) {
		if b := matchBrand(tok); b != "" {
			return b, strings.Replace(working, tok, " ", 1)
		}
	}
	return "", working
}

func (e *Extractor) extractCategory(working string) (string, string) {
	for _, tok := range strings.Fields(working) {
		if c := matchCategory(tok); c != "" {
			return c, strings.Replace(working, tok, " ", 1)
		}
	}
	return "", working
}

// bindLoneNumbers assigns bare numbers left over after every unit-marked
// pattern was consumed. With a focused product the number is a quantity;
// with dimension context it fills the first open dimension slot, diameter
// before stroke; with no context at all it is parked for clarification.
func (e *Extractor) bindLoneNumbers(working string, d *Delta, current store.SlotSet, hasFocus bool) string {
	for {
		loc := loneNumberRe.FindStringSubmatchIndex(working)
		if loc == nil {
			return working
		}
		v := parseNum(working[loc[2]:loc[3]])
		working = working[:loc[2]] + strings.Repeat(" ", loc[3]-loc[2]) + working[loc[3]:]
		if v == nil {
			continue
		}
		switch {
		case hasFocus && d.Quantity == 0:
			d.Quantity = int(*v)
		case d.DiameterMm == nil && current.DiameterMm == nil && hasSlotContext(current, *d):
			d.DiameterMm = v
		case d.StrokeMm == nil && current.StrokeMm == nil && (current.DiameterMm != nil || d.DiameterMm != nil):
			d.StrokeMm = v
		default:
			d.PendingNumber = v
		}
	}
}

// hasSlotContext reports whether the conversation has enough grounding to
// read a bare number as a dimension.
func hasSlotContext(current store.SlotSet, d Delta) bool {
	return current.HasSignal() || current.Category != "" ||
		d.StrokeMm != nil || len(d.Features) > 0 || d.Brand != "" || d.Category != ""
}

func (e *Extractor) extractSignals(working string, d *Delta) {
	for _, tok := range strings.Fields(working) {
		tok = strings.Trim(tok, ".,!?")
		switch {
		case affirmativeTokens[tok]:
			d.Affirmative = true
		case negativeTokens[tok]:
			d.Negative = true
		case greetingTokens[tok]:
			d.Greeting = true
		case farewellTokens[tok]:
			d.Farewell = true
		}
	}
}

// residual keeps only tokens unknown to every lexicon; they feed the
// semantic query verbatim.
func (e *Extractor) residual(working string) string {
	var kept []string
	for _, tok := range strings.Fields(working) {
		tok = strings.Trim(tok, ".,!?")
		if tok == "" || tok == "mm" {
			continue
		}
		if fillerWords[tok] || affirmativeTokens[tok] || negativeTokens[tok] ||
			greetingTokens[tok] || farewellTokens[tok] {
			continue
		}
		if isRetractionMarker(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func isRetractionMarker(tok string) bool {
	for _, m := range retractionMarkers {
		if tok == m {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
