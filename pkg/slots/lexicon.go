package slots

import (
	"sort"
	"strings"
)

// Canonical feature tags.
const (
	FeatureMagnetic     = "magnetic-sensor"
	FeatureCushioned    = "cushioned"
	FeatureDoubleActing = "double-acting"
	FeatureSingleActing = "single-acting"
	FeatureStainless    = "stainless"
	FeaturePneumatic    = "pneumatic"
	FeatureQuiet        = "quiet"
	FeatureISO          = "iso-standard"
)

// featureSynonyms maps surface tokens (including common misspellings and
// partial stems) to canonical feature tags. Matching is prefix-based so
// Turkish suffixes ("manyetikli", "amortisörlü") resolve to the same tag.
var featureSynonyms = map[string]string{
	"manyetik":   FeatureMagnetic,
	"magnetik":   FeatureMagnetic,
	"magnet":     FeatureMagnetic,
	"magnetli":   FeatureMagnetic,
	"sensör":     FeatureMagnetic,
	"sensorlu":   FeatureMagnetic,
	"amortisör":  FeatureCushioned,
	"amortisor":  FeatureCushioned,
	"yastık":     FeatureCushioned,
	"yastik":     FeatureCushioned,
	"cushion":    FeatureCushioned,
	"çift etkil": FeatureDoubleActing,
	"cift etkil": FeatureDoubleActing,
	"double act": FeatureDoubleActing,
	"tek etkil":  FeatureSingleActing,
	"single act": FeatureSingleActing,
	"paslanmaz":  FeatureStainless,
	"inox":       FeatureStainless,
	"stainless":  FeatureStainless,
	"pnömatik":   FeaturePneumatic,
	"pnomatik":   FeaturePneumatic,
	"havalı":     FeaturePneumatic,
	"havali":     FeaturePneumatic,
	"sessiz":     FeatureQuiet,
	"quiet":      FeatureQuiet,
	"iso":        FeatureISO,
	"standart":   FeatureISO,
}

// knownBrands is the finite brand lexicon, matched exactly per token
// (case-insensitive).
var knownBrands = []string{"MAG", "SMC", "FESTO", "PARKER", "BOSCH", "AIRTAC", "CAMOZZI"}

// categoryKeywords maps product-family surface tokens to a canonical
// category value.
var categoryKeywords = map[string]string{
	"silindir": "cylinder",
	"cylinder": "cylinder",
	"valf":     "valve",
	"valve":    "valve",
	"hortum":   "hose",
	"hose":     "hose",
	"rakor":    "fitting",
	"raccord":  "fitting",
	"fitting":  "fitting",
	"tapa":     "plug",
	"bobin":    "coil",
}

// Confirmation vocabulary, surfaced as signals rather than slots.
var affirmativeTokens = map[string]bool{
	"evet": true, "tamam": true, "onayla": true, "onaylıyorum": true,
	"olur": true, "kaydet": true, "yes": true, "ok": true, "okay": true,
}

var negativeTokens = map[string]bool{
	"hayır": true, "hayir": true, "yok": true, "iptal": true,
	"vazgeçtim": true, "vazgectim": true, "olmaz": true, "no": true,
	"istemiyorum": true,
}

var greetingTokens = map[string]bool{
	"merhaba": true, "selam": true, "günaydın": true, "gunaydin": true,
	"hello": true, "hi": true, "selamlar": true,
}

var farewellTokens = map[string]bool{
	"görüşürüz": true, "gorusuruz": true, "hoşçakal": true, "hoscakal": true,
	"bye": true, "goodbye": true, "teşekkürler": true, "tesekkurler": true,
}

// retractionMarkers flip a feature mention into a retraction
// ("magnetli olmasın" removes the tag instead of adding it).
var retractionMarkers = []string{"olmasın", "olmasin", "istemiyorum", "çıkar", "cikar", "kaldır", "kaldir"}

// fillerWords are conversational search phrases stripped from the residual,
// so the semantic query carries only product-bearing terms.
var fillerWords = map[string]bool{
	"arıyorum": true, "ariyorum": true, "lazım": true, "lazim": true,
	"istiyorum": true, "gerek": true, "gerekiyor": true, "bakıyorum": true,
	"bakiyorum": true, "acaba": true, "rica": true, "lütfen": true,
	"lutfen": true, "bir": true, "var": true, "mı": true, "mi": true,
	"için": true, "icin": true, "ve": true, "ile": true, "marka": true,
	"markası": true, "model": true,
}

// matchBrand returns the canonical brand for a token, or "".
func matchBrand(token string) string {
	upper := strings.ToUpper(strings.Trim(token, ".,!?'\""))
	for _, b := range knownBrands {
		if upper == b {
			return b
		}
	}
	return ""
}

// orderedStems holds synonym stems longest-first, so "amortisor" is tried
// before the "iso" it happens to contain.
var orderedStems = func() []string {
	stems := make([]string, 0, len(featureSynonyms))
	for stem := range featureSynonyms {
		stems = append(stems, stem)
	}
	sort.Slice(stems, func(i, j int) bool {
		if len(stems[i]) != len(stems[j]) {
			return len(stems[i]) > len(stems[j])
		}
		return stems[i] < stems[j]
	})
	return stems
}()

// matchFeature resolves a normalized text fragment to a canonical feature
// tag by synonym stem. Returns the tag and the matched stem.
func matchFeature(text string) (string, string) {
	for _, stem := range orderedStems {
		if strings.Contains(text, stem) {
			return featureSynonyms[stem], stem
		}
	}
	return "", ""
}

// matchCategory resolves a token to a canonical category, tolerating
// Turkish suffixes ("silindirler", "valfler").
func matchCategory(token string) string {
	for stem, cat := range categoryKeywords {
		if strings.HasPrefix(token, stem) {
			return cat
		}
	}
	return ""
}

// FeatureSurface returns a human/semantic-search form of a canonical tag.
func FeatureSurface(tag string) string {
	switch tag {
	case FeatureMagnetic:
		return "manyetik sensörlü"
	case FeatureCushioned:
		return "amortisörlü"
	case FeatureDoubleActing:
		return "çift etkili"
	case FeatureSingleActing:
		return "tek etkili"
	case FeatureStainless:
		return "paslanmaz"
	case FeaturePneumatic:
		return "pnömatik"
	case FeatureQuiet:
		return "sessiz"
	case FeatureISO:
		return "ISO standart"
	}
	return tag
}
