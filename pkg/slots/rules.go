package slots

import (
	"regexp"
	"strconv"
	"strings"
)

// rule is one ordered pattern matcher. Earlier rules win: matched spans are
// blanked out of the working text before later rules run, so "100x200" is
// consumed as a dimension pair and never re-read as a lone number.
type rule struct {
	name  string
	re    *regexp.Regexp
	apply func(groups []string, d *Delta)
}

var num = `(\d+(?:[.,]\d+)?)`

var extractionRules = []rule{
	{
		name: "dimension_pair",
		re:   regexp.MustCompile(num + `\s*[x×*]\s*` + num),
		apply: func(g []string, d *Delta) {
			d.DiameterMm = parseNum(g[1])
			d.StrokeMm = parseNum(g[2])
		},
	},
	{
		name: "diameter_prefixed",
		re:   regexp.MustCompile(`(?:çap|cap)[ıi]?\s*:?\s*` + num),
		apply: func(g []string, d *Delta) {
			d.DiameterMm = parseNum(g[1])
		},
	},
	{
		name: "diameter_suffixed",
		re:   regexp.MustCompile(num + `\s*(?:mm\s*)?(?:çapl?ı?|capl?i?|'?l[uü]k)`),
		apply: func(g []string, d *Delta) {
			d.DiameterMm = parseNum(g[1])
		},
	},
	{
		name: "diameter_symbol",
		re:   regexp.MustCompile(`[øØ]\s*` + num),
		apply: func(g []string, d *Delta) {
			d.DiameterMm = parseNum(g[1])
		},
	},
	{
		name: "stroke_prefixed",
		re:   regexp.MustCompile(`(?:strok|stroke)[eu]?\s*:?\s*` + num),
		apply: func(g []string, d *Delta) {
			d.StrokeMm = parseNum(g[1])
		},
	},
	{
		name: "stroke_suffixed",
		re:   regexp.MustCompile(num + `\s*(?:mm\s*)?(?:stroklu|stroke|strok)`),
		apply: func(g []string, d *Delta) {
			d.StrokeMm = parseNum(g[1])
		},
	},
	{
		name: "quantity_marked",
		re:   regexp.MustCompile(num + `\s*(?:adet|tane|parça|parca|pcs|piece)`),
		apply: func(g []string, d *Delta) {
			if v := parseNum(g[1]); v != nil {
				d.Quantity = int(*v)
			}
		},
	},
}

// loneNumberRe finds a bare numeric token after the ordered rules consumed
// every unit-marked number.
var loneNumberRe = regexp.MustCompile(`(?:^|\s)` + num + `(?:\s|$)`)

// productCodeRe matches catalog codes such as "DSNU-25-100" or "MGP20".
// The letter run must be two characters or more so unit suffixes never
// qualify.
var productCodeRe = regexp.MustCompile(`\b([A-Za-z]{2,}[-]?\d+[A-Za-z0-9-]*)\b`)

// codeBlocklist holds letter stems that look like codes but are vocabulary.
var codeBlocklist = map[string]bool{"mm": true, "adet": true, "strok": true, "cap": true, "iso": true}

var nonLetterRe = regexp.MustCompile(`[^A-Za-z]`)

func parseNum(s string) *float64 {
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// extractProductCode returns the first code-shaped token and its raw match,
// so the caller can blank it from the working text.
func extractProductCode(text string) (string, string) {
	for _, m := range productCodeRe.FindAllStringSubmatch(text, -1) {
		letters := strings.ToLower(nonLetterRe.ReplaceAllString(m[1], ""))
		if codeBlocklist[letters] {
			continue
		}
		return strings.ToUpper(m[1]), m[1]
	}
	return "", ""
}
