package conversation

import (
	"regexp"
	"strings"
)

const rawFallbackLen = 150

var (
	aedPriceRe   = regexp.MustCompile(`AED\s*[\d,]+(?:\.\d+)?(?:\s*[MmKk])?`)
	scoreRe      = regexp.MustCompile(`(?i)Score[:\s]*(\d+)/100`)
	noGoRe       = regexp.MustCompile(`(?i)\bNO[- ]?GO\b`)
	goRe         = regexp.MustCompile(`\bGO\b`)
	buyGradeRe   = regexp.MustCompile(`(?i)(GOOD|CAUTIOUS|STRONG|WEAK|EXCELLENT)\s+BUY`)
	chillerRe    = regexp.MustCompile(`(?i)(empower|chiller)`)
	yieldRe      = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*%\s*(gross|net)?\s*yield`)
	oversupplyRe = regexp.MustCompile(`(?i)oversuppl`)
)

// factExtractors run in a fixed order; each contributes at most one fragment.
// The LLM is prompted to use these exact phrases ("Score: N/100", "GOOD BUY",
// ...), so this is a parser over a text convention, not free-form scanning.
var factExtractors = []func(response string) (string, bool){
	firstLocation,
	func(r string) (string, bool) {
		m := aedPriceRe.FindString(r)
		return strings.TrimSpace(m), m != ""
	},
	func(r string) (string, bool) {
		m := scoreRe.FindStringSubmatch(r)
		if m == nil {
			return "", false
		}
		return "Score: " + m[1] + "/100", true
	},
	func(r string) (string, bool) {
		// NO-GO first: it contains GO and must shadow it.
		if noGoRe.MatchString(r) {
			return "NO-GO", true
		}
		if goRe.MatchString(r) {
			return "GO", true
		}
		return "", false
	},
	func(r string) (string, bool) {
		m := buyGradeRe.FindString(r)
		return strings.ToUpper(m), m != ""
	},
	func(r string) (string, bool) {
		return "Empower chiller", chillerRe.MatchString(r)
	},
	func(r string) (string, bool) {
		m := yieldRe.FindStringSubmatch(r)
		if m == nil {
			return "", false
		}
		s := m[1] + "%"
		if m[2] != "" {
			s += " " + m[2]
		}
		return s + " yield", true
	},
	func(r string) (string, bool) {
		return "oversupply risk", oversupplyRe.MatchString(r)
	},
}

// ExtractKeyFacts condenses an analysis response into a compact fact digest
// used to build the rolling session summary. Pure and synchronous: recording
// a turn must never block on I/O. Falls back to a truncated excerpt of the
// response when no pattern matches.
func ExtractKeyFacts(response string) string {
	var facts []string
	for _, extract := range factExtractors {
		if fact, ok := extract(response); ok {
			facts = append(facts, fact)
		}
	}

	var result string
	if len(facts) > 0 {
		result = strings.Join(facts, ", ")
	} else {
		result = strings.ReplaceAll(truncate(response, rawFallbackLen), "\n", " ")
	}

	return truncate(result, maxFactsLen)
}
