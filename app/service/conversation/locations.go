package conversation

import (
	"regexp"
	"strings"
	"unicode"
)

// dubaiLocations is the gazetteer of neighbourhood / building-cluster names
// used for fresh-request detection and fact extraction. Kept as an ordered
// slice so "first location found" is deterministic.
var dubaiLocations = []string{
	"marina", "jbr", "downtown", "business bay", "jlt", "arjan",
	"dubailand", "silicon oasis", "sports city", "motor city",
	"discovery gardens", "al furjan", "jumeirah", "palm",
	"creek harbour", "sobha hartland", "meydan", "dubai hills",
	"arabian ranches", "damac hills", "town square", "remraam",
	"international city", "al quoz", "barsha", "tecom",
	"greens", "views", "springs", "meadows", "lakes",
	"difc", "world trade centre", "zabeel", "ras al khor",
	"production city", "studio city", "mudon", "villanova",
	"tilal al ghaf", "emaar beachfront", "bluewaters",
	"city walk", "la mer", "dubai south", "expo city",
}

var (
	propertyTypeRe = regexp.MustCompile(`\b(studio|1br|2br|3br|4br|5br|1bed|2bed|3bed|4bed|5bed|apartment|villa|townhouse|penthouse|duplex)\b`)
	priceSignalRe  = regexp.MustCompile(`\b(aed|under|below|above|over|budget)\b|\d{3,}k|\d[\d,]*\.\d+m|\d{6,}`)
)

// ContainsLocation reports whether the message mentions a known Dubai
// location. Substring match on purpose: catches "marina" inside
// "dubai marina" and compound building names.
func ContainsLocation(msg string) bool {
	lower := strings.ToLower(msg)
	for _, loc := range dubaiLocations {
		if strings.Contains(lower, loc) {
			return true
		}
	}
	return false
}

// firstLocation returns the first gazetteer entry found in text, title-cased.
func firstLocation(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, loc := range dubaiLocations {
		if strings.Contains(lower, loc) {
			return titleWords(loc), true
		}
	}
	return "", false
}

func hasPropertyType(msg string) bool {
	return propertyTypeRe.MatchString(strings.ToLower(msg))
}

func hasPriceSignal(msg string) bool {
	return priceSignalRe.MatchString(strings.ToLower(msg))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// truncate limits s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
