package conversation

import (
	"regexp"
	"strings"
)

const shortMessageLen = 40

var explicitSearchRe = regexp.MustCompile(`^(analyze|search|find|look up)\b`)

var followupSignalRes = []*regexp.Regexp{
	// Leading discourse markers
	regexp.MustCompile(`^(what about|how about|and |also |instead |compare|which one|what if)`),
	// Pronouns referring to prior context
	regexp.MustCompile(`\b(it|that|this|these|those|the same|the other)\b`),
	// Comparative / continuation words
	regexp.MustCompile(`\b(better|worse|cheaper|more expensive|similar|alternatively|vs|versus)\b`),
}

// followupRule is one step of the classifier chain. Rules are evaluated
// top-to-bottom and the first rule that applies decides the verdict. The
// ordering is a behavioural contract: fresh-request overrides must run
// before follow-up signals so that a complete location+price request wins
// even when it also contains a comparative word.
type followupRule struct {
	name    string
	verdict bool
	applies func(msg string) bool
}

var followupRules = []followupRule{
	{
		name:    "FreshComplete",
		verdict: false,
		applies: func(msg string) bool {
			return ContainsLocation(msg) && (hasPropertyType(msg) || hasPriceSignal(msg))
		},
	},
	{
		name:    "FreshExplicitSearch",
		verdict: false,
		applies: func(msg string) bool {
			return explicitSearchRe.MatchString(msg) && ContainsLocation(msg)
		},
	},
	{
		name:    "FollowupSignal",
		verdict: true,
		applies: func(msg string) bool {
			for _, re := range followupSignalRes {
				if re.MatchString(msg) {
					return true
				}
			}
			return false
		},
	},
	{
		name:    "FollowupShort",
		verdict: true,
		applies: func(msg string) bool {
			return len([]rune(msg)) < shortMessageLen && !ContainsLocation(msg)
		},
	},
}

// IsFollowup decides, with local heuristics only, whether message continues
// the prior exchange. Without an existing session there is nothing to follow
// up on, so the answer is always false.
func IsFollowup(message string, hasSession bool) bool {
	if !hasSession {
		return false
	}

	msg := strings.TrimSpace(strings.ToLower(message))

	for _, rule := range followupRules {
		if rule.applies(msg) {
			return rule.verdict
		}
	}

	return false
}
