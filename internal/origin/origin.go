// Package origin infers the logical source grouping of a test execution
// when the producer did not supply one.
package origin

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fallback is the origin assigned when no rule matches.
const Fallback = "general-checks"

// Rule maps any of its keywords to an origin. Keywords are compared
// case-insensitively as substrings.
type Rule struct {
	Origin   string
	Keywords []string
}

// DefaultRules are evaluated in order; persona markers come before the
// generic purchase flow so that "problem_user checkout" lands on the
// persona origin.
var DefaultRules = []Rule{
	{Origin: "visual-user-checks", Keywords: []string{"video", "visual_user"}},
	{Origin: "problem-user-checks", Keywords: []string{"problem_user"}},
	{Origin: "performance-checks", Keywords: []string{"performance_glitch_user", "performance"}},
	{Origin: "error-user-checks", Keywords: []string{"error_user"}},
	{Origin: "login-checks", Keywords: []string{"locked_out_user", "locked out"}},
	{Origin: "purchase-flow", Keywords: []string{"purchase", "checkout"}},
}

// Classification is the tagged result of Classify. Matched is false when no
// rule applied, in which case Origin is empty.
type Classification struct {
	Origin  string
	Matched bool
	Keyword string
}

// Unclassified is the zero Classification.
var Unclassified = Classification{}

// Classifier applies an ordered rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules. A nil slice selects
// DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify inspects the scenario name first and then each advisory artifact
// filename. The first rule with a matching keyword wins.
func (c *Classifier) Classify(scenarioName string, artifacts []string) Classification {
	fold := cases.Fold()
	haystacks := make([]string, 0, 1+len(artifacts))
	haystacks = append(haystacks, fold.String(scenarioName))
	for _, a := range artifacts {
		haystacks = append(haystacks, fold.String(a))
	}

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			needle := fold.String(kw)
			for _, h := range haystacks {
				if strings.Contains(h, needle) {
					return Classification{Origin: rule.Origin, Matched: true, Keyword: kw}
				}
			}
		}
	}
	return Unclassified
}

// Resolve returns the classified origin, or Fallback when unclassified.
func (c *Classifier) Resolve(scenarioName string, artifacts []string) string {
	if cl := c.Classify(scenarioName, artifacts); cl.Matched {
		return cl.Origin
	}
	return Fallback
}
