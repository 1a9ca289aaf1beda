// Package validate checks raw sample text against configurable rules.
//
// Each rule supplies a name, a pattern, and an expectation flag. A rule
// passes when pattern presence matches the expectation: expected=true
// means the pattern must be present, expected=false means its presence is
// itself the failure. Rules are independent; all are evaluated and
// reported, none short-circuits another.
package validate

import (
	"fmt"
	"regexp"

	"github.com/deepgram-devs/docs-sample-testing/config"
)

// Rule is one compiled validation rule.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Expected bool
}

// Validator evaluates a rule set against sample text.
type Validator struct {
	rules []Rule
}

// New compiles the configured rules into a Validator. An invalid pattern
// is a configuration error and fails construction.
func New(rules []config.ValidationRule) (*Validator, error) {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		pattern, err := regexp.Compile(r.Check)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for rule %q: %w", r.Name, err)
		}
		compiled = append(compiled, Rule{
			Name:     r.Name,
			Pattern:  pattern,
			Expected: r.Expected,
		})
	}
	return &Validator{rules: compiled}, nil
}

// Validate evaluates every rule against the code and returns the outcome
// per rule name: pass when (pattern found == expected).
func (v *Validator) Validate(code string) map[string]bool {
	results := make(map[string]bool, len(v.rules))
	for _, rule := range v.rules {
		found := rule.Pattern.MatchString(code)
		results[rule.Name] = found == rule.Expected
	}
	return results
}

// Len returns the number of compiled rules.
func (v *Validator) Len() int {
	return len(v.rules)
}
