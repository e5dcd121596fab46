package domain

import (
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// Matcher matches module ids either literally or by regular expression.
type Matcher struct {
	Exact   string
	Pattern *regexp.Regexp
}

// ExactMatcher matches id literally.
func ExactMatcher(id string) Matcher {
	return Matcher{Exact: id}
}

// PatternMatcher matches ids against re.
func PatternMatcher(re *regexp.Regexp) Matcher {
	return Matcher{Pattern: re}
}

// ParseMatcher reads the configuration spelling of a matcher.
// "/re/flags" is a pattern, anything else matches literally, "*" included.
func ParseMatcher(s string) (Matcher, error) {
	if len(s) < 2 || s[0] != '/' {
		return ExactMatcher(s), nil
	}
	end := strings.LastIndexByte(s, '/')
	if end == 0 {
		return ExactMatcher(s), nil
	}

	source, flags := s[1:end], s[end+1:]
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			prefix.WriteRune(f)
		case 'g', 'u', 'y', 'd':
		default:
			err := zerr.Wrap(ErrInvalidPattern, "unsupported pattern flag")
			return Matcher{}, zerr.With(zerr.With(err, "pattern", s), "flag", string(f))
		}
	}
	if prefix.Len() > 0 {
		source = "(?" + prefix.String() + ")" + source
	}

	re, err := regexp.Compile(source)
	if err != nil {
		wrapped := zerr.Wrap(ErrInvalidPattern, "failed to compile pattern")
		return Matcher{}, zerr.With(zerr.With(wrapped, "pattern", s), "reason", err.Error())
	}
	return PatternMatcher(re), nil
}

// ParseMatchers parses every element of list.
func ParseMatchers(list []string) ([]Matcher, error) {
	out := make([]Matcher, 0, len(list))
	for _, s := range list {
		m, err := ParseMatcher(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// IsPattern reports whether the matcher is a regular expression.
func (m Matcher) IsPattern() bool {
	return m.Pattern != nil
}

// Source returns the literal or the pattern source.
func (m Matcher) Source() string {
	if m.Pattern != nil {
		return m.Pattern.String()
	}
	return m.Exact
}

// Matches reports whether id matches.
func (m Matcher) Matches(id string) bool {
	if m.Pattern != nil {
		return m.Pattern.MatchString(id)
	}
	return m.Exact == id
}

func (m Matcher) String() string {
	if m.Pattern != nil {
		return "/" + m.Pattern.String() + "/"
	}
	return m.Exact
}

// Predicate decides a module id programmatically.
type Predicate func(id string) (bool, error)

// ExternalOption is the user's external or noExternal setting.
type ExternalOption struct {
	Matchers  []Matcher
	Predicate Predicate
}

// IsZero reports whether nothing was configured.
func (o ExternalOption) IsZero() bool {
	return len(o.Matchers) == 0 && o.Predicate == nil
}

// RuleAction is what a matching rule decides.
type RuleAction int

const (
	// RuleExternal keeps the import out of the bundle.
	RuleExternal RuleAction = iota
	// RuleInlined bundles the import.
	RuleInlined
)

func (a RuleAction) String() string {
	if a == RuleInlined {
		return "inlined"
	}
	return "external"
}

// Rule is one ordered classification rule.
type Rule struct {
	Matcher Matcher
	Action  RuleAction
}

// RuleSet decides for every module id whether it stays external.
type RuleSet struct {
	rules     []Rule
	predicate Predicate
	onError   func(id string, err error)
}

// Rules returns the ordered rules. It is empty when a predicate replaced them.
func (r *RuleSet) Rules() []Rule {
	return r.rules
}

// Predicate returns the predicate replacing the rules, if any.
func (r *RuleSet) Predicate() Predicate {
	return r.predicate
}

// IsExternal classifies id. Relative and absolute paths are never external.
// With a predicate the predicate decides; otherwise the last matching rule wins
// and ids no rule matches are inlined.
func (r *RuleSet) IsExternal(id string) bool {
	if isPathSpecifier(id) {
		return false
	}

	if r.predicate != nil {
		ok, err := r.predicate(id)
		if err != nil {
			if r.onError != nil {
				r.onError(id, err)
			}
			return false
		}
		return ok
	}

	for i := len(r.rules) - 1; i >= 0; i-- {
		if r.rules[i].Matcher.Matches(id) {
			return r.rules[i].Action == RuleExternal
		}
	}
	return false
}

func isPathSpecifier(id string) bool {
	return id == "." || id == ".." ||
		strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../") ||
		strings.HasPrefix(id, "/") || filepath.IsAbs(id)
}

// subpathSource is the pattern source matching every subpath import of a package.
func subpathSource(name string) string {
	return "^" + regexp.QuoteMeta(name) + "/"
}

// Classify assembles the external rule set of one entry.
//
// Rules are seeded with builtins (node platform only) and every manifest
// dependency with its subpath pattern, then noExternal removes and inlines,
// then external appends. An external predicate replaces everything.
// onPredicateError receives errors of either predicate; the name keeps its rules.
func Classify(
	platform Platform,
	manifest *Manifest,
	external, noExternal ExternalOption,
	onPredicateError func(id string, err error),
) *RuleSet {
	var rules []Rule

	if platform == PlatformNode {
		for _, b := range nodeBuiltins {
			rules = append(rules, Rule{Matcher: ExactMatcher(b), Action: RuleExternal})
		}
		rules = append(rules, Rule{
			Matcher: PatternMatcher(regexp.MustCompile("^" + regexp.QuoteMeta(NodeProtocolPrefix))),
			Action:  RuleExternal,
		})
	}

	var names []string
	if manifest != nil {
		names = manifest.DependencyNames()
	}
	for _, name := range names {
		rules = append(rules,
			Rule{Matcher: ExactMatcher(name), Action: RuleExternal},
			Rule{Matcher: PatternMatcher(regexp.MustCompile(subpathSource(name))), Action: RuleExternal},
		)
	}

	if noExternal.Predicate != nil {
		for _, name := range names {
			inline, err := noExternal.Predicate(name)
			if err != nil {
				if onPredicateError != nil {
					onPredicateError(name, err)
				}
				continue
			}
			if inline {
				rules = removeName(rules, name)
			}
		}
	}

	for _, m := range noExternal.Matchers {
		if m.IsPattern() {
			rules = removePattern(rules, m)
		} else {
			rules = removeName(rules, m.Exact)
		}
	}
	for _, m := range noExternal.Matchers {
		rules = append(rules, Rule{Matcher: m, Action: RuleInlined})
	}

	for _, m := range external.Matchers {
		rules = append(rules, Rule{Matcher: m, Action: RuleExternal})
	}

	if external.Predicate != nil {
		return &RuleSet{predicate: external.Predicate, onError: onPredicateError}
	}
	return &RuleSet{rules: rules, onError: onPredicateError}
}

// removeName drops the exact rule for name and every pattern derived from it.
func removeName(rules []Rule, name string) []Rule {
	prefix := subpathSource(name)
	out := rules[:0:0]
	for _, r := range rules {
		if r.Matcher.IsPattern() {
			if strings.HasPrefix(r.Matcher.Source(), prefix) {
				continue
			}
		} else if r.Matcher.Exact == name {
			continue
		}
		out = append(out, r)
	}
	return out
}

// removePattern drops exact rules m matches and patterns with the same source.
func removePattern(rules []Rule, m Matcher) []Rule {
	out := rules[:0:0]
	for _, r := range rules {
		if r.Matcher.IsPattern() {
			if r.Matcher.Source() == m.Source() {
				continue
			}
		} else if m.Matches(r.Matcher.Exact) {
			continue
		}
		out = append(out, r)
	}
	return out
}
