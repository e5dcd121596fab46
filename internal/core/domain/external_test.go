package domain_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func manifestWith(deps ...string) *domain.Manifest {
	m := &domain.Manifest{Name: "pkg", Dependencies: map[string]string{}}
	for _, d := range deps {
		m.Dependencies[d] = "^1.0.0"
	}
	return m
}

func mustMatchers(t *testing.T, list ...string) []domain.Matcher {
	t.Helper()
	ms, err := domain.ParseMatchers(list)
	require.NoError(t, err)
	return ms
}

func ruleSources(rs *domain.RuleSet) []string {
	var out []string
	for _, r := range rs.Rules() {
		out = append(out, r.Action.String()+":"+r.Matcher.Source())
	}
	return out
}

func TestParseMatcher(t *testing.T) {
	m, err := domain.ParseMatcher("lodash")
	require.NoError(t, err)
	assert.False(t, m.IsPattern())
	assert.True(t, m.Matches("lodash"))
	assert.False(t, m.Matches("lodash/fp"))

	m, err = domain.ParseMatcher("*")
	require.NoError(t, err)
	assert.False(t, m.IsPattern())
	assert.True(t, m.Matches("*"))
	assert.False(t, m.Matches("react"))

	m, err = domain.ParseMatcher("/^@babel\\//i")
	require.NoError(t, err)
	assert.True(t, m.IsPattern())
	assert.True(t, m.Matches("@BABEL/core"))

	_, err = domain.ParseMatcher("/[/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPattern))

	_, err = domain.ParseMatcher("/a/x")
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "x", zErr.Metadata()["flag"])
}

func TestClassify_SeedsDependenciesWithSubpaths(t *testing.T) {
	rs := domain.Classify(domain.PlatformNode, manifestWith("@scope/name"), domain.ExternalOption{}, domain.ExternalOption{}, nil)

	assert.True(t, rs.IsExternal("@scope/name"))
	assert.True(t, rs.IsExternal("@scope/name/sub"))
	assert.False(t, rs.IsExternal("@scope/nameX"))
	assert.False(t, rs.IsExternal("@scope/nameX/sub"))
}

func TestClassify_Builtins(t *testing.T) {
	node := domain.Classify(domain.PlatformNode, manifestWith(), domain.ExternalOption{}, domain.ExternalOption{}, nil)
	assert.True(t, node.IsExternal("fs"))
	assert.True(t, node.IsExternal("fs/promises"))
	assert.True(t, node.IsExternal("node:path"))

	browser := domain.Classify(domain.PlatformBrowser, manifestWith(), domain.ExternalOption{}, domain.ExternalOption{}, nil)
	assert.False(t, browser.IsExternal("fs"))
}

func TestClassify_PathsAreNeverExternal(t *testing.T) {
	rs := domain.Classify(domain.PlatformNode, manifestWith("a"),
		domain.ExternalOption{Matchers: []domain.Matcher{domain.PatternMatcher(regexp.MustCompile(".*"))}},
		domain.ExternalOption{}, nil)

	assert.False(t, rs.IsExternal("./a"))
	assert.False(t, rs.IsExternal("../a"))
	assert.False(t, rs.IsExternal("/abs/a"))
	assert.True(t, rs.IsExternal("anything"))
}

func TestClassify_NoExternalExactRemovesOnlyItsRules(t *testing.T) {
	base := domain.Classify(domain.PlatformNeutral, manifestWith("a", "b"), domain.ExternalOption{}, domain.ExternalOption{}, nil)
	assert.Equal(t, []string{"external:a", "external:^a/", "external:b", "external:^b/"}, ruleSources(base))

	rs := domain.Classify(domain.PlatformNeutral, manifestWith("a", "b"),
		domain.ExternalOption{},
		domain.ExternalOption{Matchers: mustMatchers(t, "a")}, nil)

	assert.Equal(t, []string{"external:b", "external:^b/", "inlined:a"}, ruleSources(rs))
	assert.False(t, rs.IsExternal("a"))
	assert.False(t, rs.IsExternal("a/sub"))
	assert.True(t, rs.IsExternal("b"))
	assert.True(t, rs.IsExternal("b/sub"))
}

func TestClassify_NoExternalPattern(t *testing.T) {
	rs := domain.Classify(domain.PlatformNeutral, manifestWith("@x/a", "@x/b", "c"),
		domain.ExternalOption{},
		domain.ExternalOption{Matchers: mustMatchers(t, "/^@x\\//")}, nil)

	assert.False(t, rs.IsExternal("@x/a"))
	assert.False(t, rs.IsExternal("@x/b"))
	assert.True(t, rs.IsExternal("c"))
	// Subpath patterns of the scoped packages have a different source and survive.
	assert.Contains(t, ruleSources(rs), "external:^@x/a/")
}

func TestClassify_NoExternalPredicate(t *testing.T) {
	var failed []string
	pred := func(id string) (bool, error) {
		switch id {
		case "a":
			return true, nil
		case "boom":
			return false, errors.New("predicate failed")
		}
		return false, nil
	}

	rs := domain.Classify(domain.PlatformNeutral, manifestWith("a", "b", "boom"),
		domain.ExternalOption{},
		domain.ExternalOption{Predicate: pred},
		func(id string, _ error) { failed = append(failed, id) })

	assert.False(t, rs.IsExternal("a"))
	assert.False(t, rs.IsExternal("a/sub"))
	assert.True(t, rs.IsExternal("b"))
	assert.True(t, rs.IsExternal("boom"), "a failing predicate leaves the rules in place")
	assert.Equal(t, []string{"boom"}, failed)
}

func TestClassify_StarIsLiteral(t *testing.T) {
	rs := domain.Classify(domain.PlatformNode, manifestWith("pkg-a", "pkg-b", "pkg-c"),
		domain.ExternalOption{Matchers: mustMatchers(t, "*")},
		domain.ExternalOption{Matchers: mustMatchers(t, "pkg-a")}, nil)

	assert.False(t, rs.IsExternal("pkg-a"))
	assert.True(t, rs.IsExternal("pkg-b"))
	assert.True(t, rs.IsExternal("pkg-c/deep"))
	assert.True(t, rs.IsExternal("*"))
	assert.False(t, rs.IsExternal("unlisted"))
}

func TestClassify_ExternalAppendedAndLastWins(t *testing.T) {
	rs := domain.Classify(domain.PlatformNeutral, manifestWith(),
		domain.ExternalOption{Matchers: mustMatchers(t, "x", "x")},
		domain.ExternalOption{Matchers: mustMatchers(t, "x")}, nil)

	assert.Equal(t, []string{"inlined:x", "external:x", "external:x"}, ruleSources(rs))
	assert.True(t, rs.IsExternal("x"))
}

func TestClassify_ExternalPredicateReplacesRules(t *testing.T) {
	rs := domain.Classify(domain.PlatformNode, manifestWith("a"),
		domain.ExternalOption{Predicate: func(id string) (bool, error) { return id == "only", nil }},
		domain.ExternalOption{}, nil)

	assert.Empty(t, rs.Rules())
	assert.NotNil(t, rs.Predicate())
	assert.True(t, rs.IsExternal("only"))
	assert.False(t, rs.IsExternal("a"))
	assert.False(t, rs.IsExternal("fs"))
}
