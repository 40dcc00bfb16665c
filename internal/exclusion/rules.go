// Package exclusion provides file exclusion rules based on glob patterns,
// supplementing discovery's attribute-based (#[mutants::skip]) exclusion
// with path-based exclusion configured by the user.
package exclusion

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"

	"github.com/rustmutants/rustmutants/configuration"
)

// Rules is a collection of compiled glob patterns matched against a
// SourceFile's RelPath.
type Rules []glob.Glob

// New compiles exclusion rules from the mutants.exclude-globs configuration
// key, a slash-separated glob per entry (e.g. "benches/**", "src/bin/*.rs").
//
// The key may come in as a comma-separated string (the --exclude-globs flag
// or an env var), or as a list (a config file's YAML sequence), so both
// shapes are accepted.
func New() (Rules, error) {
	var rules Rules

	for i, s := range patterns() {
		g, err := glob.Compile(s, '/')
		if err != nil {
			return nil, fmt.Errorf("error in exclude-globs param value #%d: %w", i, err)
		}
		rules = append(rules, g)
	}

	return rules, nil
}

func patterns() []string {
	switch v := viper.Get(configuration.MutantsExcludeGlobsKey).(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}

		return strings.Split(v, ",")
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

// IsFileExcluded reports whether relPath matches any of the rules.
func (r Rules) IsFileExcluded(relPath string) bool {
	if len(r) == 0 {
		return false
	}
	for _, g := range r {
		if g.Match(relPath) {
			return true
		}
	}

	return false
}
