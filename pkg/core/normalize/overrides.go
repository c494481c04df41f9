package normalize

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Rule is one pattern→replacement substitution. Patterns match as
// case-insensitive substrings of the normalized candidate title.
type Rule struct {
	Pattern     string
	Replacement string
}

// builtinRules disambiguates titles the external sorter's search routinely
// gets wrong. User-supplied rules always take precedence over these.
var builtinRules = []Rule{
	{Pattern: "the office", Replacement: "The Office (US)"},
	{Pattern: "shameless", Replacement: "Shameless (US)"},
	{Pattern: "doctor who", Replacement: "Doctor Who (2005)"},
	{Pattern: "battlestar galactica", Replacement: "Battlestar Galactica (2003)"},
	{Pattern: "hawaii five 0", Replacement: "Hawaii Five-0 (2010)"},
}

// Resolver applies user rules first, then the built-in table, first match
// wins within each tier. An unmatched candidate passes through unchanged.
type Resolver struct {
	userRules []Rule
}

// NewResolver builds a resolver over the given user rules.
func NewResolver(userRules []Rule) *Resolver {
	return &Resolver{userRules: userRules}
}

// LoadRules parses the override rules file: one "pattern|replacement" per
// line, blank lines and lines starting with '#' ignored. A missing file is
// not an error; operators create it only when they need overrides.
func LoadRules(path string) ([]Rule, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open rules file %s: %w", path, err)
	}
	defer file.Close()

	var rules []Rule
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pattern, replacement, found := strings.Cut(line, "|")
		if !found || strings.TrimSpace(pattern) == "" {
			log.Warnf("Ignoring malformed rule at %s:%d: %q", path, lineNo, line)
			continue
		}
		rules = append(rules, Rule{
			Pattern:     strings.TrimSpace(pattern),
			Replacement: strings.TrimSpace(replacement),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return rules, nil
}

// Resolve maps a normalized candidate through the two rule tiers.
func (r *Resolver) Resolve(candidate string) string {
	lower := strings.ToLower(candidate)
	for _, rule := range r.userRules {
		if strings.Contains(lower, strings.ToLower(rule.Pattern)) {
			return rule.Replacement
		}
	}
	for _, rule := range builtinRules {
		if strings.Contains(lower, rule.Pattern) {
			return rule.Replacement
		}
	}
	return candidate
}
