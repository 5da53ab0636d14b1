package links

import (
	"sort"
	"strings"
)

// Rule maps a non-canonical host string to its canonical replacement.
type Rule struct {
	Alias     string
	Canonical string
}

// Normalizer applies host rewrite rules to clip URLs.
type Normalizer struct {
	rules []Rule
}

// NewNormalizer builds a normalizer from an alias to canonical map. Rules are
// applied longest alias first so overlapping aliases rewrite deterministically.
func NewNormalizer(aliases map[string]string) *Normalizer {
	rules := make([]Rule, 0, len(aliases))
	for alias, canonical := range aliases {
		if alias == "" {
			continue
		}
		rules = append(rules, Rule{Alias: alias, Canonical: canonical})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].Alias) != len(rules[j].Alias) {
			return len(rules[i].Alias) > len(rules[j].Alias)
		}
		return rules[i].Alias < rules[j].Alias
	})
	return &Normalizer{rules: rules}
}

// Rules returns the rewrite rules in application order.
func (n *Normalizer) Rules() []Rule {
	if n == nil {
		return nil
	}
	return append([]Rule(nil), n.rules...)
}

// Normalize replaces every occurrence of each alias with its canonical host.
// It is total and, for rule sets where no canonical contains an alias,
// idempotent.
func (n *Normalizer) Normalize(id string) string {
	if n == nil {
		return id
	}
	for _, rule := range n.rules {
		if strings.Contains(id, rule.Alias) {
			id = strings.ReplaceAll(id, rule.Alias, rule.Canonical)
		}
	}
	return id
}

// NeedsRewrite reports whether Normalize would change id.
func (n *Normalizer) NeedsRewrite(id string) bool {
	if n == nil {
		return false
	}
	for _, rule := range n.rules {
		if strings.Contains(id, rule.Alias) {
			return true
		}
	}
	return false
}
