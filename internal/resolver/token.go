package resolver

import (
	"regexp"

	"github.com/vk/blastradius/internal/model"
)

// interpRe finds ${...} interpolation groups inside string values.
var interpRe = regexp.MustCompile(`\$\{[^}]*\}`)

// tokenRe matches a dotted identifier chain of at least two segments.
// Index steps break the chain, so aws_instance.web[0].id yields
// aws_instance.web as the addressable prefix.
var tokenRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_-]*(?:\.[A-Za-z_][A-Za-z0-9_-]*)+`)

// bareRe recognizes a whole string that is nothing but a traversal,
// optionally with index steps.
var bareRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*(?:\.[A-Za-z_][A-Za-z0-9_-]*|\[[^\]]+\])+$`)

// extractTokens pulls candidate reference tokens out of one attribute
// value, recursing through lists and maps. Raw expression values are
// scanned in full; plain strings only contribute tokens from ${...}
// groups, or the whole string when it is itself a bare traversal. This
// keeps ordinary prose ("example.com") from producing false candidates.
func extractTokens(v model.Value) []string {
	var tokens []string
	v.Walk(func(item model.Value) {
		switch item.Kind() {
		case model.Expr:
			tokens = append(tokens, tokenRe.FindAllString(item.AsString(), -1)...)
		case model.String:
			s := item.AsString()
			groups := interpRe.FindAllString(s, -1)
			if len(groups) == 0 {
				if bareRe.MatchString(s) {
					tokens = append(tokens, tokenRe.FindAllString(s, -1)...)
				}
				return
			}
			for _, g := range groups {
				tokens = append(tokens, tokenRe.FindAllString(g, -1)...)
			}
		}
	})
	return tokens
}
