// Package filter turns optional list parameters into a predicate over items
// and runs it against a snapshot of the item store.
//
// Constraints combine with AND across dimensions and OR within a dimension.
// A parameter that is absent or blank imposes no constraint. Tag tokens are
// compared verbatim with stored tags and are never validated, so an unknown
// token simply matches nothing.
package filter

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/closetly/wardrobe-backend/internal/app/model"
)

// Params holds the raw query values of a list request.
type Params struct {
	Keyword  string `form:"keyword"`
	Category string `form:"category"` // comma separated
	Color    string `form:"color"`    // comma separated
	Season   string `form:"season"`   // comma separated
}

// TokenSet is the set of values parsed from one comma separated parameter.
type TokenSet map[string]struct{}

// ParseTokens splits raw on commas, trims each token and drops empty ones.
func ParseTokens(raw string) TokenSet {
	set := TokenSet{}
	for _, part := range strings.Split(raw, ",") {
		if token := strings.TrimSpace(part); token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for token := range s {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

func (s TokenSet) has(token string) bool {
	_, ok := s[token]
	return ok
}

// Criteria is the parsed, normalized form of Params.
type Criteria struct {
	Keyword    string
	Categories TokenSet
	Colors     TokenSet
	Seasons    TokenSet
}

// Parse normalizes p. It never fails.
func Parse(p Params) Criteria {
	return Criteria{
		Keyword:    strings.TrimSpace(p.Keyword),
		Categories: ParseTokens(p.Category),
		Colors:     ParseTokens(p.Color),
		Seasons:    ParseTokens(p.Season),
	}
}

// IsEmpty reports whether c constrains nothing.
func (c Criteria) IsEmpty() bool {
	return c.Keyword == "" && len(c.Categories) == 0 && len(c.Colors) == 0 && len(c.Seasons) == 0
}

// canonicalKey is the encoded form of Criteria used by Key. Tokens may
// contain any character, so the fields are JSON encoded rather than joined.
type canonicalKey struct {
	Keyword    string   `json:"k"`
	Categories []string `json:"c"`
	Colors     []string `json:"o"`
	Seasons    []string `json:"s"`
}

// Key is a canonical representation of c: equal criteria yield equal keys
// regardless of token order, repetition or surrounding whitespace, and
// different criteria never share a key.
func (c Criteria) Key() string {
	data, err := json.Marshal(canonicalKey{
		Keyword:    strings.ToLower(c.Keyword),
		Categories: c.Categories.Sorted(),
		Colors:     c.Colors.Sorted(),
		Seasons:    c.Seasons.Sorted(),
	})
	if err != nil {
		// strings and string slices always encode
		panic(err)
	}
	return string(data)
}

// Predicate decides whether an item is part of a result.
type Predicate func(item *model.Item) bool

// Build composes the active constraints of c into a single predicate.
func Build(c Criteria) Predicate {
	var checks []Predicate

	if c.Keyword != "" {
		needle := strings.ToLower(c.Keyword)
		checks = append(checks, func(item *model.Item) bool {
			return strings.Contains(strings.ToLower(item.Name), needle)
		})
	}
	if len(c.Categories) > 0 {
		tokens := c.Categories
		checks = append(checks, func(item *model.Item) bool {
			return intersects(item.Categories, tokens)
		})
	}
	if len(c.Colors) > 0 {
		tokens := c.Colors
		checks = append(checks, func(item *model.Item) bool {
			return intersects(item.Colors, tokens)
		})
	}
	if len(c.Seasons) > 0 {
		tokens := c.Seasons
		checks = append(checks, func(item *model.Item) bool {
			return intersects(item.Seasons, tokens)
		})
	}

	return func(item *model.Item) bool {
		for _, check := range checks {
			if !check(item) {
				return false
			}
		}
		return true
	}
}

// intersects reports whether any tag is in tokens.
func intersects[T ~string](tags []T, tokens TokenSet) bool {
	for _, tag := range tags {
		if tokens.has(string(tag)) {
			return true
		}
	}
	return false
}

// Execute keeps the items matching pred, ordered by descending id.
// The input slice is not modified.
func Execute(items []model.Item, pred Predicate) []model.Item {
	matched := make([]model.Item, 0, len(items))
	for i := range items {
		if pred(&items[i]) {
			matched = append(matched, items[i])
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})
	return matched
}
