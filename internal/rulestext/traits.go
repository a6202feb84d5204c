package rulestext

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// TraitVocabulary is an immutable snapshot of every trait known to the card
// corpus, with the trait-linking patterns compiled from it.
type TraitVocabulary struct {
	names   []string
	version string
	steps   []step
}

// NewTraitVocabulary dedupes and sorts traits and compiles the linking
// patterns for them. Blank names are dropped.
func NewTraitVocabulary(traits []string) *TraitVocabulary {
	seen := make(map[string]bool, len(traits))
	var names []string
	for _, t := range traits {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToUpper(t)] {
			continue
		}
		seen[strings.ToUpper(t)] = true
		names = append(names, t)
	}
	sort.Strings(names)

	h := fnv.New64a()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}

	v := &TraitVocabulary{
		names:   names,
		version: fmt.Sprintf("%016x", h.Sum64()),
	}
	if len(names) > 0 {
		v.steps = traitSteps(names)
	}
	return v
}

// Names returns a copy of the traits in alphabetical order.
func (v *TraitVocabulary) Names() []string {
	return append([]string(nil), v.names...)
}

// Len returns the number of traits.
func (v *TraitVocabulary) Len() int {
	return len(v.names)
}

// Version identifies the vocabulary contents. Two vocabularies with the same
// traits share a version.
func (v *TraitVocabulary) Version() string {
	return v.version
}

func traitSteps(names []string) []step {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = regexp2.Escape(n)
	}
	t := `(?:` + strings.Join(escaped, "|") + `)`
	single := mustCompile(`\b(`+t+`)\b`, regexp2.IgnoreCase)
	noTag := `[^.` + placeholderClass + `]*?`

	linkAll := func(m regexp2.Match) string {
		out, err := single.ReplaceFunc(m.String(), func(m regexp2.Match) string {
			return traitLink(m.String())
		}, -1, -1)
		if err != nil {
			return m.String()
		}
		return out
	}
	// link the trait in group 2, keeping group 1 and 3 around it
	linkSecond := func(m regexp2.Match) string {
		return groupText(m, 1) + traitLink(groupText(m, 2)) + groupText(m, 3)
	}

	return []step{
		// "X, Y and Z", "X or Y", "X, non-Y"
		{
			re: mustCompile(`\b`+t+`(?:(?:, (?:non-)?`+t+`)?,? (?:and|or) (?:non-)?`+t+`|, non-`+t+`)\b`,
				regexp2.IgnoreCase),
			rewrite: linkAll,
		},
		// "<TRAIT> [ground|space|leader] unit|card|event"
		{
			re: mustCompile(`\b(`+t+`)( (?:ground |space |leader )?(?:unit|card|event)s?)\b`, regexp2.IgnoreCase),
			rewrite: func(m regexp2.Match) string {
				return traitLink(groupText(m, 1)) + groupText(m, 2)
			},
		},
		{re: mustCompile(`(attached unit is an? )(`+t+`)\b`, regexp2.IgnoreCase), rewrite: linkSecond},
		{re: mustCompile(`(if it['’]s an? )(`+t+`)\b`, regexp2.IgnoreCase), rewrite: linkSecond},
		{re: mustCompile(`(search `+noTag+`deck for `+noTag+`)\b(`+t+`)\b`, regexp2.IgnoreCase), rewrite: linkSecond},
		{re: mustCompile(`(gains the )(`+t+`)( trait)`, regexp2.IgnoreCase), rewrite: linkSecond},
		{re: mustCompile(`(unit without a )(pilot)( on it)`, regexp2.IgnoreCase), rewrite: linkSecond},
	}
}

func traitLink(name string) string {
	name = strings.ToUpper(name)
	return `<span class="trait"><a href="` + searchURL("trait", name) + `">` + name + `</a></span>`
}
