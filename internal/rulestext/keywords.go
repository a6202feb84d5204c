// Package rulestext turns card rules text into searchable keywords at build
// time and into annotated HTML at render time.
package rulestext

import (
	"sort"
	"strings"
)

// Keyword is a reserved rules term from the game's closed keyword list.
type Keyword string

// Keywords recognized on card text.
const (
	Ambush     Keyword = "AMBUSH"
	Grit       Keyword = "GRIT"
	Overwhelm  Keyword = "OVERWHELM"
	Raid       Keyword = "RAID"
	Restore    Keyword = "RESTORE"
	Saboteur   Keyword = "SABOTEUR"
	Sentinel   Keyword = "SENTINEL"
	Shielded   Keyword = "SHIELDED"
	Bounty     Keyword = "BOUNTY"
	Smuggle    Keyword = "SMUGGLE"
	Coordinate Keyword = "COORDINATE"
	Exploit    Keyword = "EXPLOIT"
	Piloting   Keyword = "PILOTING"
	Hidden     Keyword = "HIDDEN"
)

// Vocabulary lists every keyword in declaration order.
var Vocabulary = []Keyword{
	Ambush, Grit, Overwhelm, Raid, Restore, Saboteur, Sentinel,
	Shielded, Bounty, Smuggle, Coordinate, Exploit, Piloting, Hidden,
}

// ParseKeyword returns the canonical keyword for s, ignoring case.
func ParseKeyword(s string) (Keyword, bool) {
	k := Keyword(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range Vocabulary {
		if v == k {
			return k, true
		}
	}
	return "", false
}

// keywordAlternation is the regex alternation of all keyword names.
func keywordAlternation() string {
	names := make([]string, len(Vocabulary))
	for i, k := range Vocabulary {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

// KeywordSet is an unordered set of keywords.
type KeywordSet map[Keyword]struct{}

// NewKeywordSet returns a set holding ks.
func NewKeywordSet(ks ...Keyword) KeywordSet {
	s := make(KeywordSet, len(ks))
	for _, k := range ks {
		s.Add(k)
	}
	return s
}

// Add inserts k in its uppercase form.
func (s KeywordSet) Add(k Keyword) {
	s[Keyword(strings.ToUpper(string(k)))] = struct{}{}
}

// Has reports whether k is in the set.
func (s KeywordSet) Has(k Keyword) bool {
	_, ok := s[k]
	return ok
}

// Union returns a new set with the members of s and other.
func (s KeywordSet) Union(other KeywordSet) KeywordSet {
	out := make(KeywordSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the members in alphabetical order.
func (s KeywordSet) Sorted() []Keyword {
	out := make([]Keyword, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
