package rulestext

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// notUnless rejects "unless he/she/it" immediately before the match.
const notUnless = `(?<!unless he)(?<!unless she)(?<!unless it)`

var (
	kwGroup = keywordAlternation()

	leadingKeywordRE = mustCompile(`^(` + kwGroup + `)( \d+)?(, (` + kwGroup + `))?`, regexp2.IgnoreCase)
	gainsRE          = mustCompile(`(`+notUnless+` gains?:?,? "?)(`+kwGroup+`)( \d+)?( and (`+kwGroup+`))?`, regexp2.IgnoreCase)
	bountiesRE       = mustCompile(`(collect [^.]+ )(bounties)`, regexp2.IgnoreCase)

	// Lead-in phrases where group 2 names the keyword.
	structuralREs = []*regexp2.Regexp{
		mustCompile(`(COORDINATE - )(`+kwGroup+`)`, regexp2.IgnoreCase),
		mustCompile(`(give it )(`+kwGroup+`)`, regexp2.IgnoreCase),
		mustCompile(`(give (?:each|a|an) (?:[^.]+ )?unit )(`+kwGroup+`)`, regexp2.IgnoreCase),
		mustCompile(`(using )(`+kwGroup+`)`, regexp2.IgnoreCase),
		mustCompile(`(`+notUnless+` has )(`+kwGroup+`)`, regexp2.IgnoreCase),
		mustCompile(`(units? with )(`+kwGroup+`)`, regexp2.IgnoreCase),
		mustCompile(`((?:has|with) a )(bounty)`, regexp2.IgnoreCase),
	}
)

// Extract normalizes raw card text and collects the keywords it grants.
// Braces marking inline reminder text are removed, recognized keyword names
// are uppercased in place, and each line is trimmed. Empty input yields empty
// output and an empty set.
func Extract(text string) (string, KeywordSet) {
	keywords := NewKeywordSet()
	if text == "" {
		return text, keywords
	}

	text = strings.NewReplacer("{", "", "}", "").Replace(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = extractLeading(line, keywords)
		line = extractGains(line, keywords)
		for _, re := range structuralREs {
			line = extractPair(re, line, keywords)
		}
		line = extractBounties(line, keywords)
		lines[i] = line
	}
	return strings.Join(lines, "\n"), keywords
}

// extractLeading handles a line opening with a keyword, an optional number
// and an optional second keyword ("Raid 2, Overwhelm").
func extractLeading(line string, keywords KeywordSet) string {
	out, err := leadingKeywordRE.ReplaceFunc(line, func(m regexp2.Match) string {
		first := strings.ToUpper(groupText(m, 1))
		keywords.Add(Keyword(first))
		out := first + groupText(m, 2)
		if second, ok := group(m, 4); ok {
			second = strings.ToUpper(second)
			keywords.Add(Keyword(second))
			out += ", " + second
		}
		return out
	}, -1, 1)
	if err != nil {
		return line
	}
	return out
}

// extractGains handles "<subject> gains <KEYWORD>[ N][ and <KEYWORD>]". Every
// occurrence is uppercased; only the first contributes to the set.
func extractGains(line string, keywords KeywordSet) string {
	first := true
	out, err := gainsRE.ReplaceFunc(line, func(m regexp2.Match) string {
		kw := strings.ToUpper(groupText(m, 2))
		out := groupText(m, 1) + kw + groupText(m, 3)
		second, ok := group(m, 5)
		if ok {
			second = strings.ToUpper(second)
			out += " and " + second
		}
		if first {
			keywords.Add(Keyword(kw))
			if ok {
				keywords.Add(Keyword(second))
			}
			first = false
		}
		return out
	}, -1, -1)
	if err != nil {
		return line
	}
	return out
}

// extractPair uppercases group 2 of every match of re, recording the keyword
// from the first match.
func extractPair(re *regexp2.Regexp, line string, keywords KeywordSet) string {
	first := true
	out, err := re.ReplaceFunc(line, func(m regexp2.Match) string {
		kw := strings.ToUpper(groupText(m, 2))
		if first {
			keywords.Add(Keyword(kw))
			first = false
		}
		return groupText(m, 1) + kw
	}, -1, -1)
	if err != nil {
		return line
	}
	return out
}

// extractBounties maps "collect ... bounties" to BOUNTY.
func extractBounties(line string, keywords KeywordSet) string {
	out, err := bountiesRE.ReplaceFunc(line, func(m regexp2.Match) string {
		keywords.Add(Bounty)
		return groupText(m, 1) + strings.ToUpper(groupText(m, 2))
	}, -1, -1)
	if err != nil {
		return line
	}
	return out
}

func mustCompile(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	return regexp2.MustCompile(expr, opts)
}

// group returns the text of capture n and whether it participated.
func group(m regexp2.Match, n int) (string, bool) {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}

func groupText(m regexp2.Match, n int) string {
	s, _ := group(m, n)
	return s
}
