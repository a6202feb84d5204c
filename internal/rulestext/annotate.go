package rulestext

import (
	"net/url"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/arcanaland/holocron/internal/card"
)

// NormalVariant is the only variant type that shows reminder text.
const NormalVariant = "Normal"

// CSS classes shared with the page templates and stylesheet.
const (
	classCardText          = "card-text"
	classKeyword           = "keyword"
	classReminder          = "reminder"
	classUnique            = "unique"
	classAspectImg         = "aspect-img"
	classSentinelBlock     = "alert alert-danger"
	classCondSentinelBlock = "alert alert-danger bg-transparent"
	classPilotingBlock     = "alert alert-light"
	exhaustIcon            = `<img class="exhaust-icon" src="/static/images/exhaust.svg" alt="Exhaust">`
	uniqueGlyph            = `<span class="` + classUnique + `" role="img" aria-label="unique">✧</span>`
	blockClose             = `</div>`
)

// RenderContext carries the per-card facts the annotator needs.
type RenderContext struct {
	VariantType string
	Keywords    []Keyword
	IsPilot     bool
}

// ContextFor builds the render context of c.
func ContextFor(c *card.Card) RenderContext {
	ctx := RenderContext{
		VariantType: c.VariantType,
		IsPilot:     c.IsPilot(),
	}
	for _, k := range c.Keywords {
		ctx.Keywords = append(ctx.Keywords, Keyword(k))
	}
	return ctx
}

// sentinelBlock is the decoration a line gets from its Sentinel wording.
type sentinelBlock int

const (
	noSentinel sentinelBlock = iota
	fullSentinel
	conditionalSentinel
)

// blockState is the decoration state threaded through the lines of one text.
// At most one piloting block is opened and it stays open until the end.
type blockState struct {
	pilotingLine int // -1 until a line starts the piloting block
	pilotingOpen bool
}

func (s *blockState) markPiloting(line int) {
	if s.pilotingLine < 0 {
		s.pilotingLine = line
	}
}

var (
	punctuationSteps = []step{
		literal(mustCompile(`"([^"]*)"`, regexp2.None), "“$1”"),
		literal(mustCompile(` - `, regexp2.None), " — "),
		literal(mustCompile(`'`, regexp2.None), "’"),
	}

	triggerSteps = []step{
		literal(mustCompile(`((?:Epic )?Action(?: \[[^\]]*\])?:)`, regexp2.None), "<b>$1</b>"),
		literal(mustCompile(`\b((?:When|On) [^.:<`+placeholderClass+`]*?:)`, regexp2.None), "<b>$1</b>"),
	}

	exhaustStep = literal(mustCompile(`(\[[^\]]*?)\bexhaust\b`, regexp2.IgnoreCase), "$1"+exhaustIcon)

	aspectStep = step{
		re: mustCompile(`\b(`+strings.Join(card.AspectNames(), "|")+`)\b`, regexp2.IgnoreCase),
		rewrite: func(m regexp2.Match) string {
			a, _ := card.ParseAspect(m.String())
			name := string(a)
			return `<a href="` + searchURL("aspect", name) + `"><img class="` + classAspectImg +
				`" src="/static/images/aspects/` + name + `.png" alt="` + name + `"></a>`
		},
	}

	uniqueStep = step{
		re: mustCompile(`\b(non-)?unique\b( \((?:non-)?unique\))?`, regexp2.IgnoreCase),
		rewrite: func(m regexp2.Match) string {
			return groupText(m, 1) + uniqueGlyph + groupText(m, 2)
		},
	}

	reminderRE = mustCompile(` (\([^()]*\))`, regexp2.None)

	keywordWordStep = step{
		re: mustCompile(`\b(keywords?)\b`, regexp2.IgnoreCase),
		rewrite: func(m regexp2.Match) string {
			return `<span class="` + classKeyword + `">` + strings.ToUpper(m.String()) + `</span>`
		},
	}

	bountiesTokenRE = mustCompile(`\b(BOUNTIES)\b`, regexp2.None)

	fullSentinelRE        = mustCompile(`^(?:Sentinel|Attached unit gains Sentinel)\b`, regexp2.IgnoreCase)
	conditionalSentinelRE = mustCompile(`(?:this|attached) unit .*gains.*Sentinel`, regexp2.IgnoreCase)
	pilotingStartRE       = mustCompile(`^Piloting\b`, regexp2.IgnoreCase)
	pilotUpgradeRE        = mustCompile(`attached unit|this upgrade`, regexp2.IgnoreCase)

	badgeSteps = []step{
		literal(mustCompile(`\bC=(\d+)`, regexp2.None), badge("cost", "$1")),
		literal(mustCompile(`(Action \[)(\d+)`, regexp2.None), "$1"+badge("cost", "$2")),
		literal(mustCompile(`\b(costs|pays) (\d+)\b`, regexp2.IgnoreCase), "$1 "+badge("cost", "$2")),
		literal(mustCompile(`([+-]\d+)/([+-]\d+)`, regexp2.None), badge("power", "$1")+"/"+badge("hp", "$2")),
		literal(mustCompile(`\b(\d+)( or (?:less|more)(?: remaining)? HP)\b`, regexp2.IgnoreCase), badge("hp", "$1")+"$2"),
		literal(mustCompile(`\b(\d+)( or (?:less|more) power)\b`, regexp2.IgnoreCase), badge("power", "$1")+"$2"),
	}

	keywordREs = compileKeywordPatterns()
)

func compileKeywordPatterns() map[Keyword]*regexp2.Regexp {
	out := make(map[Keyword]*regexp2.Regexp, len(Vocabulary))
	for _, k := range Vocabulary {
		out[k] = keywordPattern(k)
	}
	return out
}

// keywordPattern matches a keyword name with an optional number and an
// optional bracketed qualifier ("Smuggle [5 resources]").
func keywordPattern(k Keyword) *regexp2.Regexp {
	return mustCompile(`\b(`+regexp2.Escape(string(k))+`\b(?: \d+)?)( ?\[[^\]]*\])?`, regexp2.IgnoreCase)
}

func badge(kind, content string) string {
	return `<span class="badge ` + kind + `">` + content + `</span>`
}

func searchURL(field, value string) string {
	return "/search?" + field + "=" + url.QueryEscape(value) + "&variant_type=" + NormalVariant
}

func keywordLink(k Keyword, text string) string {
	return `<a href="` + searchURL("keyword", string(k)) + `">` + text + `</a>`
}

// Annotator renders card rules text as HTML. It is safe for concurrent use.
type Annotator struct {
	traits *TraitVocabulary
}

// NewAnnotator returns an annotator linking the traits of v. A nil or empty
// vocabulary disables trait linking.
func NewAnnotator(v *TraitVocabulary) *Annotator {
	if v == nil {
		v = NewTraitVocabulary(nil)
	}
	return &Annotator{traits: v}
}

// Traits returns the vocabulary the annotator was built with.
func (a *Annotator) Traits() *TraitVocabulary {
	return a.traits
}

// Annotate converts text into a series of card-text paragraphs. Empty text
// renders as the empty string.
func (a *Annotator) Annotate(text string, ctx RenderContext) string {
	if text == "" {
		return ""
	}

	keywords := dedupe(ctx.Keywords)
	state := blockState{pilotingLine: -1}
	var out []string
	for i, line := range strings.Split(text, "\n") {
		line = run(line, punctuationSteps)
		line = run(line, triggerSteps)
		line = exhaustStep.apply(line)
		line = aspectStep.apply(line)
		line = uniqueStep.apply(line)
		line = reminders(line, ctx.VariantType)
		line = keywordWordStep.apply(line)

		var sentinel sentinelBlock
		line, sentinel = linkKeywords(line, keywords, i, &state)

		if ctx.IsPilot && state.pilotingLine < 0 && matches(pilotUpgradeRE, line) {
			state.markPiloting(i)
		}

		line = run(line, a.traits.steps)
		line = run(line, badgeSteps)

		if strings.TrimSpace(line) == "" {
			continue
		}
		line = `<p class="` + classCardText + `">` + line + `</p>`

		switch sentinel {
		case fullSentinel:
			line = `<div class="` + classSentinelBlock + `">` + line + blockClose
		case conditionalSentinel:
			line = `<div class="` + classCondSentinelBlock + `">` + line + blockClose
		}

		if state.pilotingLine == i {
			line = `<div class="` + classPilotingBlock + `">` + line
			state.pilotingOpen = true
		}
		out = append(out, line)
	}

	html := strings.Join(out, "\n")
	if state.pilotingOpen {
		html += blockClose
	}
	return html
}

// reminders wraps parenthetical reminder text for the Normal variant and
// drops it for every other variant.
func reminders(line, variant string) string {
	s := step{re: reminderRE, rewrite: func(m regexp2.Match) string {
		if variant != NormalVariant {
			return ""
		}
		return ` <span class="` + classReminder + `">` + groupText(m, 1) + `</span>`
	}}
	return s.apply(line)
}

// linkKeywords links every card keyword in line and reports the Sentinel
// decoration the line asks for. A line opening with Piloting marks the start
// of the piloting block.
func linkKeywords(line string, keywords []Keyword, index int, state *blockState) (string, sentinelBlock) {
	sentinel := noSentinel
	for _, k := range keywords {
		re, ok := keywordREs[k]
		if !ok {
			re = keywordPattern(k)
		}
		line = step{re: re, rewrite: func(m regexp2.Match) string {
			return `<span class="` + classKeyword + `">` + keywordLink(k, groupText(m, 1)) + groupText(m, 2) + `</span>`
		}}.apply(line)

		switch k {
		case Bounty:
			line = step{re: bountiesTokenRE, rewrite: func(m regexp2.Match) string {
				return `<span class="` + classKeyword + `">` + keywordLink(Bounty, m.String()) + `</span>`
			}}.apply(line)
		case Sentinel:
			if matches(fullSentinelRE, line) {
				sentinel = fullSentinel
			} else if matches(conditionalSentinelRE, line) {
				sentinel = conditionalSentinel
			}
		case Piloting:
			if matches(pilotingStartRE, line) {
				state.markPiloting(index)
			}
		}
	}
	return line, sentinel
}

func dedupe(ks []Keyword) []Keyword {
	seen := make(map[Keyword]bool, len(ks))
	out := make([]Keyword, 0, len(ks))
	for _, k := range ks {
		k = Keyword(strings.ToUpper(strings.TrimSpace(string(k))))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
