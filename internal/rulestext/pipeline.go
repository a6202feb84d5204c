package rulestext

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Markup inserted by one pass is hidden from the passes after it. Before a
// step matches, every tag in the line is swapped for a single private-use
// rune, so patterns can neither match inside attribute text nor run across a
// tag boundary unless they explicitly allow it. The runes are swapped back
// after the rewrite.
const (
	placeholderFirst = '\uE000'
	placeholderLast  = '\uF8FF'

	// placeholderClass is the regex class body matching any placeholder.
	placeholderClass = `\uE000-\uF8FF`
)

var tagRE = regexp2.MustCompile(`<[^<>]*>`, regexp2.None)

// maskedLine is a line with its tags replaced by placeholder runes.
type maskedLine struct {
	text string
	tags []string
}

func mask(line string) maskedLine {
	var tags []string
	text, err := tagRE.ReplaceFunc(line, func(m regexp2.Match) string {
		if placeholderFirst+rune(len(tags)) > placeholderLast {
			return m.String()
		}
		tags = append(tags, m.String())
		return string(placeholderFirst + rune(len(tags)-1))
	}, -1, -1)
	if err != nil {
		return maskedLine{text: line}
	}
	return maskedLine{text: text, tags: tags}
}

// unmask restores the tags hidden in s.
func (ml maskedLine) unmask(s string) string {
	if len(ml.tags) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if i := int(r - placeholderFirst); r >= placeholderFirst && i < len(ml.tags) {
			b.WriteString(ml.tags[i])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// plain returns the visible text of line with all tags removed.
func plain(line string) string {
	out, err := tagRE.Replace(line, "", -1, -1)
	if err != nil {
		return line
	}
	return out
}

// step is one rewrite of a pass: every match of re is replaced by the result
// of rewrite.
type step struct {
	re      *regexp2.Regexp
	rewrite func(m regexp2.Match) string
}

// literal returns a step whose replacement is a fixed regex replacement
// template ($1, ${name}).
func literal(re *regexp2.Regexp, template string) step {
	return step{re: re, rewrite: func(m regexp2.Match) string {
		return expand(m, template)
	}}
}

// expand substitutes $N references in template with groups of m.
func expand(m regexp2.Match, template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}
		n := 0
		for _, d := range template[i+1 : j] {
			n = n*10 + int(d-'0')
		}
		b.WriteString(groupText(m, n))
		i = j - 1
	}
	return b.String()
}

// apply runs the step over line. A failed match leaves the line untouched.
func (s step) apply(line string) string {
	ml := mask(line)
	out, err := s.re.ReplaceFunc(ml.text, s.rewrite, -1, -1)
	if err != nil {
		return line
	}
	return ml.unmask(out)
}

// run applies steps in order.
func run(line string, steps []step) string {
	for _, s := range steps {
		line = s.apply(line)
	}
	return line
}

// matches reports whether re matches the visible text of line.
func matches(re *regexp2.Regexp, line string) bool {
	ok, err := re.MatchString(plain(line))
	return err == nil && ok
}
