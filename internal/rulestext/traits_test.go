package rulestext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraitVocabulary(t *testing.T) {
	v := NewTraitVocabulary([]string{"VEHICLE", "REBEL", " ", "VEHICLE", "Rebel", "JEDI"})
	assert.Equal(t, []string{"JEDI", "REBEL", "VEHICLE"}, v.Names())
	assert.Equal(t, 3, v.Len())
	assert.NotEmpty(t, v.steps)
}

func TestTraitVocabulary_Version(t *testing.T) {
	a := NewTraitVocabulary([]string{"REBEL", "JEDI"})
	b := NewTraitVocabulary([]string{"JEDI", "REBEL", "JEDI"})
	c := NewTraitVocabulary([]string{"JEDI"})

	assert.Equal(t, a.Version(), b.Version())
	assert.NotEqual(t, a.Version(), c.Version())
}

func TestTraitVocabulary_Empty(t *testing.T) {
	v := NewTraitVocabulary(nil)
	assert.Zero(t, v.Len())
	assert.Empty(t, v.steps)
	assert.NotEmpty(t, v.Version())
}

func TestMaskRoundTrip(t *testing.T) {
	line := `Deal <b>2</b> damage to <a href="/x">a unit</a>.`
	ml := mask(line)
	assert.Len(t, ml.tags, 4)
	assert.NotContains(t, ml.text, "<")
	assert.Equal(t, line, ml.unmask(ml.text))
	assert.Equal(t, "Deal 2 damage to a unit.", plain(line))
}
