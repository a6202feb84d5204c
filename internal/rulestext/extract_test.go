package rulestext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		keywords []Keyword
	}{
		{
			name:     "leading keyword",
			text:     "Sentinel. Deal 1 damage.",
			want:     "SENTINEL. Deal 1 damage.",
			keywords: []Keyword{Sentinel},
		},
		{
			name:     "leading keyword with number and second keyword",
			text:     "Raid 2, Overwhelm",
			want:     "RAID 2, OVERWHELM",
			keywords: []Keyword{Overwhelm, Raid},
		},
		{
			name:     "braces removed",
			text:     "Restore 2 {Heal 2 damage from your base.}",
			want:     "RESTORE 2 Heal 2 damage from your base.",
			keywords: []Keyword{Restore},
		},
		{
			name:     "gains",
			text:     "Attached unit gains Sentinel.",
			want:     "Attached unit gains SENTINEL.",
			keywords: []Keyword{Sentinel},
		},
		{
			name:     "gains two keywords",
			text:     "This unit gains: Raid 1 and Overwhelm for this phase.",
			want:     "This unit gains: RAID 1 and OVERWHELM for this phase.",
			keywords: []Keyword{Overwhelm, Raid},
		},
		{
			name: "unless it gains is not a grant",
			text: "This unit can't attack unless it gains Raid 1.",
			want: "This unit can't attack unless it gains Raid 1.",
		},
		{
			name:     "give a qualified unit",
			text:     "Give a friendly unit Overwhelm for this phase.",
			want:     "Give a friendly unit OVERWHELM for this phase.",
			keywords: []Keyword{Overwhelm},
		},
		{
			name:     "coordinate",
			text:     "COORDINATE - Grit.",
			want:     "COORDINATE - GRIT.",
			keywords: []Keyword{Coordinate, Grit},
		},
		{
			name:     "units with",
			text:     "Friendly units with Shielded get +1/+0.",
			want:     "Friendly units with SHIELDED get +1/+0.",
			keywords: []Keyword{Shielded},
		},
		{
			name:     "has a bounty",
			text:     "When an enemy unit that has a bounty is defeated, draw a card.",
			want:     "When an enemy unit that has a BOUNTY is defeated, draw a card.",
			keywords: []Keyword{Bounty},
		},
		{
			name:     "collect bounties",
			text:     "You may collect all bounties on that unit.",
			want:     "You may collect all BOUNTIES on that unit.",
			keywords: []Keyword{Bounty},
		},
		{
			name:     "multiple lines trimmed",
			text:     " Ambush \nWhen Played: Give it Shielded.",
			want:     "AMBUSH\nWhen Played: Give it SHIELDED.",
			keywords: []Keyword{Ambush, Shielded},
		},
		{
			name: "no keywords",
			text: "Draw a card.",
			want: "Draw a card.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keywords := Extract(tt.text)
			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, tt.keywords, keywords.Sorted())
		})
	}
}

func TestExtract_Empty(t *testing.T) {
	got, keywords := Extract("")
	assert.Equal(t, "", got)
	assert.Empty(t, keywords)
}

func TestExtract_OnlyFirstGainsCounts(t *testing.T) {
	got, keywords := Extract("This unit gains Raid 1. Another unit gains Grit.")
	assert.Equal(t, "This unit gains RAID 1. Another unit gains GRIT.", got)
	assert.Equal(t, []Keyword{Raid}, keywords.Sorted())
}

func TestExtract_Deterministic(t *testing.T) {
	text := "Ambush, Overwhelm\nWhen Played: Give each other friendly unit Sentinel for this phase."
	first, firstKeywords := Extract(text)
	for i := 0; i < 10; i++ {
		got, keywords := Extract(text)
		assert.Equal(t, first, got)
		assert.Equal(t, firstKeywords.Sorted(), keywords.Sorted())
	}
}

func TestParseKeyword(t *testing.T) {
	k, ok := ParseKeyword(" sentinel ")
	assert.True(t, ok)
	assert.Equal(t, Sentinel, k)

	_, ok = ParseKeyword("flying")
	assert.False(t, ok)
}

func TestKeywordSet(t *testing.T) {
	s := NewKeywordSet("raid", Grit)
	assert.True(t, s.Has(Raid))
	assert.True(t, s.Has(Grit))

	u := s.Union(NewKeywordSet(Hidden, Raid))
	assert.Equal(t, []Keyword{Grit, Hidden, Raid}, u.Sorted())
	assert.Len(t, s, 2)
}
