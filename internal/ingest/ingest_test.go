package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/swuapi"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	allCards := filepath.Join(dir, "all_cards.json")
	corrections := filepath.Join(dir, "corrections.json")

	_, err := Load(allCards, corrections)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holocron fetch")

	require.NoError(t, os.WriteFile(allCards, []byte(`[{"Set":"SOR","Number":"010","Name":"Darth Vader"}]`), 0644))
	src, err := Load(allCards, corrections)
	require.NoError(t, err)
	require.Len(t, src.Cards, 1)
	assert.Empty(t, src.Corrections)

	require.NoError(t, os.WriteFile(corrections, []byte(`{"SOR-010":{"Subtitle":"Dark Lord of the Sith"}}`), 0644))
	src, err = Load(allCards, corrections)
	require.NoError(t, err)
	assert.Contains(t, src.Corrections, "SOR-010")
}

func TestBuildCorpus(t *testing.T) {
	src := &Source{
		Cards: []swuapi.Card{
			{
				Set:         "SOR",
				Number:      "010",
				Name:        "Darth Vader",
				Type:        "Leader",
				Aspects:     []string{"Aggression", "Villainy"},
				Traits:      []string{"FORCE", "IMPERIAL", "SITH"},
				FrontText:   "{Action} [C=1]: Deal 1 damage.",
				BackText:    "Overwhelm\nOn Attack: gain raid 2.",
				Rarity:      "Common",
				VariantType: "Normal",
				Artist:      "Borja Pindado",
			},
			{
				Set:         "SOR",
				Number:      "128",
				Name:        "Keep Fighting",
				Type:        "Event",
				Aspects:     []string{"Heroism", "Heroism"},
				Rarity:      "Common",
				VariantType: "Normal",
				Artist:      "Sandra Chewlińska",
			},
			{
				Set:         "XYZ",
				Number:      "1",
				Name:        "Shield",
				Type:        "Token Upgrade",
				Rarity:      "Special",
				VariantType: "Normal",
				Artist:      "Ryan Valle",
			},
		},
		Corrections: map[string]json.RawMessage{
			"SOR-010": json.RawMessage(`{"Subtitle":"Dark Lord of the Sith","Unique":true}`),
		},
	}

	corpus, err := BuildCorpus(src, catalog.Default(), nil)
	require.NoError(t, err)
	require.Len(t, corpus.Records, 3)
	assert.Len(t, corpus.Sets, 5)

	vader := corpus.Records[0]
	assert.Equal(t, "SOR-010", vader.ID)
	assert.Equal(t, 10, vader.Number)
	assert.Equal(t, "Dark Lord of the Sith", vader.Subtitle)
	assert.True(t, vader.Unique)
	assert.Equal(t, "Action [C=1]: Deal 1 damage.", vader.FrontText)
	assert.Equal(t, "OVERWHELM\nOn Attack: gain RAID 2.", vader.BackText)
	assert.Equal(t, []string{"OVERWHELM", "RAID"}, vader.Keywords)
	assert.Equal(t, []card.CardAspect{
		{Aspect: card.Aggression, Color: "red"},
		{Aspect: card.Villainy, Color: "black"},
	}, vader.Aspects)

	event := corpus.Records[1]
	assert.Equal(t, []card.CardAspect{{Aspect: card.Heroism, Color: "white", Double: true}}, event.Aspects)
	assert.Empty(t, event.Keywords)
	assert.Equal(t, "Sandra Chlewinska", event.ArtistSearch)

	token := corpus.Records[2]
	assert.Equal(t, []card.CardAspect{{Aspect: card.None}}, token.Aspects)
	assert.Empty(t, token.Traits)
}

func TestBuildCorpus_Errors(t *testing.T) {
	_, err := BuildCorpus(&Source{Cards: []swuapi.Card{{Set: "SOR", Number: "x"}}}, catalog.Default(), nil)
	assert.ErrorContains(t, err, "invalid number")

	_, err = BuildCorpus(&Source{Cards: []swuapi.Card{{Set: "SOR", Number: "1", Aspects: []string{"Chaos"}}}}, catalog.Default(), nil)
	assert.ErrorContains(t, err, "unknown aspect")
}

func TestArtistSearchKey(t *testing.T) {
	tests := map[string]string{
		"Borja Pindado":      "Borja Pindado",
		"Amélie Hutt":        "Axel Hutt",
		"Aitor Prieto Reyes": "Aitor Prieto",
		"Sandra Chlewińska":  "Sandra Chlewinska",
		"Łukasz Jaskólski":   "Lukasz Jaskolski",
		"Cristóbal Peña":     "Cristobal Pena",
	}
	for in, want := range tests {
		assert.Equal(t, want, ArtistSearchKey(in), in)
	}
}
